package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

func TestDeviceService_Register(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	devices.On("Register", mock.Anything, "u1", "tok1", model.PlatformIOS).
		Return(&model.DeviceToken{UserID: "u1", Token: "tok1", Platform: model.PlatformIOS, Active: true}, nil)

	svc := NewDeviceService(devices, slog.Default())
	dt, err := svc.Register(context.Background(), "u1", "tok1", model.PlatformIOS)
	require.NoError(t, err)
	assert.True(t, dt.Active)
	assert.Equal(t, "tok1", dt.Token)
}

func TestDeviceService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		token    string
		platform string
	}{
		{"missing user", "", "tok1", model.PlatformIOS},
		{"missing token", "u1", "", model.PlatformIOS},
		{"bad platform", "u1", "tok1", "windows"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			devices := store.NewMockDeviceStorage(t)
			svc := NewDeviceService(devices, slog.Default())

			_, err := svc.Register(context.Background(), tc.userID, tc.token, tc.platform)
			assert.Error(t, err)
			devices.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
