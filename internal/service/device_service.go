package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

// DeviceService registers push tokens on behalf of the mobile clients.
type DeviceService interface {
	Register(ctx context.Context, userID, token, platform string) (*model.DeviceToken, error)
}

type deviceService struct {
	devices store.DeviceStorage
	log     *slog.Logger
}

// NewDeviceService creates a new device registration service
func NewDeviceService(devices store.DeviceStorage, log *slog.Logger) DeviceService {
	return &deviceService{devices: devices, log: log}
}

// Register validates the request and upserts the token. The registry takes
// care of deactivating the prior token for the pair and the same token
// value held by another user.
func (s *deviceService) Register(ctx context.Context, userID, token, platform string) (*model.DeviceToken, error) {
	if userID == "" || token == "" {
		return nil, fmt.Errorf("user_id and token are required")
	}
	if !model.ValidPlatform(platform) {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}

	dt, err := s.devices.Register(ctx, userID, token, platform)
	if err != nil {
		s.log.Error("Device registration failed",
			slog.String("user_id", userID),
			slog.String("platform", platform),
			slog.Any("error", err))
		return nil, err
	}

	s.log.Info("Device registered",
		slog.String("user_id", userID),
		slog.String("platform", platform))
	return dt, nil
}
