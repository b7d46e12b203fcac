package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stagebeat/workshop-notifier/internal/model"
)

// MockHistoryStorage is a testify mock for HistoryStorage.
type MockHistoryStorage struct {
	mock.Mock
}

func NewMockHistoryStorage(t *testing.T) *MockHistoryStorage {
	m := &MockHistoryStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHistoryStorage) Exists(ctx context.Context, userID, workshopID, notifType string) (bool, error) {
	args := m.Called(ctx, userID, workshopID, notifType)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryStorage) ExistsRecent(ctx context.Context, userID, artistID string, within time.Duration) (bool, error) {
	args := m.Called(ctx, userID, artistID, within)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryStorage) MostRecent(ctx context.Context, workshopID string) (*model.HistoryRecord, error) {
	args := m.Called(ctx, workshopID)
	if rec := args.Get(0); rec != nil {
		return rec.(*model.HistoryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHistoryStorage) Insert(ctx context.Context, rec *model.HistoryRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockHistoryStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDeviceStorage is a testify mock for DeviceStorage.
type MockDeviceStorage struct {
	mock.Mock
}

func NewMockDeviceStorage(t *testing.T) *MockDeviceStorage {
	m := &MockDeviceStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDeviceStorage) Register(ctx context.Context, userID, token, platform string) (*model.DeviceToken, error) {
	args := m.Called(ctx, userID, token, platform)
	if dt := args.Get(0); dt != nil {
		return dt.(*model.DeviceToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeviceStorage) ActiveTokens(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	args := m.Called(ctx, userID)
	if tokens := args.Get(0); tokens != nil {
		return tokens.([]model.DeviceToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeviceStorage) Deactivate(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockDeviceStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSubscriptionStorage is a testify mock for SubscriptionStorage.
type MockSubscriptionStorage struct {
	mock.Mock
}

func NewMockSubscriptionStorage(t *testing.T) *MockSubscriptionStorage {
	m := &MockSubscriptionStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSubscriptionStorage) Notifiers(ctx context.Context, artistID string) ([]string, error) {
	args := m.Called(ctx, artistID)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
