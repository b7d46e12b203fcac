package store

import (
	"context"
	"time"

	"github.com/stagebeat/workshop-notifier/internal/model"
)

// HistoryStorage is the append-only send ledger. It is the sole source of
// idempotency truth for the pipeline: rows are inserted on confirmed
// delivery and never mutated or deleted.
type HistoryStorage interface {
	// Exists reports whether this exact (user, workshop, type) was already sent.
	Exists(ctx context.Context, userID, workshopID, notifType string) (bool, error)
	// ExistsRecent reports whether the user got any notification about the
	// artist within the trailing window.
	ExistsRecent(ctx context.Context, userID, artistID string, within time.Duration) (bool, error)
	// MostRecent returns the latest record for a workshop, any type.
	// Returns a wrapped ErrNotFound when the workshop was never notified.
	MostRecent(ctx context.Context, workshopID string) (*model.HistoryRecord, error)
	// Insert appends a new send record.
	Insert(ctx context.Context, rec *model.HistoryRecord) error
	Ping(ctx context.Context) error
}

// DeviceStorage is the device-token registry.
type DeviceStorage interface {
	// Register upserts a token for (user, platform), deactivating the user's
	// prior token on that platform and the same token value held by anyone else.
	Register(ctx context.Context, userID, token, platform string) (*model.DeviceToken, error)
	// ActiveTokens returns the user's active tokens across platforms.
	ActiveTokens(ctx context.Context, userID string) ([]model.DeviceToken, error)
	// Deactivate marks a token value inactive wherever it appears.
	Deactivate(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// SubscriptionStorage is the read-only view onto the external reaction store.
type SubscriptionStorage interface {
	// Notifiers returns the ids of users with an active NOTIFY subscription
	// to the artist.
	Notifiers(ctx context.Context, artistID string) ([]string, error)
	Ping(ctx context.Context) error
}
