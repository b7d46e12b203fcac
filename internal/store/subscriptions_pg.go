package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type subscriptionStorage struct {
	db *sqlx.DB
}

// NewSubscriptionStorage creates the read-only view onto the reaction store.
// The reactions table is owned by another service; this pipeline never
// writes to it.
func NewSubscriptionStorage(db *sqlx.DB) SubscriptionStorage {
	return &subscriptionStorage{db: db}
}

// Notifiers returns users with an active NOTIFY reaction for the artist.
// Soft-deleted reactions are invisible here.
func (s *subscriptionStorage) Notifiers(ctx context.Context, artistID string) ([]string, error) {
	var userIDs []string
	query := `SELECT user_id FROM reactions
		WHERE artist_id = $1 AND reaction = 'NOTIFY' AND NOT is_deleted`
	if err := s.db.SelectContext(ctx, &userIDs, query, artistID); err != nil {
		return nil, fmt.Errorf("subscription notifiers: %w", err)
	}
	return userIDs, nil
}

func (s *subscriptionStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
