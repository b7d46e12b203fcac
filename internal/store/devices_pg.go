package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stagebeat/workshop-notifier/internal/model"
)

type deviceStorage struct {
	db *sqlx.DB
}

// NewDeviceStorage creates the Postgres-backed device registry
func NewDeviceStorage(db *sqlx.DB) DeviceStorage {
	return &deviceStorage{db: db}
}

// Register upserts a token for (user, platform). The prior active token for
// the pair is deactivated, and the same token value registered to a different
// user is deactivated there too: tokens get reassigned on device resale or
// reinstall, so "active" must be unique per token value as well.
func (s *deviceStorage) Register(ctx context.Context, userID, token, platform string) (*model.DeviceToken, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("device register begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	_, err = tx.ExecContext(ctx,
		`UPDATE device_tokens SET active = FALSE, updated_at = $1
		 WHERE user_id = $2 AND platform = $3 AND active`,
		now, userID, platform)
	if err != nil {
		return nil, fmt.Errorf("device register deactivate prior: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE device_tokens SET active = FALSE, updated_at = $1
		 WHERE token = $2 AND user_id <> $3 AND active`,
		now, token, userID)
	if err != nil {
		return nil, fmt.Errorf("device register deactivate reassigned: %w", err)
	}

	dt := &model.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	row := tx.QueryRowxContext(ctx,
		`INSERT INTO device_tokens (user_id, token, platform, active, created_at, updated_at)
		 VALUES ($1, $2, $3, TRUE, $4, $5) RETURNING id`,
		userID, token, platform, now, now)
	if err := row.Scan(&dt.ID); err != nil {
		return nil, fmt.Errorf("device register insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("device register commit: %w", err)
	}
	return dt, nil
}

// ActiveTokens returns all active tokens for the user
func (s *deviceStorage) ActiveTokens(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	var tokens []model.DeviceToken
	query := `SELECT id, user_id, token, platform, active, created_at, updated_at
		FROM device_tokens WHERE user_id = $1 AND active`
	if err := s.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("device active tokens: %w", err)
	}
	return tokens, nil
}

// Deactivate marks a token value inactive wherever it appears
func (s *deviceStorage) Deactivate(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE device_tokens SET active = FALSE, updated_at = $1 WHERE token = $2 AND active`,
		time.Now(), token)
	if err != nil {
		return fmt.Errorf("device deactivate: %w", err)
	}
	return nil
}

func (s *deviceStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
