package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/stagebeat/workshop-notifier/internal/errors"
	"github.com/stagebeat/workshop-notifier/internal/model"
)

type historyStorage struct {
	db *sqlx.DB
}

// NewHistoryStorage creates the Postgres-backed send ledger
func NewHistoryStorage(db *sqlx.DB) HistoryStorage {
	return &historyStorage{db: db}
}

// Exists reports whether a record for exactly (user, workshop, type) is present
func (s *historyStorage) Exists(ctx context.Context, userID, workshopID, notifType string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM notification_history
		WHERE user_id = $1 AND workshop_id = $2 AND type = $3)`
	if err := s.db.GetContext(ctx, &exists, query, userID, workshopID, notifType); err != nil {
		return false, fmt.Errorf("history exists check: %w", err)
	}
	return exists, nil
}

// ExistsRecent reports whether any record for (user, artist) falls within the window
func (s *historyStorage) ExistsRecent(ctx context.Context, userID, artistID string, within time.Duration) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM notification_history
		WHERE user_id = $1 AND artist_id = $2 AND sent_at > $3)`
	cutoff := time.Now().Add(-within)
	if err := s.db.GetContext(ctx, &exists, query, userID, artistID, cutoff); err != nil {
		return false, fmt.Errorf("history recent check: %w", err)
	}
	return exists, nil
}

// MostRecent returns the latest record for the workshop, any type
func (s *historyStorage) MostRecent(ctx context.Context, workshopID string) (*model.HistoryRecord, error) {
	var rec model.HistoryRecord
	query := `SELECT id, user_id, workshop_id, artist_id, type, title, body,
		time_details, pricing_info, is_sold_out, sent_at
		FROM notification_history
		WHERE workshop_id = $1
		ORDER BY sent_at DESC
		LIMIT 1`
	if err := s.db.GetContext(ctx, &rec, query, workshopID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("no history for workshop %s", workshopID)
		}
		return nil, fmt.Errorf("history most recent: %w", err)
	}
	if len(rec.TimeJSON) > 0 {
		if err := json.Unmarshal(rec.TimeJSON, &rec.TimeEntries); err != nil {
			return nil, fmt.Errorf("history snapshot decode: %w", err)
		}
	}
	return &rec, nil
}

// Insert appends a send record. The ledger is append-only; there is no
// update or delete path here.
func (s *historyStorage) Insert(ctx context.Context, rec *model.HistoryRecord) error {
	if rec == nil {
		return fmt.Errorf("history record cannot be nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}
	timeJSON, err := json.Marshal(rec.TimeEntries)
	if err != nil {
		return fmt.Errorf("history snapshot encode: %w", err)
	}
	rec.TimeJSON = timeJSON

	query := `INSERT INTO notification_history
		(id, user_id, workshop_id, artist_id, type, title, body,
		 time_details, pricing_info, is_sold_out, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.WorkshopID, rec.ArtistID, rec.Type,
		rec.Title, rec.Body, rec.TimeJSON, rec.PricingInfo, rec.SoldOut, rec.SentAt)
	if err != nil {
		return fmt.Errorf("history insert: %w", err)
	}
	return nil
}

func (s *historyStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
