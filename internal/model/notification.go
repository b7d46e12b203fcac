package model

import "time"

// Notification types understood by the pipeline.
const (
	TypeNewWorkshop    = "new_workshop"
	TypeScheduleChange = "schedule_change"
	TypePriceDrop      = "price_drop"
	TypeReopened       = "reopened"
	TypeReminder24h    = "reminder_24h"
)

// Dispatch is a candidate notification awaiting a send/skip decision.
type Dispatch struct {
	UserID     string `json:"user_id"`
	ArtistID   string `json:"artist_id"`
	WorkshopID string `json:"workshop_id"`
	Type       string `json:"type"`
}

// HistoryRecord is one row of the append-only idempotency ledger.
// It is written exclusively on confirmed successful delivery and carries
// the workshop snapshot that later significance checks compare against.
type HistoryRecord struct {
	ID         string `db:"id" json:"id"`
	UserID     string `db:"user_id" json:"user_id"`
	WorkshopID string `db:"workshop_id" json:"workshop_id"`
	ArtistID   string `db:"artist_id" json:"artist_id"`
	Type       string `db:"type" json:"type"`
	Title      string `db:"title" json:"title"`
	Body       string `db:"body" json:"body"`

	// Workshop snapshot at send time.
	TimeEntries []TimeEntry `db:"-" json:"time_details"`
	TimeJSON    []byte      `db:"time_details" json:"-"`
	PricingInfo string      `db:"pricing_info" json:"pricing_info"`
	SoldOut     bool        `db:"is_sold_out" json:"is_sold_out"`

	SentAt time.Time `db:"sent_at" json:"sent_at"`
}

// DeliveryOutcome is the audit event published after every delivery attempt.
type DeliveryOutcome struct {
	UserID     string    `json:"user_id"`
	ArtistID   string    `json:"artist_id"`
	WorkshopID string    `json:"workshop_id"`
	Type       string    `json:"type"`
	Platform   string    `json:"platform"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// Delivery outcome statuses.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)
