package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/stagebeat/workshop-notifier/internal/metrics"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

// Policy decides send/skip for a dispatch candidate using the history
// ledger. Reminders are exempt from the artist cooldown: they are
// time-critical and scoped per workshop, while the cooldown exists to stop
// repeated artist-level churn from pestering users.
type Policy struct {
	history  store.HistoryStorage
	cooldown time.Duration
}

func New(history store.HistoryStorage, cooldownDays int) *Policy {
	return &Policy{
		history:  history,
		cooldown: time.Duration(cooldownDays) * 24 * time.Hour,
	}
}

// ShouldSend applies the dispatch decision table to a candidate.
func (p *Policy) ShouldSend(ctx context.Context, d model.Dispatch) (bool, error) {
	sent, err := p.history.Exists(ctx, d.UserID, d.WorkshopID, d.Type)
	if err != nil {
		return false, fmt.Errorf("policy history check: %w", err)
	}
	if sent {
		metrics.DispatchDecisions.WithLabelValues(d.Type, "skip").Inc()
		return false, nil
	}

	if d.Type != model.TypeReminder24h {
		recent, err := p.history.ExistsRecent(ctx, d.UserID, d.ArtistID, p.cooldown)
		if err != nil {
			return false, fmt.Errorf("policy cooldown check: %w", err)
		}
		if recent {
			metrics.DispatchDecisions.WithLabelValues(d.Type, "skip").Inc()
			return false, nil
		}
	}

	metrics.DispatchDecisions.WithLabelValues(d.Type, "send").Inc()
	return true, nil
}
