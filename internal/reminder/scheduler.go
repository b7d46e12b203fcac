package reminder

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/stagebeat/workshop-notifier/internal/metrics"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/pipeline"
)

// WorkshopSource lists the workshops a sweep considers.
type WorkshopSource interface {
	Upcoming(ctx context.Context) ([]model.Workshop, error)
}

// Scheduler periodically sweeps upcoming workshops and dispatches 24 hour
// reminders through the same policy and delivery path as the change feed.
// Every eligible (workshop, artist, subscriber) triple is visited each
// cycle; nothing short-circuits after the first send.
type Scheduler struct {
	workshops WorkshopSource
	fanout    *pipeline.Pipeline
	interval  time.Duration
	minAhead  time.Duration
	maxAhead  time.Duration
	loc       *time.Location
	log       *slog.Logger
	sweeping  atomic.Bool
	now       func() time.Time
}

func NewScheduler(
	workshops WorkshopSource,
	fanout *pipeline.Pipeline,
	interval time.Duration,
	minHours, maxHours int,
	loc *time.Location,
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		workshops: workshops,
		fanout:    fanout,
		interval:  interval,
		minAhead:  time.Duration(minHours) * time.Hour,
		maxAhead:  time.Duration(maxHours) * time.Hour,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled. If a sweep
// overruns the interval the overlapping tick is skipped, not queued.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Reminder scheduler started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			if !s.sweeping.CompareAndSwap(false, true) {
				s.log.Warn("Previous sweep still running, skipping cycle")
				continue
			}
			s.Sweep(ctx)
			s.sweeping.Store(false)
		}
	}
}

// Sweep scans all upcoming workshops once and dispatches reminders for
// those inside the window.
func (s *Scheduler) Sweep(ctx context.Context) {
	start := s.now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	all, err := s.workshops.Upcoming(ctx)
	if err != nil {
		s.log.Error("Workshop scan failed", slog.Any("error", err))
		return
	}

	var eligible int
	for _, w := range all {
		if w.EventType == model.EventTypeRegulars {
			continue
		}
		if !s.Eligible(&w, start) {
			continue
		}
		artists := w.ValidArtistIDs()
		if len(artists) == 0 {
			continue
		}
		eligible++
		s.fanout.FanOut(ctx, &w, artists, model.TypeReminder24h)
	}

	s.log.Info("Reminder sweep complete",
		slog.Int("scanned", len(all)),
		slog.Int("eligible", eligible),
		slog.Duration("duration", time.Since(start)))
}

// Eligible reports whether any of the workshop's occurrences falls inside
// the reminder window, inclusive on both bounds.
func (s *Scheduler) Eligible(w *model.Workshop, now time.Time) bool {
	lower := now.Add(s.minAhead)
	upper := now.Add(s.maxAhead)
	for _, entry := range w.TimeEntries {
		t := entryTime(entry, s.loc)
		if !t.Before(lower) && !t.After(upper) {
			return true
		}
	}
	return false
}

// entryTime resolves a time entry to the workshop's local start instant.
// An unparseable start time falls back to midnight.
func entryTime(entry model.TimeEntry, loc *time.Location) time.Time {
	hour, min := 0, 0
	if parsed, err := time.Parse("15:04", entry.StartTime); err == nil {
		hour, min = parsed.Hour(), parsed.Minute()
	}
	return time.Date(entry.Year, time.Month(entry.Month), entry.Day, hour, min, 0, 0, loc)
}
