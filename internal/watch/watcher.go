package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stagebeat/workshop-notifier/internal/metrics"
	"github.com/stagebeat/workshop-notifier/internal/model"
)

// Event is one workshop mutation read off the change feed.
type Event struct {
	Operation string
	Workshop  model.Workshop
}

// ChangeStream is the slice of the document store's change stream the
// watcher consumes. *mongo.ChangeStream satisfies it.
type ChangeStream interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// OpenFunc opens the change feed subscription.
type OpenFunc func(ctx context.Context) (ChangeStream, error)

// Watcher consumes the workshop change feed and hands events to a bounded
// queue. It does no processing itself; a slow consumer must never stall
// feed consumption past the store's retention window, so processing runs
// on the other side of the channel.
type Watcher struct {
	open   OpenFunc
	events chan<- Event
	log    *slog.Logger
}

func NewWatcher(open OpenFunc, events chan<- Event, log *slog.Logger) *Watcher {
	return &Watcher{open: open, events: events, log: log}
}

// Run blocks on the change feed until the context is cancelled or the
// subscription fails. A feed failure is fatal: the watcher does not
// self-heal, restart is a supervision concern.
func (w *Watcher) Run(ctx context.Context) error {
	stream, err := w.open(ctx)
	if err != nil {
		return fmt.Errorf("change feed subscription failed: %w", err)
	}
	defer stream.Close(context.Background())

	w.log.Info("Change feed watcher started")

	for stream.Next(ctx) {
		var evt struct {
			OperationType string         `bson:"operationType"`
			FullDocument  model.Workshop `bson:"fullDocument"`
		}
		if err := stream.Decode(&evt); err != nil {
			w.log.Error("Failed to decode change event", slog.Any("error", err))
			continue
		}

		metrics.FeedEvents.WithLabelValues(evt.OperationType).Inc()

		if evt.FullDocument.UUID == "" {
			w.log.Warn("Change event missing workshop uuid, skipping",
				slog.String("operation", evt.OperationType))
			continue
		}

		select {
		case w.events <- Event{Operation: evt.OperationType, Workshop: evt.FullDocument}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if ctx.Err() != nil {
		w.log.Info("Change feed watcher stopped by context")
		return ctx.Err()
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("change feed subscription lost: %w", err)
	}
	return fmt.Errorf("change feed closed unexpectedly")
}
