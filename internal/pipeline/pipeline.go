package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stagebeat/workshop-notifier/internal/delivery"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/policy"
	"github.com/stagebeat/workshop-notifier/internal/significance"
	"github.com/stagebeat/workshop-notifier/internal/store"
	"github.com/stagebeat/workshop-notifier/internal/watch"
)

// Pipeline consumes change-feed events from the watcher's queue and drives
// significance evaluation, subscriber resolution, policy checks and
// delivery fan-out. Keeping this on the consumer side of a bounded channel
// stops slow deliveries from stalling feed consumption past the store's
// retention window.
type Pipeline struct {
	evaluator   *significance.Evaluator
	subs        store.SubscriptionStorage
	policy      *policy.Policy
	engine      delivery.Engine
	workerLimit int
	log         *slog.Logger
}

func New(
	evaluator *significance.Evaluator,
	subs store.SubscriptionStorage,
	pol *policy.Policy,
	engine delivery.Engine,
	workerLimit int,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		evaluator:   evaluator,
		subs:        subs,
		policy:      pol,
		engine:      engine,
		workerLimit: workerLimit,
		log:         log,
	}
}

// Run drains the event queue until the context is cancelled. In-flight
// fan-outs complete before it returns, so shutdown never leaves the ledger
// half-written.
func (p *Pipeline) Run(ctx context.Context, events <-chan watch.Event) {
	p.log.Info("Pipeline started", slog.Int("worker_limit", p.workerLimit))
	for {
		select {
		case <-ctx.Done():
			p.log.Info("Pipeline shutting down")
			return
		case ev, ok := <-events:
			if !ok {
				p.log.Info("Event queue closed")
				return
			}
			p.HandleEvent(ctx, ev)
		}
	}
}

// HandleEvent processes one change-feed event end to end. Errors degrade
// to skipped notifications, never to a stalled feed.
func (p *Pipeline) HandleEvent(ctx context.Context, ev watch.Event) {
	w := ev.Workshop
	artists := w.ValidArtistIDs()
	if len(artists) == 0 {
		p.log.Info("Workshop has no assigned artists, skipping",
			slog.String("workshop_id", w.UUID),
			slog.String("operation", ev.Operation))
		return
	}

	var notifType string
	switch ev.Operation {
	case "insert":
		notifType = model.TypeNewWorkshop
	case "update", "replace":
		t, err := p.evaluator.Classify(ctx, &w)
		if err != nil {
			p.log.Error("Significance check failed",
				slog.String("workshop_id", w.UUID), slog.Any("error", err))
			return
		}
		if t == "" {
			p.log.Debug("Workshop change not significant",
				slog.String("workshop_id", w.UUID))
			return
		}
		notifType = t
	default:
		p.log.Warn("Unexpected operation on feed",
			slog.String("operation", ev.Operation))
		return
	}

	p.FanOut(ctx, &w, artists, notifType)
}

// FanOut resolves subscribers for each artist and delivers to every
// approved candidate on a bounded worker pool. Recipients have no ordering
// guarantee between each other.
func (p *Pipeline) FanOut(ctx context.Context, w *model.Workshop, artists []string, notifType string) {
	eg, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, p.workerLimit)

	for _, artistID := range artists {
		users, err := p.subs.Notifiers(ctx, artistID)
		if err != nil {
			p.log.Error("Subscriber lookup failed",
				slog.String("artist_id", artistID), slog.Any("error", err))
			continue
		}
		for _, userID := range users {
			d := model.Dispatch{
				UserID:     userID,
				ArtistID:   artistID,
				WorkshopID: w.UUID,
				Type:       notifType,
			}

			ok, err := p.policy.ShouldSend(ctx, d)
			if err != nil {
				p.log.Error("Dispatch policy check failed",
					slog.String("user_id", userID), slog.Any("error", err))
				continue
			}
			if !ok {
				continue
			}

			sem <- struct{}{}
			eg.Go(func() error {
				defer func() { <-sem }()
				if err := p.engine.Deliver(ctx, d, w); err != nil {
					p.log.Error("Delivery failed",
						slog.String("user_id", d.UserID),
						slog.String("workshop_id", d.WorkshopID),
						slog.Any("error", err))
				}
				return nil
			})
		}
	}
	eg.Wait()
}
