package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/stagebeat/workshop-notifier/internal/apns"
	"github.com/stagebeat/workshop-notifier/internal/metrics"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
	"github.com/stagebeat/workshop-notifier/pkg/tracing"
)

// Pusher transmits one payload to one device token.
type Pusher interface {
	Push(ctx context.Context, deviceToken string, body []byte) error
}

// OutcomePublisher receives one audit event per delivery attempt.
type OutcomePublisher interface {
	Publish(ctx context.Context, outcome model.DeliveryOutcome) error
}

// Engine turns an approved dispatch into a transmitted push notification
// and records the outcome.
type Engine interface {
	Deliver(ctx context.Context, d model.Dispatch, w *model.Workshop) error
}

type engine struct {
	devices  store.DeviceStorage
	history  store.HistoryStorage
	pusher   Pusher
	outcomes OutcomePublisher // nil when outcome events are disabled
	log      *slog.Logger
	tracer   *tracing.Tracer
}

// NewEngine creates a delivery engine instance. outcomes may be nil.
func NewEngine(
	devices store.DeviceStorage,
	history store.HistoryStorage,
	pusher Pusher,
	outcomes OutcomePublisher,
	log *slog.Logger,
) Engine {
	return &engine{
		devices:  devices,
		history:  history,
		pusher:   pusher,
		outcomes: outcomes,
		log:      log,
		tracer:   tracing.NewTracer(tracing.GetTracer("delivery-engine")),
	}
}

// Deliver resolves the user's active tokens and pushes to each iOS token.
// A user with no active tokens is a normal no-op. Delivery failures never
// propagate: the token is deactivated, no history is written, and a later
// cycle can retry naturally if the token comes back.
func (e *engine) Deliver(ctx context.Context, d model.Dispatch, w *model.Workshop) error {
	ctx, span := e.tracer.StartClientSpan(ctx, "Deliver",
		attribute.String(tracing.AttrNotificationType, d.Type),
		attribute.String(tracing.AttrWorkshopID, d.WorkshopID),
		attribute.String(tracing.AttrArtistID, d.ArtistID),
	)
	defer span.End()

	tokens, err := e.devices.ActiveTokens(ctx, d.UserID)
	if err != nil {
		e.tracer.RecordError(span, err)
		return fmt.Errorf("token lookup: %w", err)
	}
	if len(tokens) == 0 {
		e.log.Debug("No active tokens for user, skipping",
			slog.String("user_id", d.UserID), slog.String("type", d.Type))
		return nil
	}

	title, body := apns.TemplateFor(d.Type)
	payload, err := apns.BuildPayload(d, title, body)
	if err != nil {
		e.tracer.RecordError(span, err)
		return fmt.Errorf("payload build: %w", err)
	}

	var androidCount int
	for _, tok := range tokens {
		switch tok.Platform {
		case model.PlatformIOS:
			e.pushIOS(ctx, d, w, tok, payload, title, body)
		case model.PlatformAndroid:
			// No FCM transport; counted so the gap stays visible in logs.
			androidCount++
			metrics.Deliveries.WithLabelValues(model.PlatformAndroid, "unsupported").Inc()
		default:
			e.log.Warn("Unknown platform on token",
				slog.String("platform", tok.Platform), slog.String("user_id", d.UserID))
		}
	}
	if androidCount > 0 {
		e.log.Info("Android delivery not implemented, tokens skipped",
			slog.Int("count", androidCount), slog.String("user_id", d.UserID))
	}
	return nil
}

// pushIOS transmits to a single token. Any failure, transient or not, is
// treated as token invalidity: deactivate and leave no history record.
func (e *engine) pushIOS(ctx context.Context, d model.Dispatch, w *model.Workshop, tok model.DeviceToken, payload []byte, title, body string) {
	if err := e.pusher.Push(ctx, tok.Token, payload); err != nil {
		e.log.Warn("Push failed, deactivating token",
			slog.String("user_id", d.UserID),
			slog.String("type", d.Type),
			slog.Any("error", err))
		metrics.Deliveries.WithLabelValues(model.PlatformIOS, model.OutcomeFailed).Inc()

		if derr := e.devices.Deactivate(ctx, tok.Token); derr != nil {
			e.log.Error("Token deactivation failed", slog.Any("error", derr))
		} else {
			metrics.TokenDeactivations.Inc()
		}
		e.publishOutcome(ctx, d, model.OutcomeFailed)
		return
	}

	metrics.Deliveries.WithLabelValues(model.PlatformIOS, model.OutcomeSent).Inc()

	rec := &model.HistoryRecord{
		UserID:     d.UserID,
		WorkshopID: d.WorkshopID,
		ArtistID:   d.ArtistID,
		Type:       d.Type,
		Title:      title,
		Body:       body,
		SentAt:     time.Now(),
	}
	if w != nil {
		rec.TimeEntries = w.TimeEntries
		rec.PricingInfo = w.PricingInfo
		rec.SoldOut = w.SoldOut
	}
	if err := e.history.Insert(ctx, rec); err != nil {
		// The push went out but the ledger missed it; a duplicate send is
		// possible on a later cycle. Logged loudly, not fatal.
		e.log.Error("History write failed after successful push",
			slog.String("user_id", d.UserID),
			slog.String("workshop_id", d.WorkshopID),
			slog.Any("error", err))
	}
	e.publishOutcome(ctx, d, model.OutcomeSent)
}

func (e *engine) publishOutcome(ctx context.Context, d model.Dispatch, status string) {
	if e.outcomes == nil {
		return
	}
	outcome := model.DeliveryOutcome{
		UserID:     d.UserID,
		ArtistID:   d.ArtistID,
		WorkshopID: d.WorkshopID,
		Type:       d.Type,
		Platform:   model.PlatformIOS,
		Status:     status,
		Timestamp:  time.Now(),
	}
	if err := e.outcomes.Publish(ctx, outcome); err != nil {
		e.log.Warn("Outcome publish failed", slog.Any("error", err))
	}
}
