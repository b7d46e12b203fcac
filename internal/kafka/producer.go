package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/pkg/tracing"
)

// OutcomeProducer publishes one audit event per delivery attempt.
type OutcomeProducer interface {
	Start(ctx context.Context)
	Publish(ctx context.Context, outcome model.DeliveryOutcome) error
	Close(ctx context.Context)
}

type producer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            *sync.WaitGroup
	closeOnce     sync.Once
	tracer        *tracing.Tracer
}

// NewOutcomeProducer uses DI to inject AsyncProducer, topic, logger and WaitGroup.
func NewOutcomeProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger, wg *sync.WaitGroup) OutcomeProducer {
	if asyncProducer == nil || log == nil || wg == nil {
		panic("NewOutcomeProducer: nil dependencies provided")
	}
	if topic == "" {
		panic("NewOutcomeProducer: topic must not be empty")
	}
	return &producer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log,
		wg:            wg,
		tracer:        tracing.NewTracer(tracing.GetTracer("outcome-producer")),
	}
}

// Start launches background handlers for success and error channels
func (p *producer) Start(ctx context.Context) {
	p.log.Info("Starting outcome producer handlers")
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *producer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				p.log.Info("Outcome successes channel closed")
				return
			}
			key, _ := msg.Key.Encode()
			p.log.Debug("Outcome event delivered",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			p.log.Info("Outcome success handler stopped by context")
			return
		}
	}
}

func (p *producer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case err, ok := <-p.asyncProducer.Errors():
			if !ok {
				p.log.Info("Outcome errors channel closed")
				return
			}
			p.log.Error("Outcome event delivery failed",
				slog.String("topic", err.Msg.Topic),
				slog.Any("error", err.Err))
		case <-ctx.Done():
			p.log.Info("Outcome error handler stopped by context")
			return
		}
	}
}

// Publish queues one outcome event, keyed by user so a user's attempts stay
// ordered within a partition.
func (p *producer) Publish(ctx context.Context, outcome model.DeliveryOutcome) error {
	ctx, span := p.tracer.StartClientSpan(ctx, "OutcomePublish")
	defer span.End()

	data, err := json.Marshal(outcome)
	if err != nil {
		p.tracer.RecordError(span, err)
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(outcome.UserID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers:   tracing.InjectTraceContext(ctx, nil),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		span.SetAttributes(
			attribute.String("kafka.topic", p.topic),
			attribute.String("notification.type", outcome.Type),
			attribute.String("notification.status", outcome.Status),
		)
		return nil
	case <-ctx.Done():
		p.log.Warn("Outcome publish cancelled by context",
			slog.String("user_id", outcome.UserID))
		return ctx.Err()
	}
}

// Close shuts down the producer and waits for workers
func (p *producer) Close(_ context.Context) {
	p.closeOnce.Do(func() {
		p.log.Info("Closing outcome producer...")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
		p.log.Info("Outcome producer closed")
	})
}
