package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/stagebeat/workshop-notifier/internal/apns"
	"github.com/stagebeat/workshop-notifier/internal/config"
	"github.com/stagebeat/workshop-notifier/internal/delivery"
	"github.com/stagebeat/workshop-notifier/internal/handler"
	"github.com/stagebeat/workshop-notifier/internal/kafka"
	"github.com/stagebeat/workshop-notifier/internal/logger"
	"github.com/stagebeat/workshop-notifier/internal/metrics"
	"github.com/stagebeat/workshop-notifier/internal/pipeline"
	"github.com/stagebeat/workshop-notifier/internal/policy"
	"github.com/stagebeat/workshop-notifier/internal/reminder"
	"github.com/stagebeat/workshop-notifier/internal/router"
	"github.com/stagebeat/workshop-notifier/internal/service"
	"github.com/stagebeat/workshop-notifier/internal/significance"
	"github.com/stagebeat/workshop-notifier/internal/store"
	"github.com/stagebeat/workshop-notifier/internal/watch"
	"github.com/stagebeat/workshop-notifier/internal/workshops"
	"github.com/stagebeat/workshop-notifier/pkg/observability"
)

const serviceName = "workshop-notifier"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	l := logger.NewLogger()
	slog.SetDefault(l)

	metrics.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- OpenTelemetry Tracing Setup (optional) ----
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		_, tracerShutdown, err := observability.NewTracerProvider(ctx, serviceName, endpoint, l)
		if err != nil {
			l.Error("Failed to initialize OpenTelemetry TracerProvider", slog.Any("error", err))
			os.Exit(1)
		}
		defer tracerShutdown()
	}

	// ---- Backing stores ----
	db, err := store.ConnectPostgres(cfg.DB)
	if err != nil {
		l.Error("Failed to connect to postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	mongoClient, err := workshops.Connect(ctx, cfg.Mongo)
	if err != nil {
		l.Error("Failed to connect to document store", slog.Any("error", err))
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	historyStore := store.NewHistoryStorage(db)
	deviceStore := store.NewDeviceStorage(db)
	subscriptionStore := store.NewSubscriptionStorage(db)
	workshopStore := workshops.NewStore(mongoClient, cfg.Mongo)

	// ---- Push provider ----
	// A missing or unreadable signing key is an unrecoverable precondition.
	signingKey, err := apns.LoadSigningKey(cfg.APNs.KeyFile)
	if err != nil {
		l.Error("Failed to load APNs signing key", slog.Any("error", err))
		os.Exit(1)
	}
	tokenSource := apns.NewTokenSource(signingKey, cfg.APNs.KeyID, cfg.APNs.TeamID)
	pusher := apns.NewClient(cfg.APNs, tokenSource, l)

	// ---- Optional delivery-outcome events ----
	var wg sync.WaitGroup
	var producerWG sync.WaitGroup
	var outcomes delivery.OutcomePublisher
	var outcomeProducer kafka.OutcomeProducer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		saramaCfg := sarama.NewConfig()
		saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
		saramaCfg.Producer.Retry.Max = 5
		saramaCfg.Producer.Return.Successes = true
		saramaCfg.ClientID = serviceName

		asyncProducer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, saramaCfg)
		if err != nil {
			l.Error("Failed to create sarama producer", slog.Any("error", err))
			os.Exit(1)
		}
		outcomeProducer = kafka.NewOutcomeProducer(asyncProducer, cfg.Kafka.Topic, l, &producerWG)
		outcomeProducer.Start(ctx)
		outcomes = outcomeProducer
	}

	// ---- Pipeline wiring ----
	engine := delivery.NewEngine(deviceStore, historyStore, pusher, outcomes, l)
	dispatchPolicy := policy.New(historyStore, cfg.Pipeline.CooldownDays)
	evaluator := significance.NewEvaluator(historyStore)
	pipe := pipeline.New(evaluator, subscriptionStore, dispatchPolicy, engine, cfg.Pipeline.WorkerLimit, l)

	events := make(chan watch.Event, cfg.Pipeline.EventBuffer)
	watcher := watch.NewWatcher(func(ctx context.Context) (watch.ChangeStream, error) {
		return workshopStore.Watch(ctx)
	}, events, l)

	loc, err := time.LoadLocation(cfg.Pipeline.Timezone)
	if err != nil {
		l.Error("Invalid timezone", slog.String("timezone", cfg.Pipeline.Timezone), slog.Any("error", err))
		os.Exit(1)
	}
	scheduler := reminder.NewScheduler(
		workshopStore, pipe,
		cfg.Pipeline.SweepInterval,
		cfg.Pipeline.ReminderMinHours, cfg.Pipeline.ReminderMaxHours,
		loc, l,
	)

	// ---- HTTP surface ----
	deviceSvc := service.NewDeviceService(deviceStore, l)
	healthSvc := service.NewHealthService(historyStore, workshopStore)
	r := router.NewRouter(handler.NewDeviceHandler(deviceSvc, l), handler.NewHealthHandler(healthSvc))
	hServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	// ---- Workers ----
	// A feed subscription failure is fatal: restart is a supervision
	// concern, not in-process self-healing.
	watcherErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			watcherErr <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pipe.Run(ctx, events)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Info("Starting HTTP server", slog.String("addr", hServer.Addr))
		if err := hServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("HTTP server failed", slog.Any("error", err))
		}
	}()

	// Wait for a termination signal or a fatal watcher error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		l.Info("Shutdown signal received", slog.String("signal", sig.String()))
	case err := <-watcherErr:
		l.Error("Change feed watcher failed, shutting down", slog.Any("error", err))
		exitCode = 1
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	hServer.Shutdown(shutdownCtx)

	if outcomeProducer != nil {
		outcomeProducer.Close(context.Background())
	}

	// Let in-flight deliveries finish so the ledger is never ambiguous.
	wg.Wait()
	l.Info("Service shut down gracefully")
	os.Exit(exitCode)
}
