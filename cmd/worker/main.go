package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/telemetry"
	itemEvents "github.com/ghuser/catalog/services/item/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "worker")
	if err := run(cfg, log); err != nil {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	if !cfg.EventsEnabled() || !cfg.CacheEnabled() {
		return errors.New("worker needs EVENTS_DATABASE_URL and REDIS_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer otelShutdown(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	// The worker never touches item storage.
	workerCfg := *cfg
	workerCfg.StorageBackend = config.StorageMemory

	a, err := app.Open(ctx, &workerCfg, log)
	if err != nil {
		return err
	}
	// EventBus.Close waits up to 30s for in-flight handlers.
	defer a.Close(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := registerSubscribers(ctx, a.EventBus, newCacheSync(cache.NewItemCache(a.Redis), log), log); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}

type subscriber interface {
	Subscribe(ctx context.Context, topic string, handler events.Handler) (<-chan error, error)
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, bus subscriber, s *cacheSync, log logger.Logger) error {
	handlers := map[string]events.Handler{
		itemEvents.TopicItemCreated: s.handleCreated,
		itemEvents.TopicItemUpdated: s.handleUpdated,
		itemEvents.TopicItemDeleted: s.handleDeleted,
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := bus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}
		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	log.Info("event subscribers registered", "topics", topics)
	return nil
}
