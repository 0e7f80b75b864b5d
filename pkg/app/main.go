package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/mongodb"
)

// Application holds shared infrastructure dependencies for all services.
// Only the connections the configuration asks for are opened; the rest stay nil.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Logger   logger.Logger
	Mongo    *mongodb.Client    // STORAGE_BACKEND=mongo
	Db       *database.Database // STORAGE_BACKEND=postgres
	Redis    *cache.RedisClient // REDIS_URL set
	EventBus *events.EventBus   // EVENTS_DATABASE_URL set
}

// Open connects every backend cfg enables. On failure, connections opened
// so far are closed before returning.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	a := &Application{Config: cfg, Logger: log}

	if err := a.open(ctx); err != nil {
		_ = a.Close(context.WithoutCancel(ctx))
		return nil, err
	}
	return a, nil
}

func (a *Application) open(ctx context.Context) error {
	cfg := a.Config

	switch cfg.StorageBackend {
	case config.StorageMongo:
		mc, err := mongodb.NewClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.Mongo = mc
		a.Logger.Info("mongo connected", "database", cfg.MongoDatabase)
	case config.StoragePostgres:
		db, err := database.NewPool(ctx, cfg.DatabaseURL, a.Logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.Db = db
		a.Logger.Info("database pool connected")
	case config.StorageMemory:
		a.Logger.Warn("using in-memory item storage; data is lost on restart")
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.CacheEnabled() {
		rc, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.Redis = rc
		a.Logger.Info("redis connected")
	}

	if cfg.EventsEnabled() {
		bus, err := events.NewEventBus(ctx, cfg.EventsDatabaseURL, cfg.ServiceName, a.Logger)
		if err != nil {
			return fmt.Errorf("setup event bus: %w", err)
		}
		a.EventBus = bus
		a.Logger.Info("event bus connected")
	}

	return nil
}

// Close releases every open connection. The event bus goes first so
// in-flight handlers can still reach Redis.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Db != nil {
		a.Db.Close()
	}
	if a.Mongo != nil {
		errs = append(errs, a.Mongo.Close(ctx))
	}
	return errors.Join(errs...)
}
