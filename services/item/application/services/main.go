package services

import (
	"context"
	"fmt"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/infrastructure/caching"
	"github.com/ghuser/catalog/services/item/infrastructure/messaging"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/memory"
	mongorepo "github.com/ghuser/catalog/services/item/infrastructure/persistence/mongo"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/postgres"
)

// Pinger reports whether a storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
	// Storage is the active backend, for the readiness probe.
	Storage Pinger
}

// New selects the item backend from a.Config and wraps it with the cache
// and event decorators the Application has connections for.
func New(a *app.Application) (*Services, error) {
	repo, storage, err := newBackend(a)
	if err != nil {
		return nil, err
	}

	if a.Redis != nil {
		repo = caching.NewItemRepository(repo, cache.NewItemCache(a.Redis), a.Logger)
	}
	if a.EventBus != nil {
		repo = messaging.NewItemRepository(repo, a.EventBus, a.Logger)
	}

	return &Services{
		Item:    NewItemService(repo, a.Logger),
		Storage: storage,
	}, nil
}

func newBackend(a *app.Application) (repositories.ItemRepository, Pinger, error) {
	cfg := a.Config
	switch cfg.StorageBackend {
	case config.StorageMemory:
		repo := memory.NewItemRepository()
		return repo, repo, nil
	case config.StorageMongo:
		if a.Mongo == nil {
			return nil, nil, fmt.Errorf("storage backend %q: mongo client not connected", cfg.StorageBackend)
		}
		return mongorepo.NewItemRepository(a.Mongo.Collection(cfg.MongoCollection), cfg.StorageTimeout), a.Mongo, nil
	case config.StoragePostgres:
		if a.Db == nil {
			return nil, nil, fmt.Errorf("storage backend %q: database pool not connected", cfg.StorageBackend)
		}
		return postgres.NewItemRepository(a.Db.Pool(), cfg.StorageTimeout), a.Db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
