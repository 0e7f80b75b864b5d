package caching

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/domain/repositories/repositorytest"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/memory"
)

// fakeStore is an in-process Store. failing makes every call return err.
// Delete leaves a marker that makes later Sets for the id no-ops.
type fakeStore struct {
	mu          sync.Mutex
	items       map[uuid.UUID]cache.CachedItem
	invalidated map[uuid.UUID]bool
	failing     error
	gets        int
	hits        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:       make(map[uuid.UUID]cache.CachedItem),
		invalidated: make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*cache.CachedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failing != nil {
		return nil, f.failing
	}
	c, ok := f.items[id]
	if !ok {
		return nil, redis.Nil
	}
	f.hits++
	return &c, nil
}

func (f *fakeStore) Set(_ context.Context, item *cache.CachedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	if f.invalidated[item.ID] {
		return nil
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	delete(f.items, id)
	f.invalidated[id] = true
	return nil
}

func (f *fakeStore) has(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok
}

func testLogger() logger.Logger {
	return logger.NewWithWriter(&bytes.Buffer{}, "error")
}

func TestItemRepository_Contract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repositories.ItemRepository {
		return NewItemRepository(memory.NewItemRepository(), newFakeStore(), testLogger())
	})
}

func TestItemRepository_Contract_CacheDown(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repositories.ItemRepository {
		store := newFakeStore()
		store.failing = errors.New("dial tcp: connection refused")
		return NewItemRepository(memory.NewItemRepository(), store, testLogger())
	})
}

func TestItemRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewItemRepository()
	store := newFakeStore()
	repo := NewItemRepository(backend, store, testLogger())

	item := models.NewItem("Potion", "Heals", 9.99)
	if err := backend.Create(ctx, item); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, found, err := repo.GetByID(ctx, item.ID); err != nil || !found {
		t.Fatalf("first GetByID: found=%v err=%v", found, err)
	}
	if !store.has(item.ID) {
		t.Fatal("expected item to be cached after a miss")
	}

	got, found, err := repo.GetByID(ctx, item.ID)
	if err != nil || !found {
		t.Fatalf("second GetByID: found=%v err=%v", found, err)
	}
	if store.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", store.hits)
	}
	repositorytest.AssertItemEqual(t, got, item)
}

func TestItemRepository_AbsentNotCached(t *testing.T) {
	store := newFakeStore()
	repo := NewItemRepository(memory.NewItemRepository(), store, testLogger())

	id := uuid.New()
	if _, found, err := repo.GetByID(context.Background(), id); err != nil || found {
		t.Fatalf("expected absent, got found=%v err=%v", found, err)
	}
	if store.has(id) {
		t.Fatal("absent item must not be cached")
	}
}

func TestItemRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewItemRepository(memory.NewItemRepository(), store, testLogger())

	item := models.NewItem("Potion", "Heals", 9.99)
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !store.has(item.ID) {
		t.Fatal("Create should populate the cache")
	}

	updated := item.Clone()
	updated.Name = "Hi-Potion"
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.has(item.ID) {
		t.Fatal("Update should invalidate the cache entry")
	}

	got, _, _ := repo.GetByID(ctx, item.ID)
	if got.Name != "Hi-Potion" {
		t.Fatalf("stale read after update: %q", got.Name)
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.has(item.ID) {
		t.Fatal("Delete should invalidate the cache entry")
	}
}

// interleavedRepo runs onRead once, after the backend read and before the
// decorator gets the result back.
type interleavedRepo struct {
	repositories.ItemRepository
	onRead func()
}

func (r *interleavedRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	item, found, err := r.ItemRepository.GetByID(ctx, id)
	if r.onRead != nil {
		f := r.onRead
		r.onRead = nil
		f()
	}
	return item, found, err
}

func TestItemRepository_ReadRacingWriteNotCached(t *testing.T) {
	ctx := context.Background()
	backend := &interleavedRepo{ItemRepository: memory.NewItemRepository()}
	store := newFakeStore()
	repo := NewItemRepository(backend, store, testLogger())

	item := models.NewItem("Potion", "Heals", 9.99)
	if err := backend.Create(ctx, item); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("update", func(t *testing.T) {
		backend.onRead = func() {
			updated := item.Clone()
			updated.Name = "Hi-Potion"
			updated.Price = 24.5
			if err := repo.Update(ctx, updated); err != nil {
				t.Errorf("Update: %v", err)
			}
		}
		if got, _, _ := repo.GetByID(ctx, item.ID); got.Name != "Potion" {
			t.Fatalf("racing read should see the pre-update record, got %q", got.Name)
		}
		got, found, err := repo.GetByID(ctx, item.ID)
		if err != nil || !found || got.Name != "Hi-Potion" || got.Price != 24.5 {
			t.Fatalf("stale record served after update: %+v found=%v err=%v", got, found, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		backend.onRead = func() {
			if err := repo.Delete(ctx, item.ID); err != nil {
				t.Errorf("Delete: %v", err)
			}
		}
		if _, found, _ := repo.GetByID(ctx, item.ID); !found {
			t.Fatal("racing read should see the pre-delete record")
		}
		if store.has(item.ID) {
			t.Fatal("deleted item was written back to the cache")
		}
		if _, found, err := repo.GetByID(ctx, item.ID); err != nil || found {
			t.Fatalf("expected absent after delete, got found=%v err=%v", found, err)
		}
	})
}
