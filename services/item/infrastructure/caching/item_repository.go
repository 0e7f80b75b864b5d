// Package caching decorates an ItemRepository with a Redis read-through
// cache. Cache failures are logged and never fail a request.
package caching

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

// Store is the subset of *cache.ItemCache the decorator uses. Delete must
// make Set a no-op for that id for a while, so a read that loaded the
// record before an invalidation cannot write it back afterwards.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*cache.CachedItem, error)
	Set(ctx context.Context, item *cache.CachedItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository serves GetByID from the cache when possible and keeps the
// cache coherent on writes. GetAll always goes to the backing repository.
type ItemRepository struct {
	next  repositories.ItemRepository
	cache Store
	log   logger.Logger
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository wraps next with the given cache.
func NewItemRepository(next repositories.ItemRepository, store Store, log logger.Logger) *ItemRepository {
	return &ItemRepository{next: next, cache: store, log: log}
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	return r.next.GetAll(ctx)
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	cached, err := r.cache.Get(ctx, id)
	switch {
	case err == nil:
		return fromCached(cached), true, nil
	case !cache.IsMiss(err):
		r.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
	}

	item, found, err := r.next.GetByID(ctx, id)
	if err != nil || !found {
		return item, found, err
	}
	r.store(ctx, item)
	return item, true, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.store(ctx, item)
	return nil
}

// Update invalidates rather than writes the entry: the caller's item carries
// a creation date the backend ignores.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ItemRepository) store(ctx context.Context, item *models.Item) {
	if err := r.cache.Set(ctx, toCached(item)); err != nil {
		r.log.WarnContext(ctx, "item cache write failed", "item_id", item.ID, "error", err)
	}
}

func (r *ItemRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
	}
}

func toCached(item *models.Item) *cache.CachedItem {
	return &cache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
		CreatedDate: item.CreatedDate,
	}
}

func fromCached(c *cache.CachedItem) *models.Item {
	return &models.Item{
		ID:          c.ID,
		Name:        models.ItemName(c.Name),
		Description: c.Description,
		Price:       c.Price,
		CreatedDate: c.CreatedDate,
	}
}
