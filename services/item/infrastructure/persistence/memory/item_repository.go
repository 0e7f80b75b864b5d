// Package memory provides a process-local ItemRepository for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
)

// ItemRepository implements repositories.ItemRepository in process memory.
// Items live until the process exits. GetAll returns items in insertion order.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Item
	order []uuid.UUID
}

// NewItemRepository returns an empty in-memory ItemRepository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[uuid.UUID]*models.Item)}
}

// GetAll returns copies of all stored items in insertion order.
func (r *ItemRepository) GetAll(_ context.Context) ([]*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Item, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

// GetByID returns a copy of the item, or false when absent.
func (r *ItemRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Item, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, false, nil
	}
	return item.Clone(), true, nil
}

// Create stores a copy of item. Returns ErrItemAlreadyExists on ID collision.
func (r *ItemRepository) Create(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return itemdomain.ErrItemAlreadyExists
	}
	r.items[item.ID] = item.Clone()
	r.order = append(r.order, item.ID)
	return nil
}

// Update overwrites name, description and price of the stored item.
func (r *ItemRepository) Update(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return itemdomain.ErrItemNotFound
	}
	updated := stored.Clone()
	updated.Name = item.Name
	updated.Description = item.Description
	updated.Price = item.Price
	r.items[item.ID] = updated
	return nil
}

// Delete removes the item with the given ID.
func (r *ItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	delete(r.items, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Ping always succeeds; it lets the memory store sit behind the readiness probe.
func (r *ItemRepository) Ping(_ context.Context) error {
	return nil
}
