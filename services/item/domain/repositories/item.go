package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations hand out copies: mutating a returned *models.Item never
// changes stored state. Connectivity failures wrap domain.ErrStorageUnavailable.
type ItemRepository interface {
	// GetAll returns a snapshot of every stored item. An empty slice is a
	// valid result. Order is implementation-defined.
	GetAll(ctx context.Context) ([]*models.Item, error)

	// GetByID returns the item and true, or nil and false when no item has
	// that ID. Absence is never reported as an error.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error)

	// Create inserts a fully populated item. Returns ErrItemAlreadyExists
	// when an item with the same ID is already stored.
	Create(ctx context.Context, item *models.Item) error

	// Update overwrites name, description and price of the stored item with
	// item.ID. The stored creation date is never changed.
	// Returns ErrItemNotFound when no such item exists.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes the item with the given ID.
	// Returns ErrItemNotFound when no such item exists.
	Delete(ctx context.Context, id uuid.UUID) error
}
