// Package dto holds the wire representations of an Item and the mapping
// between them and the domain model.
package dto

import (
	"fmt"
	"time"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	domainsvcs "github.com/ghuser/catalog/services/item/domain/services"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name        string   `json:"name"        validate:"required,max=255" example:"Potion"`
	Description string   `json:"description" validate:"max=1024"         example:"Heals 10 HP"`
	Price       *float64 `json:"price"       validate:"required,gte=0"   example:"9.99"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PUT /items/{id}.
// Only name and price can change.
type UpdateItemRequest struct {
	Name  string   `json:"name"  validate:"required,max=255" example:"Hi-Potion"`
	Price *float64 `json:"price" validate:"required,gte=0"   example:"24.5"`
} // @name UpdateItemRequest

// ItemResponse is the read representation of an Item.
type ItemResponse struct {
	ID          string  `json:"id"          example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Name        string  `json:"name"        example:"Potion"`
	Description string  `json:"description" example:"Heals 10 HP"`
	Price       float64 `json:"price"       example:"9.99"`
	CreatedDate string  `json:"createdDate" example:"2024-01-15T10:30:00.123456Z"`
} // @name ItemResponse

// FromItem maps a domain Item to its read representation.
func FromItem(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
		CreatedDate: item.CreatedDate.UTC().Format(time.RFC3339Nano),
	}
}

// FromItems maps a slice, never returning nil so an empty list encodes as [].
func FromItems(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// ToItem builds a new Item with a fresh ID and the current UTC time.
// Fields are copied verbatim. Domain rule violations wrap ErrInvalidItem.
func (r CreateItemRequest) ToItem() (*models.Item, error) {
	name, err := models.NewItemName(r.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	item := models.NewItem(name, r.Description, priceOf(r.Price))
	if err := domainsvcs.ValidateItem(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	return item, nil
}

// Validate applies the domain rules for name and price without touching
// storage. Violations wrap ErrInvalidItem.
func (r UpdateItemRequest) Validate() error {
	name, err := models.NewItemName(r.Name)
	if err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	if err := domainsvcs.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	if err := domainsvcs.ValidatePrice(priceOf(r.Price)); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	return nil
}

// ApplyTo returns a copy of existing with name and price overwritten.
// ID, description and creation date are preserved.
func (r UpdateItemRequest) ApplyTo(existing *models.Item) (*models.Item, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	updated := existing.Clone()
	updated.Name = models.ItemName(r.Name)
	updated.Price = priceOf(r.Price)
	return updated, nil
}

func priceOf(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
