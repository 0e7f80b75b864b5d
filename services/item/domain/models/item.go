package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the catalog's only aggregate.
//
// ID and CreatedDate are assigned once by NewItem and never change.
// All fields are values, so a plain struct copy is a deep copy.
type Item struct {
	ID          uuid.UUID
	Name        ItemName
	Description string
	Price       float64
	CreatedDate time.Time
}

// CreatedDatePrecision is the resolution of Item.CreatedDate. Every storage
// backend can represent it exactly, so a stored item reads back unchanged.
const CreatedDatePrecision = time.Microsecond

// NewItem constructs an Item with a generated ID and the current UTC time.
// Name, description and price are stored as given.
func NewItem(name ItemName, description string, price float64) *Item {
	return &Item{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		CreatedDate: time.Now().UTC().Truncate(CreatedDatePrecision),
	}
}

// Clone returns an independent copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
