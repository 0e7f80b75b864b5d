// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/item/domain/models"
)

const maxDescriptionLength = 1024

// ValidateName enforces business rules for ItemName beyond the structural
// constraints enforced by the ItemName constructor (length 1–255).
//
// Business rules:
//   - Must not be only whitespace characters
//   - No control characters (Unicode category Cc)
//
// Names are stored verbatim, so surrounding whitespace is allowed.
func ValidateName(name models.ItemName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("item name must not be only whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("item name must not contain control characters")
		}
	}

	return nil
}

// ValidateItem performs cross-field validation on an Item aggregate before it
// is persisted by either a create or an update.
func ValidateItem(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if item.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if item.CreatedDate.IsZero() {
		return fmt.Errorf("created date must be set")
	}

	if err := ValidateName(item.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if utf8.RuneCountInString(item.Description) > maxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxDescriptionLength)
	}

	return ValidatePrice(item.Price)
}

// ValidatePrice rejects negative, NaN and infinite prices. Zero is allowed.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price must be a finite number")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
