package models

import (
	"fmt"
	"unicode/utf8"
)

// ItemName is a catalog item's display name. Length is counted in runes so
// it agrees with the request-level max=255 tag.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 255
)

// NewItemName keeps s verbatim; no trimming or case folding happens here.
// Content rules (whitespace-only, control characters) live in
// services.ValidateName.
func NewItemName(s string) (ItemName, error) {
	switch n := utf8.RuneCountInString(s); {
	case n < minItemNameLength:
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	case n > maxItemNameLength:
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	return ItemName(s), nil
}

func (n ItemName) String() string {
	return string(n)
}
