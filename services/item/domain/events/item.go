package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics published by the item repository decorator.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated, ...).
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// SchemaVersion is stamped on every item event; increment on breaking changes.
const SchemaVersion = 1

// ItemCreatedEvent is published after a new Item is persisted.
// It carries the full record so consumers can build read models without a lookup.
type ItemCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`
	ItemID      uuid.UUID `json:"item_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedDate time.Time `json:"created_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ItemUpdatedEvent is published after an existing Item's fields were overwritten.
type ItemUpdatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published after an Item was removed.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
