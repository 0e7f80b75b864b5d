package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	itemEvents "github.com/ghuser/catalog/services/item/domain/events"
)

type itemCache interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// cacheSync evicts Redis item entries when item events arrive. It never
// writes entries: the three topics are consumed independently, so a late
// item.created could otherwise restore a record that was since updated or
// deleted. The API's read-through cache repopulates from storage.
// Handlers are idempotent; the bus retries them up to 3× on failure.
type cacheSync struct {
	cache itemCache
	log   logger.Logger
}

func newCacheSync(c itemCache, log logger.Logger) *cacheSync {
	return &cacheSync{cache: c, log: log}
}

func (s *cacheSync) handleCreated(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemCreatedEvent
	if err := events.DecodeJSON(msg, &evt); err != nil {
		// Malformed payloads never succeed on retry.
		s.log.ErrorContext(ctx, "dropping malformed item.created", "error", err)
		return nil
	}
	return s.evict(ctx, evt.ItemID)
}

func (s *cacheSync) handleUpdated(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemUpdatedEvent
	if err := events.DecodeJSON(msg, &evt); err != nil {
		s.log.ErrorContext(ctx, "dropping malformed item.updated", "error", err)
		return nil
	}
	return s.evict(ctx, evt.ItemID)
}

func (s *cacheSync) handleDeleted(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemDeletedEvent
	if err := events.DecodeJSON(msg, &evt); err != nil {
		s.log.ErrorContext(ctx, "dropping malformed item.deleted", "error", err)
		return nil
	}
	return s.evict(ctx, evt.ItemID)
}

func (s *cacheSync) evict(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict %s: %w", id, err)
	}
	s.log.InfoContext(ctx, "cache entry evicted", "item_id", id)
	return nil
}
