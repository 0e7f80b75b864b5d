// Package messaging decorates an ItemRepository so every successful write
// publishes an item event on the event bus.
package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/domain/events"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

// Publisher is satisfied by *events.EventBus.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, payload any) error
}

// ItemRepository publishes after the wrapped repository commits a write.
// A failed publish is logged; the write has already happened and is not
// reported as failed.
type ItemRepository struct {
	next repositories.ItemRepository
	pub  Publisher
	log  logger.Logger
	now  func() time.Time
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

func NewItemRepository(next repositories.ItemRepository, pub Publisher, log logger.Logger) *ItemRepository {
	return &ItemRepository{
		next: next,
		pub:  pub,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	return r.next.GetAll(ctx)
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	return r.next.GetByID(ctx, id)
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.publish(ctx, events.TopicItemCreated, item.ID, events.ItemCreatedEvent{
		EventID:     uuid.New(),
		Version:     events.SchemaVersion,
		ItemID:      item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
		CreatedDate: item.CreatedDate,
		OccurredAt:  r.now(),
	})
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.publish(ctx, events.TopicItemUpdated, item.ID, events.ItemUpdatedEvent{
		EventID:    uuid.New(),
		Version:    events.SchemaVersion,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		Price:      item.Price,
		OccurredAt: r.now(),
	})
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.publish(ctx, events.TopicItemDeleted, id, events.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    events.SchemaVersion,
		ItemID:     id,
		OccurredAt: r.now(),
	})
	return nil
}

func (r *ItemRepository) publish(ctx context.Context, topic string, id uuid.UUID, payload any) {
	if err := r.pub.PublishJSON(ctx, topic, payload); err != nil {
		r.log.ErrorContext(ctx, "failed to publish item event",
			"topic", topic, "item_id", id, "error", err)
	}
}
