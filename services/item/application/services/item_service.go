package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/application/dto"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

const instrumentationName = "github.com/ghuser/catalog/services/item"

// ItemService implements the item use cases on top of an ItemRepository.
// Caching and event publishing live in repository decorators, so the
// service sees one interface regardless of backend.
//
// Update and Delete read before they write without any isolation. A
// concurrent Delete between the two steps surfaces as ErrItemNotFound from
// the repository write, which maps to the same outcome as the read.
type ItemService struct {
	repo   repositories.ItemRepository
	log    logger.Logger
	tracer trace.Tracer
	ops    metric.Int64Counter
}

// NewItemService returns an ItemService backed by repo. Spans and the
// catalog.item.operations counter use the global OTel providers.
func NewItemService(repo repositories.ItemRepository, log logger.Logger) *ItemService {
	ops, err := otel.Meter(instrumentationName).Int64Counter("catalog.item.operations",
		metric.WithDescription("Item operations by operation and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		log.Warn("failed to create item operations counter", "error", err)
	}
	return &ItemService{
		repo:   repo,
		log:    log,
		tracer: otel.Tracer(instrumentationName),
		ops:    ops,
	}
}

// List returns every item.
func (s *ItemService) List(ctx context.Context) (_ []dto.ItemResponse, err error) {
	ctx, end := s.begin(ctx, "list")
	defer func() { end(err) }()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	s.log.InfoContext(ctx, "retrieved items", "count", len(items))
	return dto.FromItems(items), nil
}

// Get returns one item or ErrItemNotFound.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (_ dto.ItemResponse, err error) {
	ctx, end := s.begin(ctx, "get", attribute.String("item.id", id.String()))
	defer func() { end(err) }()

	item, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ItemResponse{}, fmt.Errorf("get item: %w", err)
	}
	if !found {
		return dto.ItemResponse{}, itemdomain.ErrItemNotFound
	}
	return dto.FromItem(item), nil
}

// Create maps req to a new item and stores it.
func (s *ItemService) Create(ctx context.Context, req dto.CreateItemRequest) (_ dto.ItemResponse, err error) {
	ctx, end := s.begin(ctx, "create")
	defer func() { end(err) }()

	item, err := req.ToItem()
	if err != nil {
		return dto.ItemResponse{}, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return dto.ItemResponse{}, fmt.Errorf("create item: %w", err)
	}
	s.log.InfoContext(ctx, "item created", "item_id", item.ID)
	return dto.FromItem(item), nil
}

// Update overwrites name and price of an existing item. An invalid request
// fails with ErrInvalidItem before storage is read. Returns ErrItemNotFound
// when id is unknown; the store is left unchanged.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (err error) {
	ctx, end := s.begin(ctx, "update", attribute.String("item.id", id.String()))
	defer func() { end(err) }()

	if err := req.Validate(); err != nil {
		return err
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if !found {
		return itemdomain.ErrItemNotFound
	}

	updated, err := req.ApplyTo(existing)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	s.log.InfoContext(ctx, "item updated", "item_id", id)
	return nil
}

// Delete removes an item. Returns ErrItemNotFound when id is unknown.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, end := s.begin(ctx, "delete", attribute.String("item.id", id.String()))
	defer func() { end(err) }()

	_, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if !found {
		return itemdomain.ErrItemNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

// begin starts a span for op. The returned func ends it and counts the outcome.
func (s *ItemService) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "ItemService."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		out := outcome(err)
		if out == "error" || out == "unavailable" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.ErrorContext(ctx, "item operation failed", "operation", op, "error", err)
		}
		span.SetAttributes(attribute.String("outcome", out))
		span.End()
		if s.ops != nil {
			s.ops.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", out),
			))
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return "conflict"
	case errors.Is(err, itemdomain.ErrInvalidItem):
		return "invalid"
	case errors.Is(err, itemdomain.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
