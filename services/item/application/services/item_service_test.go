package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/application/dto"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/memory"
)

func price(f float64) *float64 { return &f }

func newTestService(t *testing.T) (*ItemService, *memory.ItemRepository) {
	t.Helper()
	repo := memory.NewItemRepository()
	return NewItemService(repo, logger.NewWithWriter(&bytes.Buffer{}, "error")), repo
}

// unavailableRepo fails every call the way a backend does when the store is down.
type unavailableRepo struct{}

var errDown = fmt.Errorf("find items: %w: %w", itemdomain.ErrStorageUnavailable, errors.New("server selection timeout"))

func (unavailableRepo) GetAll(context.Context) ([]*models.Item, error) { return nil, errDown }
func (unavailableRepo) GetByID(context.Context, uuid.UUID) (*models.Item, bool, error) {
	return nil, false, errDown
}
func (unavailableRepo) Create(context.Context, *models.Item) error { return errDown }
func (unavailableRepo) Update(context.Context, *models.Item) error { return errDown }
func (unavailableRepo) Delete(context.Context, uuid.UUID) error    { return errDown }

func TestItemService_CreatePotion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	start := time.Now().UTC()
	created, err := svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Description: "Heals 10 HP", Price: price(9.99)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	id, err := uuid.Parse(created.ID)
	if err != nil || id == uuid.Nil {
		t.Fatalf("expected a non-empty id, got %q", created.ID)
	}
	if created.Name != "Potion" || created.Description != "Heals 10 HP" || created.Price != 9.99 {
		t.Errorf("fields not echoed: %+v", created)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created.CreatedDate)
	if err != nil {
		t.Fatalf("createdDate: %v", err)
	}
	if d := createdAt.Sub(start); d < -time.Second || d > 5*time.Second {
		t.Errorf("createdDate %s not within a few seconds of %s", createdAt, start)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Fatalf("Get returned %+v, want %+v", got, created)
	}
}

func TestItemService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", items)
	}

	for _, n := range []string{"Potion", "Ether", "Elixir"} {
		if _, err := svc.Create(ctx, dto.CreateItemRequest{Name: n, Price: price(1)}); err != nil {
			t.Fatalf("Create %s: %v", n, err)
		}
	}
	items, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestItemService_GetUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	created, _ := svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Description: "Heals 10 HP", Price: price(9.99)})
	id := uuid.MustParse(created.ID)

	if err := svc.Update(ctx, id, dto.UpdateItemRequest{Name: "Hi-Potion", Price: price(24.5)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored, found, err := repo.GetByID(ctx, id)
	if err != nil || !found {
		t.Fatalf("GetByID: found=%v err=%v", found, err)
	}
	if stored.Name != "Hi-Potion" || stored.Price != 24.5 {
		t.Errorf("name/price not updated: %+v", stored)
	}
	if stored.Description != "Heals 10 HP" || stored.CreatedDate.Format(time.RFC3339Nano) != created.CreatedDate {
		t.Errorf("description/createdDate changed: %+v", stored)
	}
}

func TestItemService_UpdateUnknownLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, _ = svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Price: price(1)})

	err := svc.Update(ctx, uuid.New(), dto.UpdateItemRequest{Name: "X", Price: price(1)})
	if !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	items, _ := svc.List(ctx)
	if len(items) != 1 || items[0].Name != "Potion" {
		t.Fatalf("store changed: %+v", items)
	}
}

func TestItemService_UpdateInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	created, _ := svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Price: price(1)})

	err := svc.Update(ctx, uuid.MustParse(created.ID), dto.UpdateItemRequest{Name: "   ", Price: price(1)})
	if !errors.Is(err, itemdomain.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

// countingRepo records how many times storage is reached.
type countingRepo struct {
	*memory.ItemRepository
	calls int
}

func (c *countingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	c.calls++
	return c.ItemRepository.GetByID(ctx, id)
}

func (c *countingRepo) Update(ctx context.Context, item *models.Item) error {
	c.calls++
	return c.ItemRepository.Update(ctx, item)
}

func TestItemService_UpdateValidatesBeforeStorage(t *testing.T) {
	tests := []struct {
		name string
		req  dto.UpdateItemRequest
	}{
		{"whitespace name", dto.UpdateItemRequest{Name: "   ", Price: price(1)}},
		{"control character", dto.UpdateItemRequest{Name: "Po	tion", Price: price(1)}},
		{"name too long", dto.UpdateItemRequest{Name: strings.Repeat("x", 256), Price: price(1)}},
		{"negative price", dto.UpdateItemRequest{Name: "Potion", Price: price(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &countingRepo{ItemRepository: memory.NewItemRepository()}
			svc := NewItemService(repo, logger.NewWithWriter(&bytes.Buffer{}, "error"))

			err := svc.Update(context.Background(), uuid.New(), tt.req)
			if !errors.Is(err, itemdomain.ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem for an unknown id, got %v", err)
			}
			if repo.calls != 0 {
				t.Fatalf("expected no storage calls, got %d", repo.calls)
			}
		})
	}
}

func TestItemService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	created, _ := svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Price: price(1)})
	id := uuid.MustParse(created.ID)

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, id); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("second delete: expected ErrItemNotFound, got %v", err)
	}
}

func TestItemService_CreateInvalidNeverReachesRepository(t *testing.T) {
	svc := NewItemService(unavailableRepo{}, logger.NewWithWriter(&bytes.Buffer{}, "error"))

	_, err := svc.Create(context.Background(), dto.CreateItemRequest{Name: "\n", Price: price(1)})
	if !errors.Is(err, itemdomain.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem before any storage call, got %v", err)
	}
}

func TestItemService_StorageUnavailable(t *testing.T) {
	var logs bytes.Buffer
	svc := NewItemService(unavailableRepo{}, logger.NewWithWriter(&logs, "info"))
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name string
		call func() error
	}{
		{"list", func() error { _, err := svc.List(ctx); return err }},
		{"get", func() error { _, err := svc.Get(ctx, id); return err }},
		{"create", func() error {
			_, err := svc.Create(ctx, dto.CreateItemRequest{Name: "Potion", Price: price(1)})
			return err
		}},
		{"update", func() error { return svc.Update(ctx, id, dto.UpdateItemRequest{Name: "X", Price: price(1)}) }},
		{"delete", func() error { return svc.Delete(ctx, id) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, itemdomain.ErrStorageUnavailable) {
				t.Fatalf("expected ErrStorageUnavailable, got %v", err)
			}
			if errors.Is(err, itemdomain.ErrItemNotFound) {
				t.Fatal("store outage must not look like a missing item")
			}
		})
	}
	if !strings.Contains(logs.String(), "item operation failed") {
		t.Errorf("expected failures to be logged, got %q", logs.String())
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{itemdomain.ErrItemNotFound, "not_found"},
		{fmt.Errorf("create item: %w", itemdomain.ErrItemAlreadyExists), "conflict"},
		{itemdomain.ErrInvalidItem, "invalid"},
		{errDown, "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
