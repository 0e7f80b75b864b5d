// Package repositorytest holds the behavioural contract every
// repositories.ItemRepository implementation must satisfy.
//
// Implementations call Run from their own tests:
//
//	func TestItemRepository_Contract(t *testing.T) {
//	    repositorytest.Run(t, func(t *testing.T) repositories.ItemRepository {
//	        return memory.NewItemRepository()
//	    })
//	}
package repositorytest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

// Factory returns an empty repository. It is called once per subtest and may
// register cleanup with t.Cleanup.
type Factory func(t *testing.T) repositories.ItemRepository

// Run executes the full contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("create then get returns identical item", func(t *testing.T) {
		repo := newRepo(t)
		item := models.NewItem("Potion", "Heals 10 HP", 9.99)

		mustCreate(t, repo, item)

		got := mustGet(t, repo, item.ID)
		AssertItemEqual(t, got, item)
	})

	t.Run("get unknown id is absent", func(t *testing.T) {
		repo := newRepo(t)
		got, found, err := repo.GetByID(context.Background(), uuid.New())
		if err != nil {
			t.Fatalf("GetByID: unexpected error: %v", err)
		}
		if found || got != nil {
			t.Fatalf("expected absent, got found=%v item=%+v", found, got)
		}
	})

	t.Run("create duplicate id fails", func(t *testing.T) {
		repo := newRepo(t)
		item := models.NewItem("Potion", "", 1)
		mustCreate(t, repo, item)

		dup := item.Clone()
		dup.Name = "Ether"
		err := repo.Create(context.Background(), dup)
		if !errors.Is(err, itemdomain.ErrItemAlreadyExists) {
			t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
		}
		AssertItemEqual(t, mustGet(t, repo, item.ID), item)
	})

	t.Run("update overwrites fields but keeps created date", func(t *testing.T) {
		repo := newRepo(t)
		item := models.NewItem("Potion", "Heals 10 HP", 9.99)
		mustCreate(t, repo, item)

		changed := item.Clone()
		changed.Name = "Hi-Potion"
		changed.Price = 19.5
		changed.CreatedDate = item.CreatedDate.Add(-48 * time.Hour)
		if err := repo.Update(context.Background(), changed); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got := mustGet(t, repo, item.ID)
		if got.Name != "Hi-Potion" || got.Price != 19.5 {
			t.Fatalf("update not applied: %+v", got)
		}
		if got.Description != item.Description {
			t.Fatalf("description changed: got %q, want %q", got.Description, item.Description)
		}
		if !got.CreatedDate.Equal(item.CreatedDate) {
			t.Fatalf("created date changed: got %v, want %v", got.CreatedDate, item.CreatedDate)
		}
	})

	t.Run("update unknown id fails and leaves store unchanged", func(t *testing.T) {
		repo := newRepo(t)
		mustCreate(t, repo, models.NewItem("Potion", "", 1))

		err := repo.Update(context.Background(), models.NewItem("X", "", 1))
		if !errors.Is(err, itemdomain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
		if n := len(mustGetAll(t, repo)); n != 1 {
			t.Fatalf("expected 1 item after failed update, got %d", n)
		}
	})

	t.Run("delete removes item and second delete fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		item := models.NewItem("Potion", "", 1)
		mustCreate(t, repo, item)

		if err := repo.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, found, err := repo.GetByID(ctx, item.ID); err != nil || found {
			t.Fatalf("expected absent after delete, got found=%v err=%v", found, err)
		}
		if err := repo.Delete(ctx, item.ID); !errors.Is(err, itemdomain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
		}
	})

	t.Run("get all returns every inserted item", func(t *testing.T) {
		repo := newRepo(t)
		if n := len(mustGetAll(t, repo)); n != 0 {
			t.Fatalf("expected empty repository, got %d items", n)
		}

		want := map[uuid.UUID]*models.Item{}
		for _, name := range []models.ItemName{"Potion", "Ether", "Elixir", "Phoenix Down"} {
			item := models.NewItem(name, "", 5)
			mustCreate(t, repo, item)
			want[item.ID] = item
		}

		all := mustGetAll(t, repo)
		if len(all) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(all))
		}
		for _, got := range all {
			w, ok := want[got.ID]
			if !ok {
				t.Fatalf("unexpected item %v", got.ID)
			}
			AssertItemEqual(t, got, w)
		}
	})

	t.Run("returned items are copies", func(t *testing.T) {
		repo := newRepo(t)
		item := models.NewItem("Potion", "", 1)
		mustCreate(t, repo, item)

		item.Name = "mutated after create"
		got := mustGet(t, repo, item.ID)
		if got.Name != "Potion" {
			t.Fatalf("store aliased the created item: %q", got.Name)
		}

		got.Name = "mutated after get"
		if again := mustGet(t, repo, item.ID); again.Name != "Potion" {
			t.Fatalf("store aliased the returned item: %q", again.Name)
		}
	})
}

// AssertItemEqual fails the test unless every field of got matches want.
func AssertItemEqual(t *testing.T, got, want *models.Item) {
	t.Helper()
	if got == nil || want == nil {
		t.Fatalf("nil item: got=%v want=%v", got, want)
	}
	if got.ID != want.ID {
		t.Errorf("ID: got %v, want %v", got.ID, want.ID)
	}
	if got.Name != want.Name {
		t.Errorf("Name: got %q, want %q", got.Name, want.Name)
	}
	if got.Description != want.Description {
		t.Errorf("Description: got %q, want %q", got.Description, want.Description)
	}
	if got.Price != want.Price {
		t.Errorf("Price: got %v, want %v", got.Price, want.Price)
	}
	if !got.CreatedDate.Equal(want.CreatedDate) {
		t.Errorf("CreatedDate: got %v, want %v", got.CreatedDate, want.CreatedDate)
	}
}

func mustCreate(t *testing.T, repo repositories.ItemRepository, item *models.Item) {
	t.Helper()
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func mustGet(t *testing.T, repo repositories.ItemRepository, id uuid.UUID) *models.Item {
	t.Helper()
	got, found, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !found {
		t.Fatalf("GetByID: item %v not found", id)
	}
	return got
}

func mustGetAll(t *testing.T, repo repositories.ItemRepository) []*models.Item {
	t.Helper()
	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	return all
}
