package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-valid-url")
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:19999")
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestClose_NilClient(t *testing.T) {
	var rc *RedisClient
	if err := rc.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("5f0e3c52-8f8e-4d5c-9a52-2f4b3d3a6c11")
	if got, want := Key(id), "item:5f0e3c52-8f8e-4d5c-9a52-2f4b3d3a6c11"; got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}
}

func TestInvalidationKey(t *testing.T) {
	id := uuid.MustParse("5f0e3c52-8f8e-4d5c-9a52-2f4b3d3a6c11")
	if got, want := invalidationKey(id), "item:5f0e3c52-8f8e-4d5c-9a52-2f4b3d3a6c11:invalidated"; got != want {
		t.Fatalf("invalidationKey() = %q, want %q", got, want)
	}
}

func TestHashRoundTrip(t *testing.T) {
	want := &CachedItem{
		ID:          uuid.New(),
		Name:        "Potion",
		Description: "Restores a small amount of HP",
		Price:       9.99,
		CreatedDate: time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC),
	}

	raw := encodeHash(want)
	vals := make(map[string]string, len(raw))
	for k, v := range raw {
		vals[k] = fmt.Sprint(v)
	}

	got, err := decodeHash(vals)
	if err != nil {
		t.Fatalf("decodeHash: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestDecodeHash_Corrupt(t *testing.T) {
	valid := map[string]string{
		"id":           uuid.NewString(),
		"name":         "Potion",
		"price":        "9.99",
		"created_date": "2024-03-01T12:30:00Z",
	}
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"bad id", "id", "nope"},
		{"bad price", "price", "cheap"},
		{"bad created_date", "created_date", "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := make(map[string]string, len(valid))
			for k, v := range valid {
				vals[k] = v
			}
			vals[tt.field] = tt.value
			if _, err := decodeHash(vals); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

// Integration tests, skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	rc, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	t.Run("Ping_Success", func(t *testing.T) {
		if err := rc.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache_SetAfterDeleteSkipped", func(t *testing.T) {
		ic := NewItemCache(rc)
		item := &CachedItem{
			ID:          uuid.New(),
			Name:        "Potion",
			Price:       9.99,
			CreatedDate: time.Now().UTC().Truncate(time.Microsecond),
		}
		if err := ic.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := ic.Set(ctx, item); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if _, err := ic.Get(ctx, item.ID); !IsMiss(err) {
			t.Fatalf("expected Set inside the invalidation window to be skipped, got %v", err)
		}
		ttl, err := rc.Client().TTL(ctx, invalidationKey(item.ID)).Result()
		if err != nil || ttl <= 0 || ttl > InvalidationWindow {
			t.Fatalf("unexpected marker TTL %s (err %v)", ttl, err)
		}
	})

	t.Run("ItemCache_SetGetDelete", func(t *testing.T) {
		ic := NewItemCache(rc)
		item := &CachedItem{
			ID:          uuid.New(),
			Name:        "Potion",
			Price:       9.99,
			CreatedDate: time.Now().UTC().Truncate(time.Microsecond),
		}

		if _, err := ic.Get(ctx, item.ID); !IsMiss(err) {
			t.Fatalf("expected miss before Set, got %v", err)
		}
		if err := ic.Set(ctx, item); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := ic.Get(ctx, item.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if *got != *item {
			t.Fatalf("got %+v, want %+v", got, item)
		}
		ttl, err := rc.Client().TTL(ctx, Key(item.ID)).Result()
		if err != nil || ttl <= 0 || ttl > ItemCacheTTL {
			t.Fatalf("unexpected TTL %s (err %v)", ttl, err)
		}
		if err := ic.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := ic.Get(ctx, item.ID); !IsMiss(err) {
			t.Fatalf("expected miss after Delete, got %v", err)
		}
	})
}
