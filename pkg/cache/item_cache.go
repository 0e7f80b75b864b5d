package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = time.Hour

	// InvalidationWindow is how long Delete blocks later Set calls for the
	// same id. A read that loaded the record before the invalidation and
	// writes it back within this window is discarded.
	InvalidationWindow = 10 * time.Second

	itemCacheKeyPrefix = "item"
)

// CachedItem is the read model stored in Redis as a hash.
type CachedItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	CreatedDate time.Time
}

// IsMiss reports whether err means the key was absent or expired.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "item:{itemID}", invalidation marker "item:{itemID}:invalidated".
type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
	window time.Duration
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r.Client(), ttl: ItemCacheTTL, window: InvalidationWindow}
}

// Get retrieves a cached item by ID.
// Returns redis.Nil (see IsMiss) when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, id uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.HGetAll(ctx, Key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	item, err := decodeHash(vals)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return item, nil
}

// Set writes a cached item as a Redis hash with ItemCacheTTL.
//
// The write is skipped, without error, while the id's invalidation marker
// exists. WATCH on the marker also aborts a write racing a concurrent Delete.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key, marker := Key(item.ID), invalidationKey(item.ID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, marker).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, encodeHash(item))
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, marker)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item and sets its invalidation marker for
// InvalidationWindow. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, id uuid.UUID) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, Key(id))
	pipe.Set(ctx, invalidationKey(id), 1, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Key builds the Redis key: "item:{itemID}"
func Key(id uuid.UUID) string {
	return itemCacheKeyPrefix + ":" + id.String()
}

func invalidationKey(id uuid.UUID) string {
	return Key(id) + ":invalidated"
}

func encodeHash(item *CachedItem) map[string]any {
	return map[string]any{
		"id":           item.ID.String(),
		"name":         item.Name,
		"description":  item.Description,
		"price":        strconv.FormatFloat(item.Price, 'g', -1, 64),
		"created_date": item.CreatedDate.UTC().Format(time.RFC3339Nano),
	}
}

func decodeHash(vals map[string]string) (*CachedItem, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	createdDate, err := time.Parse(time.RFC3339Nano, vals["created_date"])
	if err != nil {
		return nil, fmt.Errorf("parse created_date: %w", err)
	}
	return &CachedItem{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Price:       price,
		CreatedDate: createdDate.UTC(),
	}, nil
}
