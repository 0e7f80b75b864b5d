// Package mongo implements the item repository on a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
)

// ItemRepository implements repositories.ItemRepository against a MongoDB collection.
type ItemRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewItemRepository returns an ItemRepository backed by coll. Every call is
// bounded by timeout on top of the caller's context; zero disables the bound.
func NewItemRepository(coll *mongo.Collection, timeout time.Duration) *ItemRepository {
	return &ItemRepository{coll: coll, timeout: timeout}
}

// GetAll loads every document into memory before returning.
func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, classify("find items", err)
	}

	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("read items", err)
	}

	items := make([]*models.Item, 0, len(docs))
	for _, d := range docs {
		item, err := d.toItem()
		if err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns the item, or false when no document matches.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc itemDocument
	err := r.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("find item", err)
	}

	item, err := doc.toItem()
	if err != nil {
		return nil, false, fmt.Errorf("decode item: %w", err)
	}
	return item, true, nil
}

// Create inserts a new document. Returns ErrItemAlreadyExists on _id collision.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toDocument(item)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return itemdomain.ErrItemAlreadyExists
		}
		return classify("insert item", err)
	}
	return nil
}

// Update sets name, description and price on the matching document.
// createdDate is not part of the update so it can never change.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, byID(item.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: item.Name.String()},
		{Key: "description", Value: item.Description},
		{Key: "price", Value: item.Price},
	}}})
	if err != nil {
		return classify("update item", err)
	}
	if res.MatchedCount == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes the matching document.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return classify("delete item", err)
	}
	if res.DeletedCount == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

// classify wraps driver errors, tagging connectivity failures with
// ErrStorageUnavailable so callers can tell "store down" from "not found".
func classify(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, itemdomain.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
