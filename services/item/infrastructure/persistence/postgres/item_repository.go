package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
)

const (
	selectItems = `SELECT id, name, description, price, created_date FROM items`

	insertItem = `INSERT INTO items (id, name, description, price, created_date)
VALUES ($1, $2, $3, $4, $5)`

	updateItem = `UPDATE items SET name = $2, description = $3, price = $4 WHERE id = $1`

	deleteItem = `DELETE FROM items WHERE id = $1`
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewItemRepository returns an ItemRepository backed by the given connection pool.
// Every call is bounded by timeout on top of the caller's context; zero disables the bound.
func NewItemRepository(pool *pgxpool.Pool, timeout time.Duration) *ItemRepository {
	return &ItemRepository{pool: pool, timeout: timeout}
}

// GetAll retrieves every item ordered by creation date.
func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, selectItems+` ORDER BY created_date, id`)
	if err != nil {
		return nil, classify("query items", err)
	}
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, classify("scan items", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// GetByID retrieves an Item by ID, or false when no row matches.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, selectItems+` WHERE id = $1`, id)
	if err != nil {
		return nil, false, classify("query item", err)
	}
	item, err := pgx.CollectOneRow(rows, scanItem)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("scan item", err)
	}
	return item, true, nil
}

// Create persists a new Item. Returns ErrItemAlreadyExists on primary key violations.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, insertItem,
		item.ID,
		item.Name.String(),
		item.Description,
		item.Price,
		item.CreatedDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return itemdomain.ErrItemAlreadyExists
		}
		return classify("insert item", err)
	}
	return nil
}

// Update persists name, description and price of an existing Item.
// created_date is not in the statement, so it can never change.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, updateItem, item.ID, item.Name.String(), item.Description, item.Price)
	if err != nil {
		return classify("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes an item by ID.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, deleteItem, id)
	if err != nil {
		return classify("delete item", err)
	}
	if tag.RowsAffected() == 0 {
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

// scanItem maps one row to a domain models.Item.
func scanItem(row pgx.CollectableRow) (*models.Item, error) {
	var (
		item models.Item
		name string
	)
	if err := row.Scan(&item.ID, &name, &item.Description, &item.Price, &item.CreatedDate); err != nil {
		return nil, err
	}
	item.Name = models.ItemName(name)
	item.CreatedDate = item.CreatedDate.UTC()
	return &item, nil
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
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr) ||
		pgconn.Timeout(err) ||
		errors.Is(err, context.DeadlineExceeded)
}
