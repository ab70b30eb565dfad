package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
)

const (
	listItemsSQL = `SELECT id, name, description, price, currency
		FROM items ORDER BY created_at, id`

	getItemByIDSQL = `SELECT id, name, description, price, currency
		FROM items WHERE id = $1`

	createItemSQL = `INSERT INTO items (id, name, description, price, currency)
		VALUES ($1, $2, $3, $4, $5)`

	upsertItemSQL = `INSERT INTO items (id, name, description, price, currency)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, currency = EXCLUDED.currency`

	deleteItemSQL = `DELETE FROM items WHERE id = $1`
)

var _ item.Repository = (*ItemRepository)(nil)

// ItemRepository implements item.Repository backed by PostgreSQL.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns an ItemRepository that uses the given pool.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// List returns the whole catalog in listing order.
func (r *ItemRepository) List(ctx context.Context) ([]item.Item, error) {
	rows, err := r.pool.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return pgx.CollectRows(rows, scanItem)
}

// GetByID returns a single item by its identifier.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	rows, err := r.pool.Query(ctx, getItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}
	return &it, nil
}

// Create persists a new catalog item.
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	_, err := r.pool.Exec(ctx, createItemSQL,
		it.ID, it.Name, it.Description, it.Price, string(it.Currency),
	)
	if err != nil {
		return fmt.Errorf("creating item %q: %w", it.ID, err)
	}
	return nil
}

// Upsert inserts the item or, when the id already exists, replaces its
// fields. Used by seeding tools.
func (r *ItemRepository) Upsert(ctx context.Context, it *item.Item) error {
	_, err := r.pool.Exec(ctx, upsertItemSQL,
		it.ID, it.Name, it.Description, it.Price, string(it.Currency),
	)
	if err != nil {
		return fmt.Errorf("upserting item %q: %w", it.ID, err)
	}
	return nil
}

// Delete removes an item. Deleting an unknown id reports item.ErrNotFound.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.CollectableRow) (item.Item, error) {
	var (
		it       item.Item
		currency string
	)
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &currency)
	it.Currency = money.Currency(currency)
	return it, err
}
