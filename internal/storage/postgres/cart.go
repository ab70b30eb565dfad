package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
)

const (
	createCartSQL = `INSERT INTO carts (id) VALUES ($1)`

	getCartSQL = `SELECT
			c.id,
			d.id, d.name, d.percent_off, d.duration, d.currency, d.coupon_ref,
			t.id, t.name, t.percentage, t.currency, t.tax_rate_ref
		FROM carts c
		LEFT JOIN discounts d ON d.id = c.discount_id
		LEFT JOIN taxes t ON t.id = c.tax_id
		WHERE c.id = $1`

	getCartLinesSQL = `SELECT i.id, i.name, i.description, i.price, i.currency, l.quantity
		FROM cart_lines l
		JOIN items i ON i.id = l.item_id
		WHERE l.cart_id = $1
		ORDER BY i.created_at, i.id`

	upsertLineSQL = `INSERT INTO cart_lines (cart_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, item_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`

	setCartDiscountSQL = `UPDATE carts SET discount_id = $2 WHERE id = $1`
	setCartTaxSQL      = `UPDATE carts SET tax_id = $2 WHERE id = $1`

	deleteCartSQL = `DELETE FROM carts WHERE id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Lines
// cascade with the cart row.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Create inserts an empty cart.
func (r *CartRepository) Create(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, createCartSQL, id); err != nil {
		return fmt.Errorf("creating cart %q: %w", id, err)
	}
	return nil
}

// Get loads the cart with its attached promotions and its lines.
func (r *CartRepository) Get(ctx context.Context, id string) (*cart.Cart, error) {
	c, err := r.getCartHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, getCartLinesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting cart lines %q: %w", id, err)
	}
	lines, err := pgx.CollectRows(rows, scanCartLine)
	if err != nil {
		return nil, fmt.Errorf("getting cart lines %q: %w", id, err)
	}
	c.Lines = lines
	return c, nil
}

func (r *CartRepository) getCartHeader(ctx context.Context, id string) (*cart.Cart, error) {
	var (
		c cart.Cart

		dID, dName, dDuration, dCurrency, dRef *string
		dPercent                               *int

		tID, tName, tCurrency, tRef *string
		tPercent                    *int
	)
	err := r.pool.QueryRow(ctx, getCartSQL, id).Scan(
		&c.ID,
		&dID, &dName, &dPercent, &dDuration, &dCurrency, &dRef,
		&tID, &tName, &tPercent, &tCurrency, &tRef,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}

	if dID != nil {
		c.Discount = &promo.Discount{
			ID:         *dID,
			Name:       *dName,
			PercentOff: *dPercent,
			Duration:   promo.Duration(*dDuration),
			Currency:   money.Currency(*dCurrency),
			CouponRef:  *dRef,
		}
	}
	if tID != nil {
		c.Tax = &promo.Tax{
			ID:         *tID,
			Name:       *tName,
			Percentage: *tPercent,
			Currency:   money.Currency(*tCurrency),
			TaxRateRef: *tRef,
		}
	}
	return &c, nil
}

// UpsertLine inserts a line or adds qty to the existing one.
func (r *CartRepository) UpsertLine(ctx context.Context, cartID, itemID string, qty int) error {
	if _, err := r.pool.Exec(ctx, upsertLineSQL, cartID, itemID, qty); err != nil {
		return fmt.Errorf("upserting line (%q, %q): %w", cartID, itemID, err)
	}
	return nil
}

// SetDiscount points the cart at a discount, replacing any previous one.
func (r *CartRepository) SetDiscount(ctx context.Context, cartID, discountID string) error {
	if _, err := r.pool.Exec(ctx, setCartDiscountSQL, cartID, discountID); err != nil {
		return fmt.Errorf("setting discount on cart %q: %w", cartID, err)
	}
	return nil
}

// SetTax points the cart at a tax, replacing any previous one.
func (r *CartRepository) SetTax(ctx context.Context, cartID, taxID string) error {
	if _, err := r.pool.Exec(ctx, setCartTaxSQL, cartID, taxID); err != nil {
		return fmt.Errorf("setting tax on cart %q: %w", cartID, err)
	}
	return nil
}

// Delete removes the cart; lines cascade. Deleting an absent cart is a no-op.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteCartSQL, id); err != nil {
		return fmt.Errorf("deleting cart %q: %w", id, err)
	}
	return nil
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var (
		l        cart.Line
		it       item.Item
		currency string
	)
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &currency, &l.Quantity)
	it.Currency = money.Currency(currency)
	l.Item = it
	return l, err
}
