package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
)

const (
	createDiscountSQL = `INSERT INTO discounts (id, name, percent_off, duration, currency, coupon_ref)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateDiscountSQL = `UPDATE discounts
		SET name = $2, percent_off = $3, duration = $4, currency = $5
		WHERE id = $1 AND coupon_ref = ''`

	setDiscountRefSQL = `UPDATE discounts
		SET coupon_ref = $2
		WHERE id = $1 AND coupon_ref = ''`

	getDiscountSQL = `SELECT id, name, percent_off, duration, currency, coupon_ref
		FROM discounts WHERE id = $1`

	findDiscountByNameSQL = `SELECT id, name, percent_off, duration, currency, coupon_ref
		FROM discounts WHERE name = $1`

	listDiscountsSQL = `SELECT id, name, percent_off, duration, currency, coupon_ref
		FROM discounts ORDER BY created_at, id`

	deleteDiscountSQL = `DELETE FROM discounts WHERE id = $1`

	createTaxSQL = `INSERT INTO taxes (id, name, percentage, currency, tax_rate_ref)
		VALUES ($1, $2, $3, $4, $5)`

	updateTaxSQL = `UPDATE taxes
		SET name = $2, percentage = $3, currency = $4
		WHERE id = $1 AND tax_rate_ref = ''`

	setTaxRefSQL = `UPDATE taxes
		SET tax_rate_ref = $2
		WHERE id = $1 AND tax_rate_ref = ''`

	getTaxSQL = `SELECT id, name, percentage, currency, tax_rate_ref
		FROM taxes WHERE id = $1`

	findTaxByNameSQL = `SELECT id, name, percentage, currency, tax_rate_ref
		FROM taxes WHERE name = $1`

	listTaxesSQL = `SELECT id, name, percentage, currency, tax_rate_ref
		FROM taxes ORDER BY created_at, id`

	deleteTaxSQL = `DELETE FROM taxes WHERE id = $1`
)

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
//
// The update statements carry a ref = '' guard so a registered record can
// never have its terms rewritten, even by a racing request.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// CreateDiscount persists a new discount.
func (r *PromoRepository) CreateDiscount(ctx context.Context, d *promo.Discount) error {
	_, err := r.pool.Exec(ctx, createDiscountSQL,
		d.ID, d.Name, d.PercentOff, string(d.Duration), string(d.Currency), d.CouponRef,
	)
	if err != nil {
		return fmt.Errorf("creating discount %q: %w", d.Name, err)
	}
	return nil
}

// UpdateDiscount rewrites an unregistered discount's terms. A registered
// record is reported as promo.ErrRegistered.
func (r *PromoRepository) UpdateDiscount(ctx context.Context, d *promo.Discount) error {
	tag, err := r.pool.Exec(ctx, updateDiscountSQL,
		d.ID, d.Name, d.PercentOff, string(d.Duration), string(d.Currency),
	)
	if err != nil {
		return fmt.Errorf("updating discount %q: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrRegistered
	}
	return nil
}

// SetDiscountRef stores the gateway coupon reference on an unregistered
// discount. A record that already carries a reference keeps it and the call
// reports promo.ErrRegistered.
func (r *PromoRepository) SetDiscountRef(ctx context.Context, id, ref string) error {
	tag, err := r.pool.Exec(ctx, setDiscountRefSQL, id, ref)
	if err != nil {
		return fmt.Errorf("registering discount %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrRegistered
	}
	return nil
}

// GetDiscount returns a discount by id, or promo.ErrNotFound.
func (r *PromoRepository) GetDiscount(ctx context.Context, id string) (*promo.Discount, error) {
	return r.oneDiscount(ctx, getDiscountSQL, id)
}

// FindDiscountByName returns a discount by its unique name, or promo.ErrNotFound.
func (r *PromoRepository) FindDiscountByName(ctx context.Context, name string) (*promo.Discount, error) {
	return r.oneDiscount(ctx, findDiscountByNameSQL, name)
}

func (r *PromoRepository) oneDiscount(ctx context.Context, sql, arg string) (*promo.Discount, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("finding discount %q: %w", arg, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDiscount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrNotFound
		}
		return nil, fmt.Errorf("finding discount %q: %w", arg, err)
	}
	return &d, nil
}

// ListDiscounts returns all discounts in creation order.
func (r *PromoRepository) ListDiscounts(ctx context.Context) ([]promo.Discount, error) {
	rows, err := r.pool.Query(ctx, listDiscountsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	return pgx.CollectRows(rows, scanDiscount)
}

// DeleteDiscount removes a discount row.
func (r *PromoRepository) DeleteDiscount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteDiscountSQL, id)
	if err != nil {
		return fmt.Errorf("deleting discount %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrNotFound
	}
	return nil
}

// CreateTax persists a new tax.
func (r *PromoRepository) CreateTax(ctx context.Context, t *promo.Tax) error {
	_, err := r.pool.Exec(ctx, createTaxSQL,
		t.ID, t.Name, t.Percentage, string(t.Currency), t.TaxRateRef,
	)
	if err != nil {
		return fmt.Errorf("creating tax %q: %w", t.Name, err)
	}
	return nil
}

// UpdateTax rewrites an unregistered tax's terms, mirroring UpdateDiscount.
func (r *PromoRepository) UpdateTax(ctx context.Context, t *promo.Tax) error {
	tag, err := r.pool.Exec(ctx, updateTaxSQL,
		t.ID, t.Name, t.Percentage, string(t.Currency),
	)
	if err != nil {
		return fmt.Errorf("updating tax %q: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrRegistered
	}
	return nil
}

// SetTaxRef stores the gateway tax rate reference on an unregistered tax,
// mirroring SetDiscountRef.
func (r *PromoRepository) SetTaxRef(ctx context.Context, id, ref string) error {
	tag, err := r.pool.Exec(ctx, setTaxRefSQL, id, ref)
	if err != nil {
		return fmt.Errorf("registering tax %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrRegistered
	}
	return nil
}

// GetTax returns a tax by id, or promo.ErrNotFound.
func (r *PromoRepository) GetTax(ctx context.Context, id string) (*promo.Tax, error) {
	return r.oneTax(ctx, getTaxSQL, id)
}

// FindTaxByName returns a tax by its unique name, or promo.ErrNotFound.
func (r *PromoRepository) FindTaxByName(ctx context.Context, name string) (*promo.Tax, error) {
	return r.oneTax(ctx, findTaxByNameSQL, name)
}

func (r *PromoRepository) oneTax(ctx context.Context, sql, arg string) (*promo.Tax, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("finding tax %q: %w", arg, err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTax)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrNotFound
		}
		return nil, fmt.Errorf("finding tax %q: %w", arg, err)
	}
	return &t, nil
}

// ListTaxes returns all taxes in creation order.
func (r *PromoRepository) ListTaxes(ctx context.Context) ([]promo.Tax, error) {
	rows, err := r.pool.Query(ctx, listTaxesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing taxes: %w", err)
	}
	return pgx.CollectRows(rows, scanTax)
}

// DeleteTax removes a tax row.
func (r *PromoRepository) DeleteTax(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteTaxSQL, id)
	if err != nil {
		return fmt.Errorf("deleting tax %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrNotFound
	}
	return nil
}

func scanDiscount(row pgx.CollectableRow) (promo.Discount, error) {
	var (
		d        promo.Discount
		duration string
		currency string
	)
	err := row.Scan(&d.ID, &d.Name, &d.PercentOff, &duration, &currency, &d.CouponRef)
	d.Duration = promo.Duration(duration)
	d.Currency = money.Currency(currency)
	return d, err
}

func scanTax(row pgx.CollectableRow) (promo.Tax, error) {
	var (
		t        promo.Tax
		currency string
	)
	err := row.Scan(&t.ID, &t.Name, &t.Percentage, &currency, &t.TaxRateRef)
	t.Currency = money.Currency(currency)
	return t, err
}
