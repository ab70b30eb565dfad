// Package promo holds the promotions store: percentage discounts and tax
// rates, each mirrored to the payment gateway exactly once. Records created
// through the service are registered on the spot; records loaded from
// elsewhere stay unregistered until RegisterDiscount or RegisterTax runs.
package promo

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/StpaPSBB/storefront/internal/domain/money"
)

// Duration enumerates how long a discount coupon applies on the gateway side.
// The value is forwarded, not interpreted locally.
type Duration string

const (
	DurationOnce      Duration = "once"
	DurationRepeating Duration = "repeating"
	DurationForever   Duration = "forever"
)

var (
	// ErrNotFound is returned when a discount or tax lookup misses.
	ErrNotFound = errors.New("promotion not found")
	// ErrRegistered is returned when editing the economic terms of a record
	// that already carries a gateway reference. Changing terms requires a new
	// record.
	ErrRegistered = errors.New("promotion already registered with gateway")
	// ErrInvalidPercent is returned when a percentage falls outside [0, 100].
	ErrInvalidPercent = errors.New("percent must be between 0 and 100")
)

// Discount is a percentage-off coupon. CouponRef is the gateway id, assigned
// once at registration and never mutated afterwards.
type Discount struct {
	ID         string
	Name       string
	PercentOff int
	Duration   Duration
	Currency   money.Currency
	CouponRef  string
}

// Registered reports whether the discount has its gateway coupon.
func (d *Discount) Registered() bool {
	return d.CouponRef != ""
}

// Tax is an exclusive tax rate. TaxRateRef is the gateway id, assigned once.
type Tax struct {
	ID         string
	Name       string
	Percentage int
	Currency   money.Currency
	TaxRateRef string
}

// Registered reports whether the tax has its gateway tax rate.
func (t *Tax) Registered() bool {
	return t.TaxRateRef != ""
}

func (d Duration) valid() bool {
	switch d {
	case DurationOnce, DurationRepeating, DurationForever:
		return true
	}
	return false
}

// Repository defines persistence for discounts and taxes. Name lookups are
// the public attachment path; id lookups serve the management API.
type Repository interface {
	CreateDiscount(ctx context.Context, d *Discount) error
	UpdateDiscount(ctx context.Context, d *Discount) error
	SetDiscountRef(ctx context.Context, id, ref string) error
	GetDiscount(ctx context.Context, id string) (*Discount, error)
	FindDiscountByName(ctx context.Context, name string) (*Discount, error)
	ListDiscounts(ctx context.Context) ([]Discount, error)
	DeleteDiscount(ctx context.Context, id string) error

	CreateTax(ctx context.Context, t *Tax) error
	UpdateTax(ctx context.Context, t *Tax) error
	SetTaxRef(ctx context.Context, id, ref string) error
	GetTax(ctx context.Context, id string) (*Tax, error)
	FindTaxByName(ctx context.Context, name string) (*Tax, error)
	ListTaxes(ctx context.Context) ([]Tax, error)
	DeleteTax(ctx context.Context, id string) error
}
