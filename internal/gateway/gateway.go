// Package gateway defines the capability interface the storefront needs from
// an external payment provider. Any conforming client satisfies the domain
// services; the stripegw subpackage implements it against Stripe.
package gateway

import (
	"context"
	"fmt"

	"github.com/StpaPSBB/storefront/internal/domain/money"
)

// Error carries a payment provider failure. The message is surfaced to the
// caller verbatim.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("payment gateway: %s", e.Msg)
}

// LineItem is one purchasable row of a checkout session.
type LineItem struct {
	Currency    money.Currency
	UnitAmount  int64
	Name        string
	Description string
	Quantity    int
	// TaxRateRefs are gateway tax-rate ids applied to this line.
	TaxRateRefs []string
}

// CheckoutParams describes a redirectable checkout session.
type CheckoutParams struct {
	Currency  money.Currency
	LineItems []LineItem
	// CouponRef is an optional gateway coupon id applied at the session level.
	CouponRef  string
	SuccessURL string
	CancelURL  string
}

// CouponParams mirrors the fields of a percentage coupon.
type CouponParams struct {
	Name       string
	PercentOff int
	// Duration is forwarded as-is: once, repeating, or forever.
	Duration string
	Currency money.Currency
}

// TaxRateParams mirrors the fields of an exclusive tax rate.
type TaxRateParams struct {
	Name       string
	Percentage int
	Currency   money.Currency
}

// Gateway is the full payment provider surface used by the storefront.
type Gateway interface {
	// CreateCheckoutSession returns an opaque session id for client redirect.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)

	// CreatePaymentIntent returns a client secret for on-page confirmation.
	CreatePaymentIntent(ctx context.Context, currency money.Currency, amount int64) (string, error)

	// CreateCoupon registers a coupon and returns its gateway reference.
	CreateCoupon(ctx context.Context, p CouponParams) (string, error)

	// DeleteCoupon removes a previously registered coupon.
	DeleteCoupon(ctx context.Context, currency money.Currency, ref string) error

	// CreateTaxRate registers a tax rate and returns its gateway reference.
	CreateTaxRate(ctx context.Context, p TaxRateParams) (string, error)

	// DeactivateTaxRate disables a tax rate. Tax rates cannot be deleted.
	DeactivateTaxRate(ctx context.Context, currency money.Currency, ref string) error

	// PublicKey returns the publishable key for the given currency's account.
	PublicKey(currency money.Currency) string
}
