// Package checkout orchestrates payment gateway sessions for single items and
// whole carts.
package checkout

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/gateway"
)

var (
	// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMixedCurrency is a defensive check at checkout time; AddItem should
	// have prevented mixed carts from existing at all.
	ErrMixedCurrency = errors.New("all cart items must share one currency")
	// ErrPromoNotRegistered is returned when the cart carries a discount or
	// tax that has no gateway reference yet. Dropping it would charge a total
	// different from the one shown on the order, so checkout refuses instead.
	ErrPromoNotRegistered = errors.New("promotion not registered with gateway")
)

// Config holds the redirect targets appended to checkout sessions.
type Config struct {
	// SiteURL is the base used to build success and cancel redirect URLs.
	SiteURL string
}

// Service builds gateway checkout sessions and payment intents.
type Service struct {
	items item.Repository
	gw    gateway.Gateway
	cfg   Config
}

// NewService creates a checkout Service.
func NewService(items item.Repository, gw gateway.Gateway, cfg Config) *Service {
	return &Service{items: items, gw: gw, cfg: cfg}
}

// BuyItem creates a single-item checkout session, bypassing the cart.
// It returns the gateway session id for client-side redirect.
func (s *Service) BuyItem(ctx context.Context, itemID string) (string, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return "", err
	}

	return s.gw.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		Currency: it.Currency,
		LineItems: []gateway.LineItem{{
			Currency:    it.Currency,
			UnitAmount:  it.Price,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    1,
		}},
		SuccessURL: s.cfg.SiteURL + "/success/",
		CancelURL:  s.cfg.SiteURL + "/cancel/",
	})
}

// BuyCart creates a checkout session for the whole cart. The cart's tax rate
// is attached to every line; the discount coupon is attached at the session
// level. Attached promotions must already carry their gateway references:
// the session total has to match the total the order endpoint displayed.
func (s *Service) BuyCart(ctx context.Context, c *cart.Cart) (string, error) {
	if c.Empty() {
		return "", ErrEmptyCart
	}

	currency := c.Currency()
	for _, l := range c.Lines {
		if l.Item.Currency != currency {
			return "", ErrMixedCurrency
		}
	}

	if c.Discount != nil && !c.Discount.Registered() {
		return "", errors.Wrapf(ErrPromoNotRegistered, "discount %q", c.Discount.Name)
	}
	if c.Tax != nil && !c.Tax.Registered() {
		return "", errors.Wrapf(ErrPromoNotRegistered, "tax %q", c.Tax.Name)
	}

	var taxRefs []string
	if c.Tax != nil {
		taxRefs = []string{c.Tax.TaxRateRef}
	}

	lines := make([]gateway.LineItem, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = gateway.LineItem{
			Currency:    currency,
			UnitAmount:  l.Item.Price,
			Name:        l.Item.Name,
			Description: l.Item.Description,
			Quantity:    l.Quantity,
			TaxRateRefs: taxRefs,
		}
	}

	params := gateway.CheckoutParams{
		Currency:   currency,
		LineItems:  lines,
		SuccessURL: s.cfg.SiteURL + "/success/",
		CancelURL:  s.cfg.SiteURL + "/cancel/",
	}
	if c.Discount != nil {
		params.CouponRef = c.Discount.CouponRef
	}

	return s.gw.CreateCheckoutSession(ctx, params)
}

// IntentResult is the client-side material for a payment-intent flow.
type IntentResult struct {
	ClientSecret string
	PublicKey    string
}

// BuyItemIntent creates a payment intent for a single item and returns the
// client secret together with the publishable key for the item's currency.
func (s *Service) BuyItemIntent(ctx context.Context, itemID string) (*IntentResult, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	secret, err := s.gw.CreatePaymentIntent(ctx, it.Currency, it.Price)
	if err != nil {
		return nil, err
	}
	return &IntentResult{
		ClientSecret: secret,
		PublicKey:    s.gw.PublicKey(it.Currency),
	}, nil
}
