// Package cart holds the session-bound shopping cart and its pricing rules.
package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
)

// ErrNotFound is returned when a cart id has no backing row.
var ErrNotFound = errors.New("cart not found")

// CurrencyMismatchError signals an attempt to mix currencies within one cart,
// or to attach a promotion denominated in a different currency.
type CurrencyMismatchError struct {
	Cart  money.Currency
	Other money.Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cart is in %s, cannot use %s", e.Cart, e.Other)
}

// Line is one (item, quantity) entry. Lines are unique per item; adding the
// same item again increments the quantity.
type Line struct {
	Item     item.Item
	Quantity int
}

// Cart is a mutable collection of lines with at most one discount and one tax.
// It lives for the duration of a browser session.
type Cart struct {
	ID       string
	Lines    []Line
	Discount *promo.Discount
	Tax      *promo.Tax
}

// Currency is the currency of the first line. An empty cart defaults to USD;
// this matches the behaviour the storefront has always had when attaching a
// promotion before any item.
func (c *Cart) Currency() money.Currency {
	if len(c.Lines) == 0 {
		return money.USD
	}
	return c.Lines[0].Item.Currency
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Repository defines persistence operations for carts.
//
// Concurrent requests from one session may interleave on UpsertLine; carts are
// single-user and last-write-wins is accepted, so no row locking is done.
type Repository interface {
	Create(ctx context.Context, id string) error
	// Get returns the cart with its lines, items, and attached promotions.
	Get(ctx context.Context, id string) (*Cart, error)
	// UpsertLine inserts a line or increments the existing quantity by qty.
	UpsertLine(ctx context.Context, cartID, itemID string, qty int) error
	SetDiscount(ctx context.Context, cartID, discountID string) error
	SetTax(ctx context.Context, cartID, taxID string) error
	// Delete removes the cart and cascades to its lines.
	Delete(ctx context.Context, id string) error
}
