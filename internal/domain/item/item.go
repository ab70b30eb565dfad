package item

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/StpaPSBB/storefront/internal/domain/money"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Item is a catalog entry available for purchase. Items are immutable once
// listed; there is no update path.
type Item struct {
	ID          string
	Name        string
	Description string
	// Price is in minor currency units (cents).
	Price    int64
	Currency money.Currency
}

// Validate checks the fields settable at creation time.
func (i Item) Validate() error {
	if i.Name == "" {
		return errors.New("item name required")
	}
	if i.Price < 0 {
		return errors.New("item price must not be negative")
	}
	if !i.Currency.Valid() {
		return errors.Wrapf(money.ErrUnknownCurrency, "%q", i.Currency)
	}
	return nil
}

// Repository defines persistence operations for the catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id string) error
}
