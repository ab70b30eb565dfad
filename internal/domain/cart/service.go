package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
)

// SessionStore maps opaque session tokens to cart ids.
type SessionStore interface {
	// GetCartID returns the cart id bound to the token, or "" when none.
	GetCartID(ctx context.Context, token string) (string, error)
	SetCartID(ctx context.Context, token, cartID string) error
	DeleteCartID(ctx context.Context, token string) error
}

// Service implements the cart operations on top of a Repository and the
// session binding.
type Service struct {
	repo     Repository
	sessions SessionStore
}

// NewService creates a cart Service.
func NewService(repo Repository, sessions SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// GetOrCreate returns the session's cart, creating an empty one and binding it
// to the token when absent. A stale session pointing at a deleted cart is
// treated the same as no session.
func (s *Service) GetOrCreate(ctx context.Context, token string) (*Cart, error) {
	cartID, err := s.sessions.GetCartID(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "session lookup")
	}
	if cartID != "" {
		c, err := s.repo.Get(ctx, cartID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(err, "get cart")
		}
	}

	id := uuid.New().String()
	if err := s.repo.Create(ctx, id); err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	if err := s.sessions.SetCartID(ctx, token, id); err != nil {
		return nil, errors.Wrap(err, "bind session")
	}
	return &Cart{ID: id}, nil
}

// AddItem adds qty of it to the cart, or increments the existing line. It
// fails with CurrencyMismatchError when the cart already holds lines in a
// different currency, leaving the cart unchanged.
func (s *Service) AddItem(ctx context.Context, c *Cart, it *item.Item, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be at least 1")
	}
	if !c.Empty() && c.Currency() != it.Currency {
		return &CurrencyMismatchError{Cart: c.Currency(), Other: it.Currency}
	}
	if err := s.repo.UpsertLine(ctx, c.ID, it.ID, qty); err != nil {
		return errors.Wrap(err, "upsert line")
	}
	return nil
}

// Clear deletes the session's cart and its lines. Clearing a session with no
// cart is not an error; the returned flag tells the caller whether anything
// was removed.
func (s *Service) Clear(ctx context.Context, token string) (bool, error) {
	cartID, err := s.sessions.GetCartID(ctx, token)
	if err != nil {
		return false, errors.Wrap(err, "session lookup")
	}
	if cartID == "" {
		return false, nil
	}
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return false, errors.Wrap(err, "delete cart")
	}
	if err := s.sessions.DeleteCartID(ctx, token); err != nil {
		return false, errors.Wrap(err, "unbind session")
	}
	return true, nil
}

// AttachDiscount replaces the cart's discount. The discount currency must
// match the cart currency (USD for an empty cart).
func (s *Service) AttachDiscount(ctx context.Context, c *Cart, d *promo.Discount) error {
	if d.Currency != c.Currency() {
		return &CurrencyMismatchError{Cart: c.Currency(), Other: d.Currency}
	}
	if err := s.repo.SetDiscount(ctx, c.ID, d.ID); err != nil {
		return errors.Wrap(err, "set discount")
	}
	c.Discount = d
	return nil
}

// AttachTax replaces the cart's tax, with the same currency rule as
// AttachDiscount.
func (s *Service) AttachTax(ctx context.Context, c *Cart, t *promo.Tax) error {
	if t.Currency != c.Currency() {
		return &CurrencyMismatchError{Cart: c.Currency(), Other: t.Currency}
	}
	if err := s.repo.SetTax(ctx, c.ID, t.ID); err != nil {
		return errors.Wrap(err, "set tax")
	}
	c.Tax = t
	return nil
}
