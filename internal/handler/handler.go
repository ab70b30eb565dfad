// Package handler exposes the storefront over HTTP: the public catalog, the
// session-bound cart, checkout, and the API-key-protected management
// endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/checkout"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/session"
)

// sessionCookie names the cookie carrying the signed session token.
const sessionCookie = "storefront_session"

// CartService is the slice of the cart domain the handlers use.
type CartService interface {
	GetOrCreate(ctx context.Context, token string) (*cart.Cart, error)
	AddItem(ctx context.Context, c *cart.Cart, it *item.Item, qty int) error
	Clear(ctx context.Context, token string) (bool, error)
	AttachDiscount(ctx context.Context, c *cart.Cart, d *promo.Discount) error
	AttachTax(ctx context.Context, c *cart.Cart, t *promo.Tax) error
}

// CheckoutService is the slice of the checkout domain the handlers use.
type CheckoutService interface {
	BuyItem(ctx context.Context, itemID string) (string, error)
	BuyCart(ctx context.Context, c *cart.Cart) (string, error)
	BuyItemIntent(ctx context.Context, itemID string) (*checkout.IntentResult, error)
}

// PromoService is the management surface of the promotions store.
type PromoService interface {
	CreateDiscount(ctx context.Context, p promo.CreateDiscountParams) (*promo.Discount, error)
	RegisterDiscount(ctx context.Context, id string) (*promo.Discount, error)
	UpdateDiscount(ctx context.Context, id string, p promo.CreateDiscountParams) error
	DeleteDiscount(ctx context.Context, id string) error
	CreateTax(ctx context.Context, p promo.CreateTaxParams) (*promo.Tax, error)
	RegisterTax(ctx context.Context, id string) (*promo.Tax, error)
	UpdateTax(ctx context.Context, id string, p promo.CreateTaxParams) error
	DeleteTax(ctx context.Context, id string) error
}

// CookieConfig controls the session cookie's browser-side attributes.
type CookieConfig struct {
	// Secure restricts the cookie to HTTPS. Off only for local development.
	Secure bool
	// TTL caps the cookie lifetime; it should match the server-side session
	// binding's expiry so both sides forget the cart together.
	TTL time.Duration
}

// PublicKeys resolves the publishable gateway key shown to browsers.
type PublicKeys interface {
	PublicKey(currency money.Currency) string
}

// Handler holds every dependency the HTTP surface needs.
type Handler struct {
	items     item.Repository
	promos    promo.Repository
	carts     CartService
	checkouts CheckoutService
	promoSvc  PromoService
	keys      PublicKeys
	signer    *session.Signer
	cookie    CookieConfig
}

// New constructs a Handler.
func New(
	items item.Repository,
	promos promo.Repository,
	carts CartService,
	checkouts CheckoutService,
	promoSvc PromoService,
	keys PublicKeys,
	signer *session.Signer,
	cookie CookieConfig,
) *Handler {
	return &Handler{
		items:     items,
		promos:    promos,
		carts:     carts,
		checkouts: checkouts,
		promoSvc:  promoSvc,
		keys:      keys,
		signer:    signer,
		cookie:    cookie,
	}
}

// Router builds the chi router for the full HTTP surface. adminAuth guards
// the management subtree.
func (h *Handler) Router(adminAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListItems)
	r.Get("/item/{id}", h.GetItem)
	r.Get("/buy/{id}", h.BuyItem)
	r.Get("/buy_intent/{item_id}", h.BuyItemIntent)

	r.Get("/order", h.GetOrder)
	r.Post("/add_to_order/{item_id}", h.AddToOrder)
	r.Post("/clear_order", h.ClearOrder)
	r.Get("/buy_order", h.BuyOrder)
	r.Post("/add_discount", h.AddDiscount)
	r.Post("/add_tax", h.AddTax)

	r.Route("/admin", func(r chi.Router) {
		r.Use(adminAuth)

		r.Get("/items", h.AdminListItems)
		r.Post("/items", h.AdminCreateItem)
		r.Delete("/items/{id}", h.AdminDeleteItem)

		r.Get("/discounts", h.AdminListDiscounts)
		r.Post("/discounts", h.AdminCreateDiscount)
		r.Post("/discounts/{id}/register", h.AdminRegisterDiscount)
		r.Put("/discounts/{id}", h.AdminUpdateDiscount)
		r.Delete("/discounts/{id}", h.AdminDeleteDiscount)

		r.Get("/taxes", h.AdminListTaxes)
		r.Post("/taxes", h.AdminCreateTax)
		r.Post("/taxes/{id}/register", h.AdminRegisterTax)
		r.Put("/taxes/{id}", h.AdminUpdateTax)
		r.Delete("/taxes/{id}", h.AdminDeleteTax)
	})

	return r
}

// sessionToken returns the request's verified session token, minting and
// setting a fresh one when the cookie is absent or tampered with.
func (h *Handler) sessionToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && h.signer.Verify(c.Value) {
		return c.Value
	}

	token := h.signer.Issue()
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookie.TTL > 0 {
		c.MaxAge = int(h.cookie.TTL.Seconds())
	}
	http.SetCookie(w, c)
	return token
}
