package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/checkout"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/gateway"
	"github.com/StpaPSBB/storefront/internal/session"
)

// --- Mock implementations ---

type fakeItems struct {
	byID map[string]*item.Item
}

func newFakeItems(items ...item.Item) *fakeItems {
	byID := make(map[string]*item.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return &fakeItems{byID: byID}
}

func (f *fakeItems) List(_ context.Context) ([]item.Item, error) {
	var out []item.Item
	for _, it := range f.byID {
		out = append(out, *it)
	}
	return out, nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := f.byID[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (f *fakeItems) Create(_ context.Context, it *item.Item) error {
	f.byID[it.ID] = it
	return nil
}

func (f *fakeItems) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return item.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePromos struct {
	discounts map[string]*promo.Discount
	taxes     map[string]*promo.Tax
}

func newFakePromos() *fakePromos {
	return &fakePromos{
		discounts: make(map[string]*promo.Discount),
		taxes:     make(map[string]*promo.Tax),
	}
}

func (f *fakePromos) CreateDiscount(_ context.Context, d *promo.Discount) error {
	f.discounts[d.ID] = d
	return nil
}

func (f *fakePromos) UpdateDiscount(_ context.Context, d *promo.Discount) error {
	f.discounts[d.ID] = d
	return nil
}

func (f *fakePromos) GetDiscount(_ context.Context, id string) (*promo.Discount, error) {
	d, ok := f.discounts[id]
	if !ok {
		return nil, promo.ErrNotFound
	}
	return d, nil
}

func (f *fakePromos) FindDiscountByName(_ context.Context, name string) (*promo.Discount, error) {
	for _, d := range f.discounts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, promo.ErrNotFound
}

func (f *fakePromos) ListDiscounts(_ context.Context) ([]promo.Discount, error) {
	var out []promo.Discount
	for _, d := range f.discounts {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakePromos) SetDiscountRef(_ context.Context, id, ref string) error {
	d, ok := f.discounts[id]
	if !ok {
		return promo.ErrNotFound
	}
	if d.Registered() {
		return promo.ErrRegistered
	}
	d.CouponRef = ref
	return nil
}

func (f *fakePromos) DeleteDiscount(_ context.Context, id string) error {
	delete(f.discounts, id)
	return nil
}

func (f *fakePromos) CreateTax(_ context.Context, t *promo.Tax) error {
	f.taxes[t.ID] = t
	return nil
}

func (f *fakePromos) UpdateTax(_ context.Context, t *promo.Tax) error {
	f.taxes[t.ID] = t
	return nil
}

func (f *fakePromos) GetTax(_ context.Context, id string) (*promo.Tax, error) {
	t, ok := f.taxes[id]
	if !ok {
		return nil, promo.ErrNotFound
	}
	return t, nil
}

func (f *fakePromos) FindTaxByName(_ context.Context, name string) (*promo.Tax, error) {
	for _, t := range f.taxes {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, promo.ErrNotFound
}

func (f *fakePromos) ListTaxes(_ context.Context) ([]promo.Tax, error) {
	var out []promo.Tax
	for _, t := range f.taxes {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakePromos) SetTaxRef(_ context.Context, id, ref string) error {
	t, ok := f.taxes[id]
	if !ok {
		return promo.ErrNotFound
	}
	if t.Registered() {
		return promo.ErrRegistered
	}
	t.TaxRateRef = ref
	return nil
}

func (f *fakePromos) DeleteTax(_ context.Context, id string) error {
	delete(f.taxes, id)
	return nil
}

// fakeCarts keeps one cart per token and applies the domain currency rules,
// enough to drive the handlers end to end without a database.
type fakeCarts struct {
	byToken map[string]*cart.Cart
	addErr  error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byToken: make(map[string]*cart.Cart)}
}

func (f *fakeCarts) GetOrCreate(_ context.Context, token string) (*cart.Cart, error) {
	if c, ok := f.byToken[token]; ok {
		return c, nil
	}
	c := &cart.Cart{ID: "cart-" + token}
	f.byToken[token] = c
	return c, nil
}

func (f *fakeCarts) AddItem(_ context.Context, c *cart.Cart, it *item.Item, qty int) error {
	if f.addErr != nil {
		return f.addErr
	}
	if !c.Empty() && c.Currency() != it.Currency {
		return &cart.CurrencyMismatchError{Cart: c.Currency(), Other: it.Currency}
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID == it.ID {
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, cart.Line{Item: *it, Quantity: qty})
	return nil
}

func (f *fakeCarts) Clear(_ context.Context, token string) (bool, error) {
	if _, ok := f.byToken[token]; !ok {
		return false, nil
	}
	delete(f.byToken, token)
	return true, nil
}

func (f *fakeCarts) AttachDiscount(_ context.Context, c *cart.Cart, d *promo.Discount) error {
	if d.Currency != c.Currency() {
		return &cart.CurrencyMismatchError{Cart: c.Currency(), Other: d.Currency}
	}
	c.Discount = d
	return nil
}

func (f *fakeCarts) AttachTax(_ context.Context, c *cart.Cart, t *promo.Tax) error {
	if t.Currency != c.Currency() {
		return &cart.CurrencyMismatchError{Cart: c.Currency(), Other: t.Currency}
	}
	c.Tax = t
	return nil
}

type fakeCheckouts struct {
	sessionID string
	intent    *checkout.IntentResult
	err       error
}

func (f *fakeCheckouts) BuyItem(_ context.Context, _ string) (string, error) {
	return f.sessionID, f.err
}

func (f *fakeCheckouts) BuyCart(_ context.Context, c *cart.Cart) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if c.Empty() {
		return "", checkout.ErrEmptyCart
	}
	if c.Discount != nil && !c.Discount.Registered() {
		return "", checkout.ErrPromoNotRegistered
	}
	if c.Tax != nil && !c.Tax.Registered() {
		return "", checkout.ErrPromoNotRegistered
	}
	return f.sessionID, nil
}

func (f *fakeCheckouts) BuyItemIntent(_ context.Context, _ string) (*checkout.IntentResult, error) {
	return f.intent, f.err
}

type fakePromoSvc struct {
	created *promo.Discount
	err     error
}

func (f *fakePromoSvc) CreateDiscount(_ context.Context, p promo.CreateDiscountParams) (*promo.Discount, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &promo.Discount{
		ID: "d-new", Name: p.Name, PercentOff: p.PercentOff,
		Duration: p.Duration, Currency: p.Currency, CouponRef: "cpn_new",
	}
	return f.created, nil
}

func (f *fakePromoSvc) RegisterDiscount(_ context.Context, id string) (*promo.Discount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &promo.Discount{
		ID: id, Name: "WELCOME10", PercentOff: 10,
		Duration: promo.DurationOnce, Currency: money.USD, CouponRef: "cpn_new",
	}, nil
}

func (f *fakePromoSvc) UpdateDiscount(_ context.Context, _ string, _ promo.CreateDiscountParams) error {
	return f.err
}

func (f *fakePromoSvc) DeleteDiscount(_ context.Context, _ string) error { return f.err }

func (f *fakePromoSvc) CreateTax(_ context.Context, p promo.CreateTaxParams) (*promo.Tax, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &promo.Tax{
		ID: "t-new", Name: p.Name, Percentage: p.Percentage,
		Currency: p.Currency, TaxRateRef: "txr_new",
	}, nil
}

func (f *fakePromoSvc) RegisterTax(_ context.Context, id string) (*promo.Tax, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &promo.Tax{
		ID: id, Name: "VAT", Percentage: 10, Currency: money.USD, TaxRateRef: "txr_new",
	}, nil
}

func (f *fakePromoSvc) UpdateTax(_ context.Context, _ string, _ promo.CreateTaxParams) error {
	return f.err
}

func (f *fakePromoSvc) DeleteTax(_ context.Context, _ string) error { return f.err }

type stubKeys struct{}

func (stubKeys) PublicKey(_ money.Currency) string { return "pk_test" }

// --- Helpers ---

type harness struct {
	items     *fakeItems
	promos    *fakePromos
	carts     *fakeCarts
	checkouts *fakeCheckouts
	promoSvc  *fakePromoSvc
	srv       http.Handler
}

func passthroughAuth(next http.Handler) http.Handler { return next }

func newHarness(items ...item.Item) *harness {
	return newHarnessWithCookie(CookieConfig{TTL: time.Hour}, items...)
}

func newHarnessWithCookie(cookie CookieConfig, items ...item.Item) *harness {
	h := &harness{
		items:     newFakeItems(items...),
		promos:    newFakePromos(),
		carts:     newFakeCarts(),
		checkouts: &fakeCheckouts{sessionID: "cs_test"},
		promoSvc:  &fakePromoSvc{},
	}
	handler := New(h.items, h.promos, h.carts, h.checkouts, h.promoSvc, stubKeys{}, session.NewSigner([]byte("test-pepper")), cookie)
	h.srv = handler.Router(passthroughAuth)
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func testItem(id string, price int64, currency money.Currency) item.Item {
	return item.Item{ID: id, Name: id, Description: "test item", Price: price, Currency: currency}
}

// --- Tests ---

func TestListItems(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	rec := h.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []itemDTO `json:"items"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "mug", resp.Items[0].ID)
	assert.EqualValues(t, 1800, resp.Items[0].Price)
	assert.Equal(t, "18.00", resp.Items[0].FullPrice)
}

func TestGetItem_NotFound(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodGet, "/item/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetItem_IncludesPublicKey(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	rec := h.do(t, http.MethodGet, "/item/mug", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Item      itemDTO `json:"item"`
		PublicKey string  `json:"public_key"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "pk_test", resp.PublicKey)
}

func TestGetOrder_SetsSessionCookie(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodGet, "/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionFrom(t, rec)
	assert.True(t, c.HttpOnly)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.False(t, c.Secure)
}

func TestSessionCookie_SecureWhenConfigured(t *testing.T) {
	h := newHarnessWithCookie(CookieConfig{Secure: true, TTL: 720 * time.Hour})

	rec := h.do(t, http.MethodGet, "/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionFrom(t, rec)
	assert.True(t, c.Secure)
	assert.Equal(t, int((720 * time.Hour).Seconds()), c.MaxAge)
}

func TestGetOrder_ReusesSession(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	require.Equal(t, http.StatusOK, first.Code)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodGet, "/order", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Order orderDTO `json:"order"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, 1, resp.Order.Items[0].Quantity)
	assert.EqualValues(t, 1800, resp.Order.Total)
	assert.Equal(t, "18.00", resp.Order.TotalFullPrice)
}

func TestAddToOrder_UnknownItemIs404(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/add_to_order/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, h.carts.byToken)
}

func TestAddToOrder_VanishedCartIs404(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.carts.addErr = cart.ErrNotFound

	rec := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "cart not found", resp.Error)
}

func TestAddToOrder_SameItemIncrementsQuantity(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)
	h.do(t, http.MethodPost, "/add_to_order/mug", nil, cookie)

	rec := h.do(t, http.MethodGet, "/order", nil, cookie)
	var resp struct {
		Order orderDTO `json:"order"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, 2, resp.Order.Items[0].Quantity)
}

func TestAddToOrder_CurrencyMismatchIs400(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD), testItem("poster", 1500, money.EUR))

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodPost, "/add_to_order/poster", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearOrder(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodPost, "/clear_order", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp messageResponse
	decode(t, rec, &resp)
	assert.Equal(t, "order cleared", resp.Message)
}

func TestClearOrder_NoOrderYet(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/clear_order", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp messageResponse
	decode(t, rec, &resp)
	assert.Equal(t, "you have no order yet", resp.Message)
}

func TestAddDiscount_UnknownNameIs404(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/add_discount", map[string]string{"discount_name": "NOPE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddDiscount_MissingFieldIs400(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/add_discount", map[string]string{"other": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddDiscount_AttachesToOrder(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.promos.discounts["d1"] = &promo.Discount{
		ID: "d1", Name: "SALE", PercentOff: 10,
		Duration: promo.DurationOnce, Currency: money.USD, CouponRef: "cpn_1",
	}

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodPost, "/add_discount", map[string]string{"discount_name": "SALE"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	order := h.do(t, http.MethodGet, "/order", nil, cookie)
	var resp struct {
		Order orderDTO `json:"order"`
	}
	decode(t, order, &resp)
	require.NotNil(t, resp.Order.Discount)
	assert.Equal(t, "SALE", resp.Order.Discount.Name)
	assert.EqualValues(t, 1620, resp.Order.Total)
}

func TestAddDiscount_CurrencyMismatchIs400(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.promos.discounts["d1"] = &promo.Discount{
		ID: "d1", Name: "EUROSALE", PercentOff: 10,
		Duration: promo.DurationOnce, Currency: money.EUR,
	}

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodPost, "/add_discount", map[string]string{"discount_name": "EUROSALE"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddTax_AttachesToOrder(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.promos.taxes["t1"] = &promo.Tax{
		ID: "t1", Name: "VAT", Percentage: 10, Currency: money.USD, TaxRateRef: "txr_1",
	}

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodPost, "/add_tax", map[string]string{"tax_name": "VAT"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	order := h.do(t, http.MethodGet, "/order", nil, cookie)
	var resp struct {
		Order orderDTO `json:"order"`
	}
	decode(t, order, &resp)
	require.NotNil(t, resp.Order.Tax)
	assert.EqualValues(t, 1980, resp.Order.Total)
}

func TestBuyOrder_EmptyCartIs400(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodGet, "/buy_order", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyOrder_ReturnsSessionID(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	rec := h.do(t, http.MethodGet, "/buy_order", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "cs_test", resp.ID)
}

func TestBuyOrder_UnregisteredDiscountIs400(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.promos.discounts["d1"] = &promo.Discount{
		ID: "d1", Name: "WELCOME10", PercentOff: 10,
		Duration: promo.DurationOnce, Currency: money.USD,
	}

	first := h.do(t, http.MethodPost, "/add_to_order/mug", nil)
	cookie := sessionFrom(t, first)

	// The discount attaches and shows up in the displayed total, but the
	// order cannot be paid until the coupon exists on the gateway.
	rec := h.do(t, http.MethodPost, "/add_discount", map[string]string{"discount_name": "WELCOME10"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/buy_order", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyItem_GatewayErrorIs500Verbatim(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.checkouts.err = &gateway.Error{Msg: "account disabled"}

	rec := h.do(t, http.MethodGet, "/buy/mug", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "account disabled", resp.Error)
}

func TestBuyItemIntent(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))
	h.checkouts.intent = &checkout.IntentResult{ClientSecret: "pi_secret", PublicKey: "pk_test"}

	rec := h.do(t, http.MethodGet, "/buy_intent/mug", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ClientSecret string `json:"clientSecret"`
		PublicKey    string `json:"publicKey"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Equal(t, "pk_test", resp.PublicKey)
}

func TestAdminCreateDiscount(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/admin/discounts", upsertDiscountRequest{
		Name:       "SUMMER",
		PercentOff: 15,
		Duration:   "once",
		Currency:   "usd",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp discountDTO
	decode(t, rec, &resp)
	assert.Equal(t, "SUMMER", resp.Name)
	assert.Equal(t, "cpn_new", resp.CouponRef)
}

func TestAdminRegisterDiscount(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/admin/discounts/d1/register", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp discountDTO
	decode(t, rec, &resp)
	assert.Equal(t, "d1", resp.ID)
	assert.Equal(t, "cpn_new", resp.CouponRef)
}

func TestAdminRegisterDiscount_AlreadyRegisteredIs409(t *testing.T) {
	h := newHarness()
	h.promoSvc.err = promo.ErrRegistered

	rec := h.do(t, http.MethodPost, "/admin/discounts/d1/register", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminRegisterTax(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/admin/taxes/t1/register", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp taxDTO
	decode(t, rec, &resp)
	assert.Equal(t, "txr_new", resp.TaxRateRef)
}

func TestAdminUpdateDiscount_RegisteredIs409(t *testing.T) {
	h := newHarness()
	h.promoSvc.err = promo.ErrRegistered

	rec := h.do(t, http.MethodPut, "/admin/discounts/d1", upsertDiscountRequest{
		Name:       "SUMMER",
		PercentOff: 50,
		Currency:   "usd",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminCreateItem_InvalidCurrencyIs400(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodPost, "/admin/items", createItemRequest{
		Name:     "Mug",
		Price:    1800,
		Currency: "gbp",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteItem(t *testing.T) {
	h := newHarness(testItem("mug", 1800, money.USD))

	rec := h.do(t, http.MethodDelete, "/admin/items/mug", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodDelete, "/admin/items/mug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
