package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/gateway"
)

// --- Mock implementations ---

type mockItemRepo struct {
	byID map[string]*item.Item
}

func newItemRepo(items ...item.Item) *mockItemRepo {
	byID := make(map[string]*item.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return &mockItemRepo{byID: byID}
}

func (m *mockItemRepo) List(_ context.Context) ([]item.Item, error) { return nil, nil }

func (m *mockItemRepo) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (m *mockItemRepo) Create(_ context.Context, _ *item.Item) error { return nil }
func (m *mockItemRepo) Delete(_ context.Context, _ string) error    { return nil }

type mockGateway struct {
	lastCheckout *gateway.CheckoutParams
	sessionID    string
	clientSecret string
	intentAmount int64
	err          error
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, p gateway.CheckoutParams) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastCheckout = &p
	return m.sessionID, nil
}

func (m *mockGateway) CreatePaymentIntent(_ context.Context, _ money.Currency, amount int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.intentAmount = amount
	return m.clientSecret, nil
}

func (m *mockGateway) CreateCoupon(_ context.Context, _ gateway.CouponParams) (string, error) {
	return "", nil
}

func (m *mockGateway) DeleteCoupon(_ context.Context, _ money.Currency, _ string) error {
	return nil
}

func (m *mockGateway) CreateTaxRate(_ context.Context, _ gateway.TaxRateParams) (string, error) {
	return "", nil
}

func (m *mockGateway) DeactivateTaxRate(_ context.Context, _ money.Currency, _ string) error {
	return nil
}

func (m *mockGateway) PublicKey(_ money.Currency) string { return "pk_test" }

// --- Helpers ---

func usdItem(id string, price int64) item.Item {
	return item.Item{ID: id, Name: id, Description: "test", Price: price, Currency: money.USD}
}

// --- Tests ---

func TestBuyItem_CreatesSingleLineSession(t *testing.T) {
	gw := &mockGateway{sessionID: "cs_1"}
	svc := NewService(newItemRepo(usdItem("i1", 1800)), gw, Config{SiteURL: "https://shop.test"})

	id, err := svc.BuyItem(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", id)

	require.NotNil(t, gw.lastCheckout)
	require.Len(t, gw.lastCheckout.LineItems, 1)
	li := gw.lastCheckout.LineItems[0]
	assert.EqualValues(t, 1800, li.UnitAmount)
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, "https://shop.test/success/", gw.lastCheckout.SuccessURL)
	assert.Equal(t, "https://shop.test/cancel/", gw.lastCheckout.CancelURL)
}

func TestBuyItem_UnknownItem(t *testing.T) {
	svc := NewService(newItemRepo(), &mockGateway{}, Config{})

	_, err := svc.BuyItem(context.Background(), "missing")
	require.ErrorIs(t, err, item.ErrNotFound)
}

func TestBuyCart_EmptyCart(t *testing.T) {
	svc := NewService(newItemRepo(), &mockGateway{}, Config{})

	_, err := svc.BuyCart(context.Background(), &cart.Cart{ID: "c1"})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuyCart_MixedCurrency(t *testing.T) {
	svc := NewService(newItemRepo(), &mockGateway{}, Config{})

	c := &cart.Cart{ID: "c1", Lines: []cart.Line{
		{Item: usdItem("i1", 100), Quantity: 1},
		{Item: item.Item{ID: "i2", Price: 200, Currency: money.EUR}, Quantity: 1},
	}}

	_, err := svc.BuyCart(context.Background(), c)
	require.ErrorIs(t, err, ErrMixedCurrency)
}

func TestBuyCart_BuildsLinesWithPromotions(t *testing.T) {
	gw := &mockGateway{sessionID: "cs_2"}
	svc := NewService(newItemRepo(), gw, Config{SiteURL: "https://shop.test"})

	c := &cart.Cart{
		ID: "c1",
		Lines: []cart.Line{
			{Item: usdItem("i1", 1000), Quantity: 2},
			{Item: usdItem("i2", 500), Quantity: 1},
		},
		Discount: &promo.Discount{ID: "d1", PercentOff: 10, Currency: money.USD, CouponRef: "cpn_x"},
		Tax:      &promo.Tax{ID: "t1", Percentage: 10, Currency: money.USD, TaxRateRef: "txr_x"},
	}

	id, err := svc.BuyCart(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "cs_2", id)

	require.NotNil(t, gw.lastCheckout)
	assert.Equal(t, "cpn_x", gw.lastCheckout.CouponRef)
	require.Len(t, gw.lastCheckout.LineItems, 2)
	for _, li := range gw.lastCheckout.LineItems {
		assert.Equal(t, []string{"txr_x"}, li.TaxRateRefs)
	}
	assert.Equal(t, 2, gw.lastCheckout.LineItems[0].Quantity)
}

func TestBuyCart_UnregisteredDiscountRejected(t *testing.T) {
	gw := &mockGateway{sessionID: "cs_3"}
	svc := NewService(newItemRepo(), gw, Config{})

	// The order endpoint would show this cart at the discounted total, so
	// a session without the coupon would charge more than was displayed.
	c := &cart.Cart{
		ID:       "c1",
		Lines:    []cart.Line{{Item: usdItem("i1", 1800), Quantity: 1}},
		Discount: &promo.Discount{ID: "d1", Name: "WELCOME10", PercentOff: 10, Currency: money.USD},
	}
	assert.EqualValues(t, 1620, cart.ComputeTotal(c))

	_, err := svc.BuyCart(context.Background(), c)
	require.ErrorIs(t, err, ErrPromoNotRegistered)
	assert.Nil(t, gw.lastCheckout)
}

func TestBuyCart_UnregisteredTaxRejected(t *testing.T) {
	gw := &mockGateway{sessionID: "cs_3"}
	svc := NewService(newItemRepo(), gw, Config{})

	c := &cart.Cart{
		ID:    "c1",
		Lines: []cart.Line{{Item: usdItem("i1", 1000), Quantity: 1}},
		Tax:   &promo.Tax{ID: "t1", Name: "VAT", Percentage: 10, Currency: money.USD},
	}

	_, err := svc.BuyCart(context.Background(), c)
	require.ErrorIs(t, err, ErrPromoNotRegistered)
	assert.Nil(t, gw.lastCheckout)
}

func TestBuyCart_GatewayErrorPassthrough(t *testing.T) {
	gw := &mockGateway{err: &gateway.Error{Msg: "account disabled"}}
	svc := NewService(newItemRepo(), gw, Config{})

	c := &cart.Cart{ID: "c1", Lines: []cart.Line{{Item: usdItem("i1", 100), Quantity: 1}}}

	_, err := svc.BuyCart(context.Background(), c)

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "account disabled", gwErr.Msg)
}

func TestBuyItemIntent_ReturnsSecretAndKey(t *testing.T) {
	gw := &mockGateway{clientSecret: "pi_secret"}
	svc := NewService(newItemRepo(usdItem("i1", 2400)), gw, Config{})

	res, err := svc.BuyItemIntent(context.Background(), "i1")
	require.NoError(t, err)

	assert.Equal(t, "pi_secret", res.ClientSecret)
	assert.Equal(t, "pk_test", res.PublicKey)
	assert.EqualValues(t, 2400, gw.intentAmount)
}
