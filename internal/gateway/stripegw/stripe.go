// Package stripegw implements gateway.Gateway against the Stripe API using
// per-currency account credentials.
package stripegw

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/gateway"
)

// Keys is one publishable/secret credential pair.
type Keys struct {
	Public string
	Secret string
}

// Config maps each supported currency to its Stripe account keys.
type Config map[money.Currency]Keys

// Gateway routes every call to the Stripe client for the requested currency.
type Gateway struct {
	clients map[money.Currency]*client.API
	public  map[money.Currency]string
}

var _ gateway.Gateway = (*Gateway)(nil)

// New builds a Gateway from per-currency credentials. Every configured
// currency needs a secret key; the publishable key may be empty for
// server-only flows.
func New(cfg Config) (*Gateway, error) {
	if len(cfg) == 0 {
		return nil, errors.New("no gateway credentials configured")
	}

	g := &Gateway{
		clients: make(map[money.Currency]*client.API, len(cfg)),
		public:  make(map[money.Currency]string, len(cfg)),
	}
	for currency, keys := range cfg {
		if keys.Secret == "" {
			return nil, errors.Errorf("missing secret key for %s", currency)
		}
		sc := &client.API{}
		sc.Init(keys.Secret, nil)
		g.clients[currency] = sc
		g.public[currency] = keys.Public
	}
	return g, nil
}

func (g *Gateway) api(currency money.Currency) (*client.API, error) {
	sc, ok := g.clients[currency]
	if !ok {
		return nil, &gateway.Error{Msg: "no account configured for currency " + currency.String()}
	}
	return sc, nil
}

// CreateCheckoutSession builds a card checkout session from the given line
// items and returns its id.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, p gateway.CheckoutParams) (string, error) {
	sc, err := g.api(p.Currency)
	if err != nil {
		return "", err
	}

	lines := make([]*stripe.CheckoutSessionLineItemParams, len(p.LineItems))
	for i, li := range p.LineItems {
		line := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(li.Currency.String()),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(li.Name),
					Description: stripe.String(li.Description),
				},
			},
			Quantity: stripe.Int64(int64(li.Quantity)),
		}
		if len(li.TaxRateRefs) > 0 {
			line.TaxRates = stripe.StringSlice(li.TaxRateRefs)
		}
		lines[i] = line
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lines,
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.CouponRef != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(p.CouponRef)},
		}
	}

	sess, err := sc.CheckoutSessions.New(params)
	if err != nil {
		return "", wrapErr(err)
	}
	return sess.ID, nil
}

// CreatePaymentIntent creates an automatic-payment-methods intent and returns
// its client secret.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, currency money.Currency, amount int64) (string, error) {
	sc, err := g.api(currency)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency.String()),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := sc.PaymentIntents.New(params)
	if err != nil {
		return "", wrapErr(err)
	}
	return pi.ClientSecret, nil
}

// CreateCoupon registers a percentage coupon and returns its id.
func (g *Gateway) CreateCoupon(ctx context.Context, p gateway.CouponParams) (string, error) {
	sc, err := g.api(p.Currency)
	if err != nil {
		return "", err
	}

	params := &stripe.CouponParams{
		Name:       stripe.String(p.Name),
		PercentOff: stripe.Float64(float64(p.PercentOff)),
		Duration:   stripe.String(p.Duration),
		Currency:   stripe.String(p.Currency.String()),
	}
	params.Context = ctx

	c, err := sc.Coupons.New(params)
	if err != nil {
		return "", wrapErr(err)
	}
	return c.ID, nil
}

// DeleteCoupon removes a coupon from the gateway.
func (g *Gateway) DeleteCoupon(ctx context.Context, currency money.Currency, ref string) error {
	sc, err := g.api(currency)
	if err != nil {
		return err
	}

	params := &stripe.CouponParams{}
	params.Context = ctx
	if _, err := sc.Coupons.Del(ref, params); err != nil {
		return wrapErr(err)
	}
	return nil
}

// CreateTaxRate registers an exclusive tax rate and returns its id.
func (g *Gateway) CreateTaxRate(ctx context.Context, p gateway.TaxRateParams) (string, error) {
	sc, err := g.api(p.Currency)
	if err != nil {
		return "", err
	}

	params := &stripe.TaxRateParams{
		DisplayName: stripe.String(p.Name),
		Percentage:  stripe.Float64(float64(p.Percentage)),
		Inclusive:   stripe.Bool(false),
	}
	params.Context = ctx

	tr, err := sc.TaxRates.New(params)
	if err != nil {
		return "", wrapErr(err)
	}
	return tr.ID, nil
}

// DeactivateTaxRate marks a tax rate inactive. Stripe tax rates cannot be
// deleted.
func (g *Gateway) DeactivateTaxRate(ctx context.Context, currency money.Currency, ref string) error {
	sc, err := g.api(currency)
	if err != nil {
		return err
	}

	params := &stripe.TaxRateParams{Active: stripe.Bool(false)}
	params.Context = ctx
	if _, err := sc.TaxRates.Update(ref, params); err != nil {
		return wrapErr(err)
	}
	return nil
}

// PublicKey returns the publishable key for the currency, or "" when the
// currency is not configured.
func (g *Gateway) PublicKey(currency money.Currency) string {
	return g.public[currency]
}

// wrapErr converts a Stripe client error into a gateway.Error carrying the
// provider message verbatim.
func wrapErr(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		msg := sErr.Msg
		if msg == "" {
			msg = sErr.Error()
		}
		return &gateway.Error{Msg: msg}
	}
	return &gateway.Error{Msg: err.Error()}
}
