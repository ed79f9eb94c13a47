package client

import (
	"context"
	"fmt"
	"stripe-checkout-demo/internal/config"

	"github.com/stripe/stripe-go/v81"
	stripeapi "github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

type StripeClient interface {
	// CreatePaymentIntent returns the intent whose client secret the
	// embedded payment element is initialized with.
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)

	// CreateCheckoutSession returns the hosted checkout session the buy
	// button redirects to.
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

	GetCoupon(ctx context.Context, couponID string) (*stripe.Coupon, error)
	GetTaxRate(ctx context.Context, taxRateID string) (*stripe.TaxRate, error)
	CreateCoupon(ctx context.Context, name string, percentOff float64) (*stripe.Coupon, error)
	CreateTaxRate(ctx context.Context, name string, percentage float64) (*stripe.TaxRate, error)

	// ConstructEvent verifies the Stripe-Signature header and parses the
	// webhook payload.
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

type stripeClientImpl struct {
	api           *stripeapi.API
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) StripeClient {
	api := &stripeapi.API{}
	api.Init(cfg.SecretKey, nil)

	return &stripeClientImpl{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return pi, nil
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return s, nil
}

func (c *stripeClientImpl) GetCoupon(ctx context.Context, couponID string) (*stripe.Coupon, error) {
	params := &stripe.CouponParams{}
	params.Context = ctx

	coupon, err := c.api.Coupons.Get(couponID, params)
	if err != nil {
		return nil, fmt.Errorf("get coupon %s: %w", couponID, err)
	}
	return coupon, nil
}

func (c *stripeClientImpl) GetTaxRate(ctx context.Context, taxRateID string) (*stripe.TaxRate, error) {
	params := &stripe.TaxRateParams{}
	params.Context = ctx

	rate, err := c.api.TaxRates.Get(taxRateID, params)
	if err != nil {
		return nil, fmt.Errorf("get tax rate %s: %w", taxRateID, err)
	}
	return rate, nil
}

func (c *stripeClientImpl) CreateCoupon(ctx context.Context, name string, percentOff float64) (*stripe.Coupon, error) {
	params := &stripe.CouponParams{
		Name:       stripe.String(name),
		PercentOff: stripe.Float64(percentOff),
		Duration:   stripe.String(string(stripe.CouponDurationForever)),
	}
	params.Context = ctx

	coupon, err := c.api.Coupons.New(params)
	if err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (c *stripeClientImpl) CreateTaxRate(ctx context.Context, name string, percentage float64) (*stripe.TaxRate, error) {
	params := &stripe.TaxRateParams{
		DisplayName: stripe.String(name),
		Percentage:  stripe.Float64(percentage),
		Inclusive:   stripe.Bool(false),
	}
	params.Context = ctx

	rate, err := c.api.TaxRates.New(params)
	if err != nil {
		return nil, fmt.Errorf("create tax rate: %w", err)
	}
	return rate, nil
}

func (c *stripeClientImpl) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, c.webhookSecret)
}
