package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// LineItem is one purchasable unit presented on the hosted payment page.
type LineItem struct {
	Name       string
	ImageURL   string
	UnitAmount int64 // cents
}

// Session is the subset of a payment session the finalizer needs.
type Session struct {
	ID            string
	Paid          bool
	AmountTotal   decimal.Decimal
	CustomerEmail string
}

// Provider creates and verifies hosted payment sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, items []LineItem, customerEmail, draftID string) (id, url string, err error)
	VerifySession(ctx context.Context, sessionID string) (*Session, error)
}

// StripeProvider implements Provider on Stripe Checkout. Every call
// runs under the configured timeout so a stalled gateway surfaces as
// an error instead of holding the request open.
type StripeProvider struct {
	successURL string
	cancelURL  string
	timeout    time.Duration
}

func NewStripeProvider(secretKey, successURL, cancelURL string, timeout time.Duration) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		successURL: successURL,
		cancelURL:  cancelURL,
		timeout:    timeout,
	}
}

func (p *StripeProvider) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, items []LineItem, customerEmail, draftID string) (string, string, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		li := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(1),
		}
		if item.ImageURL != "" {
			li.PriceData.ProductData.Images = []*string{stripe.String(item.ImageURL)}
		}
		lineItems = append(lineItems, li)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(customerEmail),
		SuccessURL:    stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("order_draft_id", draftID)

	s, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe checkout session create failed: %w", err)
	}
	return s.ID, s.URL, nil
}

func (p *StripeProvider) VerifySession(ctx context.Context, sessionID string) (*Session, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session retrieve failed: %w", err)
	}

	email := s.CustomerEmail
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		email = s.CustomerDetails.Email
	}

	return &Session{
		ID:            s.ID,
		Paid:          s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   decimal.NewFromInt(s.AmountTotal).Div(decimal.NewFromInt(100)),
		CustomerEmail: email,
	}, nil
}
