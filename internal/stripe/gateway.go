// Package stripe wraps the Stripe checkout API behind the gateway interface
// the payment service consumes.
package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Gateway opens hosted checkout sessions.
type Gateway struct {
	currency   string
	successURL string
	cancelURL  string
}

// Config holds the gateway settings.
type Config struct {
	APIKey     string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// NewGateway configures the Stripe client and returns a gateway. The success
// and cancel URLs receive the session ID via the {CHECKOUT_SESSION_ID}
// placeholder so the callback endpoints can locate the payment.
func NewGateway(cfg Config) *Gateway {
	stripe.Key = cfg.APIKey
	return &Gateway{
		currency:   cfg.Currency,
		successURL: withSessionPlaceholder(cfg.SuccessURL),
		cancelURL:  withSessionPlaceholder(cfg.CancelURL),
	}
}

func withSessionPlaceholder(url string) string {
	if strings.Contains(url, "{CHECKOUT_SESSION_ID}") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "session_id={CHECKOUT_SESSION_ID}"
}

// OpenSession opens a single-item checkout session for the given amount and
// returns the session ID and hosted payment page URL.
func (g *Gateway) OpenSession(ctx context.Context, amountCents int64, description string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("opening checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}
