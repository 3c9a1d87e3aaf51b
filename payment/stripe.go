package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// providerTimeout bounds every call to Stripe so a slow provider surfaces a
// retryable failure instead of hanging the request.
const providerTimeout = 15 * time.Second

// StripeProvider implements Provider against Stripe Checkout. Calls go
// through a circuit breaker so a degraded Stripe fails fast instead of
// piling up blocked checkouts.
type StripeProvider struct {
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	logger        *slog.Logger
}

// NewStripeProvider configures the global Stripe client and wraps it in a
// circuit breaker.
func NewStripeProvider(apiKey, webhookSecret string, logger *slog.Logger) *StripeProvider {
	stripe.Key = apiKey
	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:    "stripe",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment provider breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &StripeProvider{
		webhookSecret: webhookSecret,
		breaker:       breaker,
		logger:        logger,
	}
}

// CreateSession opens a Stripe Checkout session for the payable amount.
func (p *StripeProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(toCents(params.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order total"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	sessionParams.Context = ctx
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	created, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return session.New(sessionParams)
	})
	if err != nil {
		return nil, p.wrapProviderErr("creating checkout session", err)
	}
	return &Session{ID: created.ID, URL: created.URL}, nil
}

// GetStatus polls Stripe for a session's current status.
func (p *StripeProvider) GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	got, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return session.Get(sessionID, getParams)
	})
	if err != nil {
		return nil, p.wrapProviderErr("fetching checkout session", err)
	}
	return &SessionStatus{
		Status:        string(got.Status),
		PaymentStatus: string(got.PaymentStatus),
		AmountTotal:   fromCents(got.AmountTotal),
		Currency:      string(got.Currency),
	}, nil
}

// ParseWebhook verifies the Stripe signature and maps the event to a
// WebhookEvent. Events that do not concern checkout sessions come back with
// an empty session reference and are ignored upstream.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed",
		"checkout.session.expired",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed":
	default:
		return &WebhookEvent{}, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decoding webhook session: %w", err)
	}
	return &WebhookEvent{
		SessionID:     cs.ID,
		Status:        string(cs.Status),
		PaymentStatus: string(cs.PaymentStatus),
	}, nil
}

func (p *StripeProvider) wrapProviderErr(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", ErrProviderUnavailable)
	}
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, op, err)
}

func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
