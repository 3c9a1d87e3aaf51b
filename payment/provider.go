// Package payment contains the checkout session orchestration and the
// payment-status reconciliation that drives orders and coupon usage.
package payment

import (
	"context"
	"errors"

	"go-marketplace/models"
)

var (
	// ErrEmptyCart rejects checkout for a cart with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProviderUnavailable is returned when the payment provider cannot be
	// reached or refuses the call. Checkout aborts with no local state
	// written; the caller may retry.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrBadSignature is returned for webhook payloads whose signature does
	// not verify. Such payloads are never processed.
	ErrBadSignature = errors.New("invalid webhook signature")
)

// Session is a newly created external checkout session.
type Session struct {
	ID  string
	URL string
}

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	Status        string
	PaymentStatus string
	AmountTotal   float64
	Currency      string
}

// WebhookEvent is a verified asynchronous status notification.
type WebhookEvent struct {
	SessionID     string
	Status        string
	PaymentStatus string
}

// CreateSessionParams describes the checkout session to open.
type CreateSessionParams struct {
	Amount     float64
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Provider is the external payment collaborator.
type Provider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// Notifier announces payment outcomes to the customer. Implementations must
// not block; the reconciler calls it on the webhook path.
type Notifier interface {
	OrderPaid(orderID string)
}

// CartStore loads carts for checkout.
type CartStore interface {
	Get(ctx context.Context, id string) (*models.Cart, error)
}

// CatalogStore resolves products for order line snapshots.
type CatalogStore interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

// CouponStore looks up and consumes coupons.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Consume(ctx context.Context, code string) error
}

// OrderStore persists orders and performs the conditional pending transition.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	TransitionFromPending(ctx context.Context, id string, to models.OrderStatus) (bool, error)
}

// TransactionStore persists payment transactions keyed by session reference.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	GetBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	UpdateBySession(ctx context.Context, sessionID, status, paymentStatus string) error
}
