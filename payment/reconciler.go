package payment

import (
	"context"
	"errors"
	"log/slog"

	"go-marketplace/metrics"
	"go-marketplace/models"
	"go-marketplace/store"
)

// Reconciler applies the payment provider's view of a checkout session to
// the local transaction, order and coupon state. The synchronous status poll
// and the asynchronous webhook both funnel into the same apply routine, so
// the two paths cannot diverge.
type Reconciler struct {
	txns     TransactionStore
	orders   OrderStore
	coupons  CouponStore
	provider Provider
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
}

// NewReconciler wires a payment status reconciler. notifier may be nil when
// no confirmation channel is configured.
func NewReconciler(txns TransactionStore, orders OrderStore, coupons CouponStore, provider Provider, notifier Notifier, logger *slog.Logger, m *metrics.AppMetrics) *Reconciler {
	return &Reconciler{
		txns:     txns,
		orders:   orders,
		coupons:  coupons,
		provider: provider,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// GetStatus polls the provider for a session's status, reconciles local
// state and returns the provider's answer.
func (r *Reconciler) GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	status, err := r.provider.GetStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := r.apply(ctx, sessionID, status.Status, status.PaymentStatus); err != nil {
		return nil, err
	}
	return status, nil
}

// HandleWebhook verifies and applies an asynchronous notification. A payload
// with a bad signature is rejected before any state is touched.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := r.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if event.SessionID == "" {
		// Event type we do not track.
		return nil
	}
	return r.apply(ctx, event.SessionID, event.Status, event.PaymentStatus)
}

// apply is idempotent. The transaction's status fields are overwritten
// unconditionally (the provider is the source of truth). The order moves
// pending -> processing through a conditional store update, and the coupon
// is consumed only when that update actually fired — a duplicate "paid"
// delivery finds the order already processing and skips both.
func (r *Reconciler) apply(ctx context.Context, sessionID, status, paymentStatus string) error {
	txn, err := r.txns.GetBySession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		// Benign: e.g. an event for a session created in another
		// environment. Acknowledge without touching state.
		r.logger.Warn("payment update for unknown session", "payment_session_id", sessionID)
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.txns.UpdateBySession(ctx, sessionID, status, paymentStatus); err != nil {
		return err
	}
	r.metrics.PaymentReconciled(ctx, paymentStatus)

	if paymentStatus != models.PaymentPaid || txn.OrderID == "" {
		// Failed or expired payments update the transaction only; the order
		// stays pending for administrative cancellation.
		return nil
	}

	moved, err := r.orders.TransitionFromPending(ctx, txn.OrderID, models.OrderProcessing)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	r.logger.Info("order moved to processing", "order_id", txn.OrderID, "payment_session_id", sessionID)

	// The confirmation email rides the same one-shot transition, so webhook
	// replays cannot mail the customer twice.
	if r.notifier != nil {
		r.notifier.OrderPaid(txn.OrderID)
	}

	if txn.CouponCode != "" {
		if err := r.coupons.Consume(ctx, txn.CouponCode); err != nil {
			// The payment already succeeded; an exhausted counter here is an
			// accounting anomaly to log, not a reason to fail the webhook.
			r.logger.Error("coupon consume failed", "code", txn.CouponCode, "error", err)
		} else {
			r.metrics.CouponRedeemed(ctx)
		}
	}
	return nil
}
