package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-marketplace/models"
	"go-marketplace/store"
)

func paidTxn(couponCode string) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:         "txn-1",
		SessionID:  "cs_123",
		OrderID:    "order-1",
		CouponCode: couponCode,
	}
}

func TestGetStatusReconcilesAndReturnsProviderAnswer(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("")}
	orders := &mockOrders{pending: true}
	provider := &mockProvider{status: &SessionStatus{
		Status: "complete", PaymentStatus: models.PaymentPaid, AmountTotal: 90, Currency: "usd",
	}}
	r := NewReconciler(txns, orders, &mockCoupons{}, provider, nil, testLogger(), nil)

	status, err := r.GetStatus(context.Background(), "cs_123")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPaid, status.PaymentStatus)
	require.Len(t, txns.updates, 1)
	assert.Equal(t, txnUpdate{"cs_123", "complete", "paid"}, txns.updates[0])
	assert.Equal(t, 1, orders.transitionCalls)
}

func TestPaidPaymentTransitionsOrderAndConsumesCoupon(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("SAVE10")}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{}
	notifier := &mockNotifier{}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "complete", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, coupons, provider, notifier, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, 1, orders.transitionCalls)
	assert.Equal(t, 1, coupons.consumeCalls)
	assert.Equal(t, []string{"order-1"}, notifier.paid)
}

func TestDuplicatePaidEventIsIdempotent(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("SAVE10")}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{}
	notifier := &mockNotifier{}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "complete", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, coupons, provider, notifier, testLogger(), nil)

	require.NoError(t, r.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	require.NoError(t, r.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	// Both deliveries overwrite the transaction, but only the first wins the
	// pending transition; the coupon is consumed and the customer is mailed
	// exactly once.
	assert.Len(t, txns.updates, 2)
	assert.Equal(t, 2, orders.transitionCalls)
	assert.Equal(t, 1, coupons.consumeCalls)
	assert.Equal(t, []string{"order-1"}, notifier.paid)
}

func TestUnknownSessionIsBenignNoop(t *testing.T) {
	txns := &mockTxns{getErr: store.ErrNotFound}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_other_env", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, coupons, provider, nil, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Empty(t, txns.updates)
	assert.Zero(t, orders.transitionCalls)
	assert.Zero(t, coupons.consumeCalls)
}

func TestFailedPaymentLeavesOrderPending(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("SAVE10")}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{}
	notifier := &mockNotifier{}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "expired", PaymentStatus: models.PaymentFailed,
	}}
	r := NewReconciler(txns, orders, coupons, provider, notifier, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	require.Len(t, txns.updates, 1)
	assert.Equal(t, txnUpdate{"cs_123", "expired", "failed"}, txns.updates[0])
	assert.Zero(t, orders.transitionCalls)
	assert.Zero(t, coupons.consumeCalls)
	assert.Empty(t, notifier.paid)
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("")}
	provider := &mockProvider{parseErr: ErrBadSignature}
	r := NewReconciler(txns, &mockOrders{}, &mockCoupons{}, provider, nil, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "bad")
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.Empty(t, txns.updates)
}

func TestWebhookUntrackedEventIsSkipped(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("")}
	provider := &mockProvider{event: &WebhookEvent{}}
	r := NewReconciler(txns, &mockOrders{}, &mockCoupons{}, provider, nil, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Empty(t, txns.updates)
}

func TestPaidWithoutCouponDoesNotConsume(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("")}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "complete", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, coupons, provider, nil, testLogger(), nil)

	require.NoError(t, r.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, 1, orders.transitionCalls)
	assert.Zero(t, coupons.consumeCalls)
}

func TestCouponConsumeErrorDoesNotFailWebhook(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("SAVE10")}
	orders := &mockOrders{pending: true}
	coupons := &mockCoupons{consumeErr: store.ErrCouponExhausted}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "complete", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, coupons, provider, nil, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
}

func TestTransitionErrorSurfaces(t *testing.T) {
	txns := &mockTxns{txn: paidTxn("")}
	orders := &mockOrders{transitionErr: errors.New("db down")}
	provider := &mockProvider{event: &WebhookEvent{
		SessionID: "cs_123", Status: "complete", PaymentStatus: models.PaymentPaid,
	}}
	r := NewReconciler(txns, orders, &mockCoupons{}, provider, nil, testLogger(), nil)

	err := r.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.Error(t, err)
}
