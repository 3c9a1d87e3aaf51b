package payment

import (
	"context"
	"io"
	"log/slog"

	"go-marketplace/models"
	"go-marketplace/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCarts implements CartStore.
type mockCarts struct {
	cart *models.Cart
	err  error
}

func (m *mockCarts) Get(_ context.Context, _ string) (*models.Cart, error) {
	return m.cart, m.err
}

// mockCatalog implements CatalogStore.
type mockCatalog struct {
	products map[string]*models.Product
}

func (m *mockCatalog) Get(_ context.Context, id string) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

// mockCoupons implements CouponStore and counts consume calls.
type mockCoupons struct {
	coupon       *models.Coupon
	getErr       error
	consumeErr   error
	consumeCalls int
}

func (m *mockCoupons) GetByCode(_ context.Context, _ string) (*models.Coupon, error) {
	return m.coupon, m.getErr
}

func (m *mockCoupons) Consume(_ context.Context, _ string) error {
	m.consumeCalls++
	return m.consumeErr
}

// mockOrders implements OrderStore. The pending guard is simulated with a
// one-shot flag: the first transition reports moved, later ones do not.
type mockOrders struct {
	created         []*models.Order
	createErr       error
	pending         bool
	transitionErr   error
	transitionCalls int
}

func (m *mockOrders) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrders) TransitionFromPending(_ context.Context, _ string, _ models.OrderStatus) (bool, error) {
	m.transitionCalls++
	if m.transitionErr != nil {
		return false, m.transitionErr
	}
	if m.pending {
		m.pending = false
		return true, nil
	}
	return false, nil
}

type txnUpdate struct {
	sessionID     string
	status        string
	paymentStatus string
}

// mockTxns implements TransactionStore.
type mockTxns struct {
	created   []*models.PaymentTransaction
	createErr error
	txn       *models.PaymentTransaction
	getErr    error
	updates   []txnUpdate
	updateErr error
}

func (m *mockTxns) Create(_ context.Context, txn *models.PaymentTransaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, txn)
	return nil
}

func (m *mockTxns) GetBySession(_ context.Context, _ string) (*models.PaymentTransaction, error) {
	return m.txn, m.getErr
}

func (m *mockTxns) UpdateBySession(_ context.Context, sessionID, status, paymentStatus string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, txnUpdate{sessionID, status, paymentStatus})
	return nil
}

// mockNotifier implements Notifier and records which orders were announced.
type mockNotifier struct {
	paid []string
}

func (m *mockNotifier) OrderPaid(orderID string) {
	m.paid = append(m.paid, orderID)
}

// mockProvider implements Provider.
type mockProvider struct {
	session     *Session
	createErr   error
	createCalls int
	lastParams  CreateSessionParams

	status    *SessionStatus
	statusErr error

	event    *WebhookEvent
	parseErr error
}

func (m *mockProvider) CreateSession(_ context.Context, params CreateSessionParams) (*Session, error) {
	m.createCalls++
	m.lastParams = params
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockProvider) GetStatus(_ context.Context, _ string) (*SessionStatus, error) {
	return m.status, m.statusErr
}

func (m *mockProvider) ParseWebhook(_ []byte, _ string) (*WebhookEvent, error) {
	return m.event, m.parseErr
}
