package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-marketplace/models"
	"go-marketplace/store"
)

func testCart(total float64, items ...models.CartItem) *models.Cart {
	return &models.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items:  items,
		Total:  total,
	}
}

func testCatalog() *mockCatalog {
	return &mockCatalog{products: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Widget", SellerID: "seller-1", Price: 10},
		"p2": {ID: "p2", Name: "Gadget", SellerID: "seller-2", Price: 25},
	}}
}

func newCheckout(carts CartStore, catalog CatalogStore, coupons CouponStore, orders *mockOrders, txns *mockTxns, provider Provider) *Checkout {
	return NewCheckout(carts, catalog, coupons, orders, txns, provider, "usd", testLogger(), nil)
}

func TestCreateSessionEmptyCart(t *testing.T) {
	carts := &mockCarts{cart: testCart(0)}
	orders := &mockOrders{}
	txns := &mockTxns{}
	provider := &mockProvider{}
	svc := newCheckout(carts, testCatalog(), &mockCoupons{}, orders, txns, provider)

	_, err := svc.CreateSession(context.Background(), "cart-1", "", "https://shop.example")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, provider.createCalls)
}

func TestCreateSessionCartNotFound(t *testing.T) {
	carts := &mockCarts{err: store.ErrNotFound}
	svc := newCheckout(carts, testCatalog(), &mockCoupons{}, &mockOrders{}, &mockTxns{}, &mockProvider{})

	_, err := svc.CreateSession(context.Background(), "missing", "", "https://shop.example")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateSessionNoCoupon(t *testing.T) {
	cart := testCart(45, models.CartItem{ProductID: "p1", Quantity: 2, Price: 10}, models.CartItem{ProductID: "p2", Quantity: 1, Price: 25})
	orders := &mockOrders{}
	txns := &mockTxns{}
	provider := &mockProvider{session: &Session{ID: "cs_123", URL: "https://pay.example/cs_123"}}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{}, orders, txns, provider)

	result, err := svc.CreateSession(context.Background(), "cart-1", "", "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, "cs_123", result.SessionID)
	assert.Equal(t, 45.0, result.Payable)
	assert.Equal(t, 0.0, result.Discount)
	assert.Equal(t, 45.0, result.OriginalTotal)
	assert.Empty(t, result.CouponRejected)

	require.Len(t, orders.created, 1)
	order := orders.created[0]
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 45.0, order.TotalAmount)
	assert.Equal(t, "cs_123", order.PaymentSessionID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, "seller-1", order.Items[0].SellerID)

	require.Len(t, txns.created, 1)
	txn := txns.created[0]
	assert.Equal(t, "cs_123", txn.SessionID)
	assert.Equal(t, order.ID, txn.OrderID)
	assert.Equal(t, 45.0, txn.Amount)
	assert.Equal(t, models.PaymentUnpaid, txn.PaymentStatus)
}

func TestCreateSessionAppliesCoupon(t *testing.T) {
	cart := testCart(100, models.CartItem{ProductID: "p1", Quantity: 10, Price: 10})
	coupon := models.NewCoupon("TEN", models.CouponPercentage, 10)
	orders := &mockOrders{}
	txns := &mockTxns{}
	provider := &mockProvider{session: &Session{ID: "cs_456", URL: "https://pay.example/cs_456"}}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{coupon: coupon}, orders, txns, provider)

	result, err := svc.CreateSession(context.Background(), "cart-1", "TEN", "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.Discount)
	assert.Equal(t, 90.0, result.Payable)
	assert.Equal(t, 100.0, result.OriginalTotal)
	assert.Equal(t, 90.0, provider.lastParams.Amount)
	assert.Equal(t, "TEN", provider.lastParams.Metadata["coupon_code"])

	// The order keeps the pre-discount total; the charge is the payable.
	require.Len(t, orders.created, 1)
	assert.Equal(t, 100.0, orders.created[0].TotalAmount)
	require.Len(t, txns.created, 1)
	assert.Equal(t, 90.0, txns.created[0].Amount)
	assert.Equal(t, "TEN", txns.created[0].CouponCode)
	assert.Equal(t, 10.0, txns.created[0].DiscountAmount)
}

func TestCreateSessionExpiredCouponDegradesToZeroDiscount(t *testing.T) {
	cart := testCart(50, models.CartItem{ProductID: "p1", Quantity: 5, Price: 10})
	coupon := models.NewCoupon("OLD", models.CouponFixed, 5)
	past := time.Now().Add(-time.Hour)
	coupon.ExpiresAt = &past
	txns := &mockTxns{}
	provider := &mockProvider{session: &Session{ID: "cs_789", URL: "https://pay.example/cs_789"}}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{coupon: coupon}, &mockOrders{}, txns, provider)

	result, err := svc.CreateSession(context.Background(), "cart-1", "OLD", "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Discount)
	assert.Equal(t, 50.0, result.Payable)
	assert.Equal(t, "coupon expired", result.CouponRejected)
	// A rejected coupon is never recorded on the transaction.
	require.Len(t, txns.created, 1)
	assert.Empty(t, txns.created[0].CouponCode)
}

func TestCreateSessionUnknownCouponDegradesToZeroDiscount(t *testing.T) {
	cart := testCart(50, models.CartItem{ProductID: "p1", Quantity: 5, Price: 10})
	provider := &mockProvider{session: &Session{ID: "cs_1", URL: "u"}}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{getErr: store.ErrNotFound}, &mockOrders{}, &mockTxns{}, provider)

	result, err := svc.CreateSession(context.Background(), "cart-1", "NOPE", "https://shop.example")
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Payable)
	assert.Equal(t, "invalid code", result.CouponRejected)
}

func TestCreateSessionProviderFailureWritesNothing(t *testing.T) {
	cart := testCart(30, models.CartItem{ProductID: "p1", Quantity: 3, Price: 10})
	orders := &mockOrders{}
	txns := &mockTxns{}
	provider := &mockProvider{createErr: ErrProviderUnavailable}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{}, orders, txns, provider)

	_, err := svc.CreateSession(context.Background(), "cart-1", "", "https://shop.example")

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, orders.created)
	assert.Empty(t, txns.created)
}

func TestCreateSessionMissingProductFails(t *testing.T) {
	cart := testCart(10, models.CartItem{ProductID: "deleted", Quantity: 1, Price: 10})
	provider := &mockProvider{session: &Session{ID: "cs_1", URL: "u"}}
	svc := newCheckout(&mockCarts{cart: cart}, testCatalog(), &mockCoupons{}, &mockOrders{}, &mockTxns{}, provider)

	_, err := svc.CreateSession(context.Background(), "cart-1", "", "https://shop.example")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
