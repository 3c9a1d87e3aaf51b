package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-marketplace/metrics"
	"go-marketplace/models"
	"go-marketplace/pricing"
)

// CheckoutResult is returned to the caller after a checkout session is
// created. Payable is what the provider will charge; OriginalTotal is the
// cart total before any discount. CouponRejected carries the rejection
// reason when a supplied coupon was ignored.
type CheckoutResult struct {
	URL            string  `json:"url"`
	SessionID      string  `json:"session_id"`
	Payable        float64 `json:"payable"`
	Discount       float64 `json:"discount"`
	OriginalTotal  float64 `json:"original_total"`
	CouponRejected string  `json:"coupon_rejected,omitempty"`
}

// Checkout turns carts into pending orders with an external checkout session
// attached.
type Checkout struct {
	carts    CartStore
	catalog  CatalogStore
	coupons  CouponStore
	orders   OrderStore
	txns     TransactionStore
	provider Provider
	currency string
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
}

// NewCheckout wires a checkout orchestrator.
func NewCheckout(carts CartStore, catalog CatalogStore, coupons CouponStore, orders OrderStore, txns TransactionStore, provider Provider, currency string, logger *slog.Logger, m *metrics.AppMetrics) *Checkout {
	return &Checkout{
		carts:    carts,
		catalog:  catalog,
		coupons:  coupons,
		orders:   orders,
		txns:     txns,
		provider: provider,
		currency: currency,
		logger:   logger,
		metrics:  m,
	}
}

// CreateSession loads the cart, evaluates an optional coupon, opens an
// external checkout session for the payable amount and then persists one
// order plus one payment transaction referencing the new session.
//
// A rejected coupon never blocks checkout; the session proceeds without the
// discount and the rejection reason is surfaced in the result. The provider
// call happens before any local write, so a provider failure leaves no
// partial order or transaction behind.
func (c *Checkout) CreateSession(ctx context.Context, cartID, couponCode, originURL string) (*CheckoutResult, error) {
	cart, err := c.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	discount := 0.0
	couponRejected := ""
	appliedCoupon := ""
	if couponCode != "" {
		discount, couponRejected = c.evaluateCoupon(ctx, couponCode, cart.Total)
		if couponRejected == "" {
			appliedCoupon = couponCode
		}
	}
	payable := cart.Total - discount

	orderItems, err := c.snapshotItems(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"cart_id":    cart.ID,
		"user_id":    cart.UserID,
		"session_id": cart.SessionID,
	}
	if appliedCoupon != "" {
		metadata["coupon_code"] = appliedCoupon
	}

	session, err := c.provider.CreateSession(ctx, CreateSessionParams{
		Amount:     payable,
		Currency:   c.currency,
		SuccessURL: originURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  originURL + "/checkout/cancel",
		Metadata:   metadata,
	})
	if err != nil {
		return nil, err
	}

	// The order keeps the pre-discount total; the transaction records what
	// the provider actually charges.
	order := models.NewOrder(cart.UserID, cart.SessionID, orderItems, cart.Total, session.ID)
	if err := c.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persisting order: %w", err)
	}
	txn := models.NewPaymentTransaction(session.ID, order.ID, cart.UserID, payable, c.currency, appliedCoupon, discount, metadata)
	if err := c.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("persisting payment transaction: %w", err)
	}

	c.metrics.OrderCreated(ctx, payable)
	c.logger.Info("checkout session created",
		"cart_id", cart.ID, "order_id", order.ID, "payment_session_id", session.ID,
		"payable", payable, "discount", discount)

	return &CheckoutResult{
		URL:            session.URL,
		SessionID:      session.ID,
		Payable:        payable,
		Discount:       discount,
		OriginalTotal:  cart.Total,
		CouponRejected: couponRejected,
	}, nil
}

// evaluateCoupon resolves the coupon and computes its discount. Any failure
// degrades to a zero discount with the reason attached; the used_count is
// untouched here and only moves when the payment completes.
func (c *Checkout) evaluateCoupon(ctx context.Context, code string, cartTotal float64) (float64, string) {
	coupon, err := c.coupons.GetByCode(ctx, code)
	if err != nil {
		c.logger.Info("coupon ignored at checkout", "code", code, "reason", "invalid code")
		return 0, "invalid code"
	}
	discount, err := pricing.EvaluateCoupon(coupon, cartTotal, time.Now().UTC())
	if err != nil {
		c.logger.Info("coupon ignored at checkout", "code", code, "reason", err.Error())
		return 0, err.Error()
	}
	return discount, ""
}

// snapshotItems freezes product name, seller and the cart's snapshotted price
// into order line items.
func (c *Checkout) snapshotItems(ctx context.Context, items []models.CartItem) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := c.catalog.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolving product %s: %w", item.ProductID, err)
		}
		out = append(out, models.OrderItem{
			ProductID:   item.ProductID,
			SellerID:    product.SellerID,
			Quantity:    item.Quantity,
			Price:       item.Price,
			ProductName: product.Name,
		})
	}
	return out, nil
}
