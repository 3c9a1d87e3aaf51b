package models

import (
	"time"

	"github.com/google/uuid"
)

// Checkout session statuses reported by the payment provider.
const (
	TxnStatusPending = "pending"
	TxnStatusOpen    = "open"
	TxnStatusExpired = "expired"
	TxnStatusPaid    = "complete"
)

// Payment statuses reported by the payment provider.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
	PaymentFailed = "failed"
)

// PaymentTransaction is the durable local record of one checkout session.
// Reconciliation keys on SessionID, so replayed webhooks and concurrent
// status polls land on the same document.
type PaymentTransaction struct {
	ID             string            `bson:"id" json:"id"`
	SessionID      string            `bson:"session_id" json:"session_id"`
	OrderID        string            `bson:"order_id,omitempty" json:"order_id,omitempty"`
	UserID         string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Amount         float64           `bson:"amount" json:"amount"`
	Currency       string            `bson:"currency" json:"currency"`
	Status         string            `bson:"status" json:"status"`
	PaymentStatus  string            `bson:"payment_status" json:"payment_status"`
	CouponCode     string            `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	DiscountAmount float64           `bson:"discount_amount" json:"discount_amount"`
	Metadata       map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at" json:"updated_at"`
}

// NewPaymentTransaction creates a pending, unpaid transaction for a freshly
// opened checkout session. Amount is the post-discount payable.
func NewPaymentTransaction(sessionID, orderID, userID string, amount float64, currency, couponCode string, discount float64, metadata map[string]string) *PaymentTransaction {
	now := time.Now().UTC()
	return &PaymentTransaction{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		OrderID:        orderID,
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		Status:         TxnStatusPending,
		PaymentStatus:  PaymentUnpaid,
		CouponCode:     couponCode,
		DiscountAmount: discount,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
