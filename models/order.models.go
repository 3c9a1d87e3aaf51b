package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled || s == OrderRefunded
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal status
// change. Orders move pending -> processing -> shipped -> delivered; a
// pending order may be cancelled, and any non-terminal order may be refunded.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() || !next.Valid() {
		return false
	}
	switch next {
	case OrderProcessing:
		return s == OrderPending
	case OrderShipped:
		return s == OrderProcessing
	case OrderDelivered:
		return s == OrderShipped
	case OrderCancelled:
		return s == OrderPending
	case OrderRefunded:
		return true
	}
	return false
}

// OrderItem is a purchased line item. Product name, seller and price are
// snapshotted at order creation so later catalog edits do not rewrite
// purchase history.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	SellerID    string  `bson:"seller_id,omitempty" json:"seller_id,omitempty"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	ProductName string  `bson:"product_name" json:"product_name"`
}

// Order represents a purchase created at checkout-session creation time.
type Order struct {
	ID               string      `bson:"id" json:"id"`
	UserID           string      `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID        string      `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Items            []OrderItem `bson:"items" json:"items"`
	TotalAmount      float64     `bson:"total_amount" json:"total_amount"`
	ShippingAddress  *Address    `bson:"shipping_address,omitempty" json:"shipping_address,omitempty"`
	Status           OrderStatus `bson:"status" json:"status"`
	PaymentSessionID string      `bson:"payment_session_id,omitempty" json:"payment_session_id,omitempty"`
	TrackingNumber   string      `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	CreatedAt        time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `bson:"updated_at" json:"updated_at"`
}

// NewOrder creates a pending order for the given owner.
func NewOrder(userID, sessionID string, items []OrderItem, total float64, paymentSessionID string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:               uuid.NewString(),
		UserID:           userID,
		SessionID:        sessionID,
		Items:            items,
		TotalAmount:      total,
		Status:           OrderPending,
		PaymentSessionID: paymentSessionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
