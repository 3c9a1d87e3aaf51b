package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponType is the discount strategy of a coupon.
type CouponType string

const (
	// CouponPercentage discounts a percentage of the cart total, optionally
	// capped by MaxDiscount.
	CouponPercentage CouponType = "percentage"
	// CouponFixed discounts a fixed amount, clamped to the cart total.
	CouponFixed CouponType = "fixed"
)

// Coupon is a discount rule identified by its code. UsedCount only ever moves
// forward, and only when a payment referencing the code completes — never at
// checkout-session creation, since the customer may still abandon checkout.
type Coupon struct {
	ID             string     `bson:"id" json:"id"`
	Code           string     `bson:"code" json:"code"`
	Type           CouponType `bson:"type" json:"type"`
	Value          float64    `bson:"value" json:"value"`
	MinOrderAmount *float64   `bson:"min_order_amount,omitempty" json:"min_order_amount,omitempty"`
	MaxDiscount    *float64   `bson:"max_discount,omitempty" json:"max_discount,omitempty"`
	UsageLimit     *int       `bson:"usage_limit,omitempty" json:"usage_limit,omitempty"`
	UsedCount      int        `bson:"used_count" json:"used_count"`
	ExpiresAt      *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	IsActive       bool       `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// NewCoupon creates an active coupon with a zero usage count.
func NewCoupon(code string, kind CouponType, value float64) *Coupon {
	return &Coupon{
		ID:        uuid.NewString(),
		Code:      code,
		Type:      kind,
		Value:     value,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}
