package pricing

import (
	"errors"
	"fmt"
	"time"

	"go-marketplace/models"
)

var (
	// ErrCouponInactive is returned for coupons that have been deactivated.
	ErrCouponInactive = errors.New("invalid code")
	// ErrCouponExpired is returned for coupons past their expiry timestamp.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponExhausted is returned when a coupon's usage limit is reached.
	ErrCouponExhausted = errors.New("coupon usage limit exceeded")
)

// MinOrderError rejects a coupon because the cart total is below the
// coupon's minimum order amount. It carries the required minimum so the
// caller can tell the customer how much is missing.
type MinOrderError struct {
	Min float64
}

func (e *MinOrderError) Error() string {
	return fmt.Sprintf("minimum order amount of %.2f required", e.Min)
}

// EvaluateCoupon computes the discount a coupon grants on a cart total.
// Checks short-circuit in order: active flag, expiry, usage limit, minimum
// order amount. Percentage discounts are capped at MaxDiscount when set, and
// every discount is clamped to the cart total so the payable amount can
// never go negative.
//
// Evaluation is side-effect free: it never consumes the coupon, so it is
// safe to call repeatedly for previews. UsedCount moves only when a payment
// referencing the code completes.
func EvaluateCoupon(coupon *models.Coupon, cartTotal float64, now time.Time) (float64, error) {
	if !coupon.IsActive {
		return 0, ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return 0, ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return 0, ErrCouponExhausted
	}
	if coupon.MinOrderAmount != nil && cartTotal < *coupon.MinOrderAmount {
		return 0, &MinOrderError{Min: *coupon.MinOrderAmount}
	}

	var discount float64
	switch coupon.Type {
	case models.CouponPercentage:
		discount = cartTotal * coupon.Value / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	case models.CouponFixed:
		discount = coupon.Value
	default:
		return 0, ErrCouponInactive
	}

	if discount > cartTotal {
		discount = cartTotal
	}
	return roundCents(discount), nil
}
