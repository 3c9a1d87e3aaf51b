package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-marketplace/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func activeCoupon(kind models.CouponType, value float64) *models.Coupon {
	c := models.NewCoupon("SAVE", kind, value)
	return c
}

func TestEvaluateCouponInactive(t *testing.T) {
	c := activeCoupon(models.CouponFixed, 5)
	c.IsActive = false

	_, err := EvaluateCoupon(c, 100, time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestEvaluateCouponExpired(t *testing.T) {
	c := activeCoupon(models.CouponFixed, 5)
	past := time.Now().Add(-time.Hour)
	c.ExpiresAt = &past

	_, err := EvaluateCoupon(c, 100, time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestEvaluateCouponUsageLimitReached(t *testing.T) {
	c := activeCoupon(models.CouponFixed, 5)
	c.UsageLimit = intPtr(3)
	c.UsedCount = 3

	_, err := EvaluateCoupon(c, 100, time.Now())
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestEvaluateCouponBelowMinOrderAmount(t *testing.T) {
	c := activeCoupon(models.CouponFixed, 5)
	c.MinOrderAmount = floatPtr(50)

	_, err := EvaluateCoupon(c, 49.99, time.Now())

	var minErr *MinOrderError
	require.ErrorAs(t, err, &minErr)
	assert.Equal(t, 50.0, minErr.Min)
}

func TestEvaluateCouponPercentage(t *testing.T) {
	c := activeCoupon(models.CouponPercentage, 10)

	discount, err := EvaluateCoupon(c, 200, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 20.0, discount)
}

func TestEvaluateCouponPercentageCappedByMaxDiscount(t *testing.T) {
	c := activeCoupon(models.CouponPercentage, 50)
	c.MaxDiscount = floatPtr(15)

	discount, err := EvaluateCoupon(c, 200, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 15.0, discount)
}

func TestEvaluateCouponFixed(t *testing.T) {
	c := activeCoupon(models.CouponFixed, 25)

	discount, err := EvaluateCoupon(c, 100, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 25.0, discount)
}

func TestEvaluateCouponDiscountClampedToTotal(t *testing.T) {
	// 150% of 100 must yield exactly 100, never a negative payable.
	c := activeCoupon(models.CouponPercentage, 150)

	discount, err := EvaluateCoupon(c, 100, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100.0, discount)

	fixed := activeCoupon(models.CouponFixed, 500)
	discount, err = EvaluateCoupon(fixed, 100, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100.0, discount)
}

func TestEvaluateCouponIsSideEffectFree(t *testing.T) {
	c := activeCoupon(models.CouponPercentage, 10)
	c.UsageLimit = intPtr(5)

	for i := 0; i < 10; i++ {
		discount, err := EvaluateCoupon(c, 100, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 10.0, discount)
	}
	assert.Equal(t, 0, c.UsedCount)
}

func TestEvaluateCouponValidationOrder(t *testing.T) {
	// Expiry is checked before the usage limit.
	c := activeCoupon(models.CouponFixed, 5)
	past := time.Now().Add(-time.Minute)
	c.ExpiresAt = &past
	c.UsageLimit = intPtr(1)
	c.UsedCount = 1

	_, err := EvaluateCoupon(c, 100, time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)
}
