package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"go-marketplace/models"
	"go-marketplace/pricing"
	"go-marketplace/store"
)

// CouponController handles coupon administration and the public preview
// endpoint.
type CouponController struct {
	Coupons *store.Coupons
}

// NewCouponController creates a new CouponController
func NewCouponController(coupons *store.Coupons) *CouponController {
	return &CouponController{Coupons: coupons}
}

// CreateCoupon creates a coupon (admin only, enforced by routing)
func (cc *CouponController) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code           string     `json:"code"`
		Type           string     `json:"type"`
		Value          float64    `json:"value"`
		MinOrderAmount *float64   `json:"min_order_amount"`
		MaxDiscount    *float64   `json:"max_discount"`
		UsageLimit     *int       `json:"usage_limit"`
		ExpiresAt      *time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind := models.CouponType(req.Type)
	if kind != models.CouponPercentage && kind != models.CouponFixed {
		http.Error(w, "type must be percentage or fixed", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Code) == "" || req.Value <= 0 {
		http.Error(w, "code and a positive value are required", http.StatusBadRequest)
		return
	}
	if kind == models.CouponPercentage && req.Value > 100 {
		http.Error(w, "percentage value cannot exceed 100", http.StatusBadRequest)
		return
	}

	coupon := models.NewCoupon(strings.TrimSpace(req.Code), kind, req.Value)
	coupon.MinOrderAmount = req.MinOrderAmount
	coupon.MaxDiscount = req.MaxDiscount
	coupon.UsageLimit = req.UsageLimit
	coupon.ExpiresAt = req.ExpiresAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := cc.Coupons.Create(ctx, coupon); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}

// ListCoupons lists all coupons (admin only, enforced by routing)
func (cc *CouponController) ListCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coupons, err := cc.Coupons.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"coupons": coupons})
}

// DeactivateCoupon turns a coupon off
func (cc *CouponController) DeactivateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := cc.Coupons.Deactivate(ctx, mux.Vars(r)["code"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Coupon deactivated"})
}

// ValidateCoupon previews a coupon's discount against a cart total without
// consuming it, so the storefront can show the discount before checkout.
func (cc *CouponController) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string  `json:"code"`
		CartTotal float64 `json:"cart_total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coupon, err := cc.Coupons.GetByCode(ctx, req.Code)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid":  false,
			"reason": "invalid code",
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	discount, err := pricing.EvaluateCoupon(coupon, req.CartTotal, time.Now().UTC())
	if err != nil {
		resp := map[string]interface{}{
			"valid":  false,
			"reason": err.Error(),
		}
		var minErr *pricing.MinOrderError
		if errors.As(err, &minErr) {
			resp["min_order_amount"] = minErr.Min
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"discount": discount,
		"payable":  req.CartTotal - discount,
	})
}
