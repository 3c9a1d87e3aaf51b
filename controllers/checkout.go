package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"go-marketplace/payment"
)

// maxWebhookBody caps webhook payload reads.
const maxWebhookBody = 1 << 20

// CheckoutController exposes checkout session creation, status polling and
// the payment webhook.
type CheckoutController struct {
	Checkout   *payment.Checkout
	Reconciler *payment.Reconciler
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(checkout *payment.Checkout, reconciler *payment.Reconciler) *CheckoutController {
	return &CheckoutController{
		Checkout:   checkout,
		Reconciler: reconciler,
	}
}

// CreateSession turns a cart into a pending order with an external checkout
// session attached.
func (cc *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID     string `json:"cart_id"`
		OriginURL  string `json:"origin_url"`
		CouponCode string `json:"coupon_code,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CartID == "" || req.OriginURL == "" {
		http.Error(w, "cart_id and origin_url are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := cc.Checkout.CreateSession(ctx, req.CartID, req.CouponCode, req.OriginURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetStatus polls the payment provider and reconciles local state before
// answering.
func (cc *CheckoutController) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	status, err := cc.Reconciler.GetStatus(ctx, mux.Vars(r)["session_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status.Status,
		"payment_status": status.PaymentStatus,
		"amount_total":   status.AmountTotal,
		"currency":       status.Currency,
	})
}

// Webhook handles asynchronous payment notifications. A payload that fails
// signature verification is rejected outright.
func (cc *CheckoutController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := cc.Reconciler.HandleWebhook(ctx, body, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
