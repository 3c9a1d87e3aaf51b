package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"go-marketplace/models"
	"go-marketplace/pricing"
	"go-marketplace/store"
)

// CartController handles cart-related requests
type CartController struct {
	Carts    *store.Carts
	Products *store.Products
}

// NewCartController creates a new CartController
func NewCartController(carts *store.Carts, products *store.Products) *CartController {
	return &CartController{
		Carts:    carts,
		Products: products,
	}
}

// CreateCart creates an empty cart for a user or anonymous session. A cart
// has exactly one owner reference, so supplying both is rejected.
func (cc *CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	sessionID := r.URL.Query().Get("session_id")
	if userID != "" && sessionID != "" {
		http.Error(w, "provide user_id or session_id, not both", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.Create(ctx, userID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart)
}

// GetCart retrieves a cart by id
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.Get(ctx, mux.Vars(r)["cart_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem adds a product to the cart, merging quantity if the product is
// already present. The response is the authoritative cart state after the
// write, so the caller never needs a follow-up fetch.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}
	quantity := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			http.Error(w, "quantity must be a positive integer", http.StatusBadRequest)
			return
		}
		quantity = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The catalog price is snapshotted here; existing lines keep the price
	// they were added at.
	product, err := cc.Products.Get(ctx, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := cc.Carts.Mutate(ctx, mux.Vars(r)["cart_id"], func(items []models.CartItem) []models.CartItem {
		return pricing.MergeItem(items, product.ID, quantity, product.Price)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem removes a product from the cart. Removing an absent product is
// a no-op that still returns the current cart.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.Mutate(ctx, vars["cart_id"], func(items []models.CartItem) []models.CartItem {
		return pricing.RemoveItem(items, vars["product_id"])
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
