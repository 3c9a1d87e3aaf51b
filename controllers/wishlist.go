package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
)

// WishlistController handles saved-product lists.
type WishlistController struct {
	wishlists *mongo.Collection
	Products  *store.Products
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(db *mongo.Database, products *store.Products) *WishlistController {
	return &WishlistController{
		wishlists: db.Collection("wishlists"),
		Products:  products,
	}
}

// GetWishlist returns the authenticated user's wishlist
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var wishlist models.Wishlist
	err := wc.wishlists.FindOne(ctx, bson.M{"user_id": claims.UserID}).Decode(&wishlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeJSON(w, http.StatusOK, models.NewWishlist(claims.UserID))
		return
	}
	if err != nil {
		http.Error(w, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// AddToWishlist saves a product. Adding the same product twice is a no-op.
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := mux.Vars(r)["product_id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := wc.Products.Get(ctx, productID); err != nil {
		writeError(w, err)
		return
	}

	fresh := models.NewWishlist(claims.UserID)
	now := time.Now().UTC()
	_, err := wc.wishlists.UpdateOne(ctx,
		bson.M{"user_id": claims.UserID},
		bson.M{"$setOnInsert": bson.M{"id": fresh.ID, "items": []models.WishlistItem{}, "updated_at": now}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		http.Error(w, "Failed to update wishlist", http.StatusInternalServerError)
		return
	}

	// Push only while the product is absent, so repeat saves stay no-ops.
	_, err = wc.wishlists.UpdateOne(ctx,
		bson.M{"user_id": claims.UserID, "items.product_id": bson.M{"$ne": productID}},
		bson.M{
			"$push": bson.M{"items": models.WishlistItem{ProductID: productID, AddedAt: now}},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		http.Error(w, "Failed to update wishlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product saved"})
}

// RemoveFromWishlist drops a product. Removing an absent product is a no-op.
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := wc.wishlists.UpdateOne(ctx,
		bson.M{"user_id": claims.UserID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"product_id": mux.Vars(r)["product_id"]}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		http.Error(w, "Failed to update wishlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}
