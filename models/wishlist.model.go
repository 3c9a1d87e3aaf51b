package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a saved product reference.
type WishlistItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Wishlist holds a user's saved products. A product appears at most once.
type Wishlist struct {
	ID        string         `bson:"id" json:"id"`
	UserID    string         `bson:"user_id" json:"user_id"`
	Items     []WishlistItem `bson:"items" json:"items"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

// NewWishlist creates an empty wishlist for the given user.
func NewWishlist(userID string) *Wishlist {
	return &Wishlist{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []WishlistItem{},
		UpdatedAt: time.Now().UTC(),
	}
}
