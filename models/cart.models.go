package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single product line in a cart. The unit price is snapshotted
// when the product is first added and is not refreshed on later catalog edits.
type CartItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// Cart represents a shopping cart owned by either a registered user or an
// anonymous browser session. Total is always recomputed together with the
// items in the same write; Version backs the conditional update that keeps
// concurrent mutations from losing items.
type Cart struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID string     `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Items     []CartItem `bson:"items" json:"items"`
	Total     float64    `bson:"total" json:"total"`
	Version   int64      `bson:"version" json:"-"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// NewCart creates an empty cart. When neither owner reference is given a
// fresh anonymous session id is generated so the cart is still addressable.
func NewCart(userID, sessionID string) *Cart {
	if userID == "" && sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}
