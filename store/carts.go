package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/models"
	"go-marketplace/pricing"
)

// casAttempts bounds the retry loop on contended cart updates.
const casAttempts = 5

// Carts persists shopping carts.
type Carts struct {
	col *mongo.Collection
}

// NewCarts creates a cart store on the given database.
func NewCarts(db *mongo.Database) *Carts {
	return &Carts{col: db.Collection("carts")}
}

// Create inserts an empty cart for the given owner.
func (s *Carts) Create(ctx context.Context, userID, sessionID string) (*models.Cart, error) {
	cart := models.NewCart(userID, sessionID)
	if _, err := s.col.InsertOne(ctx, cart); err != nil {
		return nil, fmt.Errorf("inserting cart: %w", err)
	}
	return cart, nil
}

// Get loads a cart by id.
func (s *Carts) Get(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return &cart, nil
}

// Mutate applies fn to the cart's line items and writes the new items, the
// recomputed total and the bumped version in one conditional update. Two
// concurrent mutations of the same cart cannot lose an update: the filter
// matches the version the items were derived from, and a losing writer
// reloads and retries.
func (s *Carts) Mutate(ctx context.Context, id string, fn func(items []models.CartItem) []models.CartItem) (*models.Cart, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		cart, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		items := fn(cart.Items)
		total := pricing.Total(items)
		now := time.Now().UTC()

		res, err := s.col.UpdateOne(ctx,
			bson.M{"id": id, "version": cart.Version},
			bson.M{
				"$set": bson.M{"items": items, "total": total, "updated_at": now},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("updating cart: %w", err)
		}
		if res.ModifiedCount == 1 {
			cart.Items = items
			cart.Total = total
			cart.Version++
			cart.UpdatedAt = now
			return cart, nil
		}
		// Lost the race; reload and retry.
	}
	return nil, ErrConflict
}
