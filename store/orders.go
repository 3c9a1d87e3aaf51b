package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/models"
)

// ErrIllegalTransition is returned when a requested status change is not a
// legal move in the order state machine.
var ErrIllegalTransition = errors.New("illegal order status transition")

// Orders persists orders.
type Orders struct {
	col *mongo.Collection
}

// NewOrders creates an order store on the given database.
func NewOrders(db *mongo.Database) *Orders {
	return &Orders{col: db.Collection("orders")}
}

// Create inserts an order.
func (s *Orders) Create(ctx context.Context, order *models.Order) error {
	if _, err := s.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// Get loads an order by id.
func (s *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return &order, nil
}

// ListByOwner returns the orders for a user or anonymous session, newest
// first.
func (s *Orders) ListByOwner(ctx context.Context, userID, sessionID string) ([]models.Order, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	} else if sessionID != "" {
		filter["session_id"] = sessionID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	return orders, nil
}

// TransitionFromPending moves a pending order to the given status as a single
// conditional update and reports whether this call performed the move. When a
// poll and a webhook race on the same paid session, exactly one of them sees
// moved == true; the other finds the order already transitioned.
func (s *Orders) TransitionFromPending(ctx context.Context, id string, to models.OrderStatus) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"id": id, "status": models.OrderPending},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("transitioning order: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// SetStatus applies an administrative status override, validating the move
// against the state machine. The update is conditioned on the status the
// validation saw, so a concurrent change invalidates rather than corrupts it.
func (s *Orders) SetStatus(ctx context.Context, id string, to models.OrderStatus) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, to)
	}

	now := time.Now().UTC()
	res, err := s.col.UpdateOne(ctx,
		bson.M{"id": id, "status": order.Status},
		bson.M{"$set": bson.M{"status": to, "updated_at": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	if res.ModifiedCount == 0 {
		return nil, ErrConflict
	}
	order.Status = to
	order.UpdatedAt = now
	return order, nil
}
