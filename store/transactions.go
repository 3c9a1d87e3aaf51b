package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/models"
)

// Transactions persists payment transactions, keyed by the external checkout
// session reference.
type Transactions struct {
	col *mongo.Collection
}

// NewTransactions creates a payment transaction store on the given database.
func NewTransactions(db *mongo.Database) *Transactions {
	return &Transactions{col: db.Collection("payment_transactions")}
}

// Create inserts a transaction.
func (s *Transactions) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	if _, err := s.col.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// GetBySession loads the transaction for a checkout session.
func (s *Transactions) GetBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := s.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&txn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction: %w", err)
	}
	return &txn, nil
}

// UpdateBySession overwrites the transaction's status fields with what the
// payment provider reported. The external status is the source of truth, so
// re-applying the same terminal status is harmless. Empty fields are skipped
// because a webhook may carry only the payment status.
func (s *Transactions) UpdateBySession(ctx context.Context, sessionID, status, paymentStatus string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if status != "" {
		set["status"] = status
	}
	if paymentStatus != "" {
		set["payment_status"] = paymentStatus
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"session_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
