package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/models"
)

// Coupons persists discount coupons.
type Coupons struct {
	col *mongo.Collection
}

// NewCoupons creates a coupon store on the given database.
func NewCoupons(db *mongo.Database) *Coupons {
	return &Coupons{col: db.Collection("coupons")}
}

// Create inserts a coupon. Codes are stored uppercased.
func (s *Coupons) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	count, err := s.col.CountDocuments(ctx, bson.M{"code": coupon.Code})
	if err != nil {
		return fmt.Errorf("checking coupon code: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("coupon code %s already exists", coupon.Code)
	}
	if _, err := s.col.InsertOne(ctx, coupon); err != nil {
		return fmt.Errorf("inserting coupon: %w", err)
	}
	return nil
}

// GetByCode loads a coupon by its code, case-insensitively.
func (s *Coupons) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.col.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading coupon: %w", err)
	}
	return &coupon, nil
}

// List returns all coupons, newest first.
func (s *Coupons) List(ctx context.Context) ([]models.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decoding coupons: %w", err)
	}
	return coupons, nil
}

// Deactivate turns a coupon off without deleting its usage history.
func (s *Coupons) Deactivate(ctx context.Context, code string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"code": strings.ToUpper(code)},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return fmt.Errorf("deactivating coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Consume increments a coupon's used_count by one. The usage-limit check and
// the increment are one document operation, so concurrent successful payments
// can neither lose increments nor push used_count past the limit.
func (s *Coupons) Consume(ctx context.Context, code string) error {
	code = strings.ToUpper(code)
	filter := bson.M{
		"code": code,
		"$or": bson.A{
			bson.M{"usage_limit": bson.M{"$eq": nil}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$used_count", "$usage_limit"}}},
		},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"used_count": 1}})
	if err != nil {
		return fmt.Errorf("consuming coupon: %w", err)
	}
	if res.ModifiedCount == 0 {
		// The miss is either a coupon at its limit or a code that does not
		// exist at all; tell them apart for the caller's log line.
		lookupErr := s.col.FindOne(ctx, bson.M{"code": code}).Err()
		if errors.Is(lookupErr, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if lookupErr != nil {
			return fmt.Errorf("checking coupon after failed consume: %w", lookupErr)
		}
		return ErrCouponExhausted
	}
	return nil
}
