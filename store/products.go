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

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category  string
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortDesc  bool
	Limit     int64
}

// Products persists catalog listings.
type Products struct {
	col *mongo.Collection
}

// NewProducts creates a product store on the given database.
func NewProducts(db *mongo.Database) *Products {
	return &Products{col: db.Collection("products")}
}

// Create inserts a product.
func (s *Products) Create(ctx context.Context, p *models.Product) error {
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Get loads an active product by id.
func (s *Products) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.col.FindOne(ctx, bson.M{"id": id, "is_active": true}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading product: %w", err)
	}
	return &p, nil
}

// List returns active products matching the filter.
func (s *Products) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.M{"is_active": true}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": filter.Category, "$options": "i"}
	}
	if filter.Brand != "" {
		query["brand"] = bson.M{"$regex": filter.Brand, "$options": "i"}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := 1
	if filter.SortDesc {
		direction = -1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: direction}}).SetLimit(limit)
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return products, nil
}

// Update applies the given field changes to a product.
func (s *Products) Update(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a product so existing orders keep resolving it.
func (s *Products) Deactivate(ctx context.Context, id string) error {
	return s.Update(ctx, id, bson.M{"is_active": false})
}

// ApplyReview folds a new rating into the product's running average and
// bumps the review counter in one document update.
func (s *Products) ApplyReview(ctx context.Context, id string, newAverage float64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"rating": newAverage, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"reviews_count": 1},
	})
	if err != nil {
		return fmt.Errorf("applying review: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories returns the distinct product categories.
func (s *Products) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

// Brands returns the distinct product brands.
func (s *Products) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

func (s *Products) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := s.col.Distinct(ctx, field, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("listing %s values: %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out, nil
}
