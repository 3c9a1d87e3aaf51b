package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing.
type Product struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Price         float64   `bson:"price" json:"price"`
	Category      string    `bson:"category" json:"category"`
	Brand         string    `bson:"brand" json:"brand"`
	Images        []string  `bson:"images" json:"images"`
	Inventory     int       `bson:"inventory" json:"inventory"`
	Rating        float64   `bson:"rating" json:"rating"`
	ReviewsCount  int       `bson:"reviews_count" json:"reviews_count"`
	Tags          []string  `bson:"tags" json:"tags"`
	AIDescription string    `bson:"ai_generated_description,omitempty" json:"ai_generated_description,omitempty"`
	SellerID      string    `bson:"seller_id,omitempty" json:"seller_id,omitempty"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// NewProduct creates an active product with a fresh id and timestamps.
func NewProduct(name, description string, price float64, category, brand string, inventory int) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Brand:       brand,
		Images:      []string{},
		Inventory:   inventory,
		Tags:        []string{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
