package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating and comment for a product.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	ProductID  string    `bson:"product_id" json:"product_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	UserName   string    `bson:"user_name" json:"user_name"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment" json:"comment"`
	IsApproved bool      `bson:"is_approved" json:"is_approved"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// NewReview creates an approved review. Rating bounds are validated at the
// HTTP boundary.
func NewReview(productID, userID, userName string, rating int, comment string) *Review {
	return &Review{
		ID:         uuid.NewString(),
		ProductID:  productID,
		UserID:     userID,
		UserName:   userName,
		Rating:     rating,
		Comment:    comment,
		IsApproved: true,
		CreatedAt:  time.Now().UTC(),
	}
}
