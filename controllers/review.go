package controllers

import (
	"context"
	"encoding/json"
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

// ReviewController handles product reviews.
type ReviewController struct {
	reviews  *mongo.Collection
	users    *mongo.Collection
	Products *store.Products
}

// NewReviewController creates a new ReviewController
func NewReviewController(db *mongo.Database, products *store.Products) *ReviewController {
	return &ReviewController{
		reviews:  db.Collection("reviews"),
		users:    db.Collection("users"),
		Products: products,
	}
}

// CreateReview posts a review and folds it into the product's rating average
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := rc.Products.Get(ctx, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	var user models.User
	userName := claims.Email
	if err := rc.users.FindOne(ctx, bson.M{"id": claims.UserID}).Decode(&user); err == nil {
		userName = user.Name
	}

	review := models.NewReview(req.ProductID, claims.UserID, userName, req.Rating, req.Comment)
	if _, err := rc.reviews.InsertOne(ctx, review); err != nil {
		http.Error(w, "Failed to save review", http.StatusInternalServerError)
		return
	}

	newAverage := (product.Rating*float64(product.ReviewsCount) + float64(req.Rating)) /
		float64(product.ReviewsCount+1)
	if err := rc.Products.ApplyReview(ctx, req.ProductID, newAverage); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// GetProductReviews lists approved reviews for a product, newest first
func (rc *ReviewController) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(50)
	cursor, err := rc.reviews.Find(ctx, bson.M{
		"product_id":  mux.Vars(r)["product_id"],
		"is_approved": true,
	}, opts)
	if err != nil {
		http.Error(w, "Failed to load reviews", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		http.Error(w, "Failed to decode reviews", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}
