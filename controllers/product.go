package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"go-marketplace/ai"
	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
)

// ProductController handles catalog requests
type ProductController struct {
	Products *store.Products
	AI       *ai.Client
}

// NewProductController creates a new ProductController
func NewProductController(products *store.Products, aiClient *ai.Client) *ProductController {
	return &ProductController{
		Products: products,
		AI:       aiClient,
	}
}

// CreateProduct creates a catalog listing; sellers own what they create.
// The AI description is best-effort: a degraded copywriter never blocks the
// listing.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || (claims.Role != models.RoleSeller && claims.Role != models.RoleAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Brand       string   `json:"brand"`
		Images      []string `json:"images"`
		Inventory   int      `json:"inventory"`
		Tags        []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price <= 0 {
		http.Error(w, "name and a positive price are required", http.StatusBadRequest)
		return
	}

	product := models.NewProduct(req.Name, req.Description, req.Price, req.Category, req.Brand, req.Inventory)
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if claims.Role == models.RoleSeller {
		product.SellerID = claims.UserID
	}

	desc := pc.AI.GenerateDescription(r.Context(), product.Name, product.Category, product.Brand)
	product.AIDescription = desc.Text

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Create(ctx, product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// GetProducts lists products with optional filters; a search query reranks
// the page through the AI client.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		SortBy:   q.Get("sort_by"),
		SortDesc: q.Get("sort_order") != "asc",
	}
	if v := q.Get("min_price"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &parsed
		}
	}
	if v := q.Get("max_price"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &parsed
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.Limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, err := pc.Products.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	search := strings.TrimSpace(q.Get("search"))
	if search == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
		return
	}

	result := pc.AI.SmartSearch(r.Context(), search, products)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": result.Products,
		"degraded": result.Degraded,
	})
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// GetRecommendations suggests products related to the given one.
func (pc *ProductController) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := pc.Products.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	candidates, err := pc.Products.List(ctx, store.ProductFilter{Limit: 20})
	if err != nil {
		writeError(w, err)
		return
	}

	userContext := "Current product: " + product.Name + " in " + product.Category
	recs := pc.AI.Recommend(r.Context(), userContext, candidates)

	byID := make(map[string]models.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}
	recommended := make([]models.Product, 0, len(recs.ProductIDs))
	for _, id := range recs.ProductIDs {
		if id == product.ID {
			continue
		}
		if p, ok := byID[id]; ok {
			recommended = append(recommended, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recommended,
		"degraded":        recs.Degraded,
	})
}

// UpdateProduct applies field changes to a product. Sellers may only touch
// their own listings.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Category    *string   `json:"category"`
		Brand       *string   `json:"brand"`
		Images      *[]string `json:"images"`
		Inventory   *int      `json:"inventory"`
		Tags        *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]
	product, err := pc.Products.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if claims.Role != models.RoleAdmin && product.SellerID != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			http.Error(w, "price must be positive", http.StatusBadRequest)
			return
		}
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Images != nil {
		fields["images"] = *req.Images
	}
	if req.Inventory != nil {
		fields["inventory"] = *req.Inventory
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if len(fields) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	if err := pc.Products.Update(ctx, id, fields); err != nil {
		writeError(w, err)
		return
	}
	updated, err := pc.Products.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct deactivates a listing so order history keeps resolving it.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]
	product, err := pc.Products.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if claims.Role != models.RoleAdmin && product.SellerID != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := pc.Products.Deactivate(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// GetCategories lists distinct categories
func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := pc.Products.Categories(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetBrands lists distinct brands
func (pc *ProductController) GetBrands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	brands, err := pc.Products.Brands(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"brands": brands})
}
