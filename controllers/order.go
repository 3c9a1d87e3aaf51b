// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
	"go-marketplace/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders       *store.Orders
	Users        *mongo.Collection
	EmailService *utils.EmailService
	Logger       *slog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *store.Orders, db *mongo.Database, emailService *utils.EmailService, logger *slog.Logger) *OrderController {
	return &OrderController{
		Orders:       orders,
		Users:        db.Collection("users"),
		EmailService: emailService,
		Logger:       logger,
	}
}

// GetOrders lists orders for a user or anonymous session, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	sessionID := r.URL.Query().Get("session_id")
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
	}
	if userID == "" && sessionID == "" {
		http.Error(w, "user_id or session_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListByOwner(ctx, userID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder retrieves a single order
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := oc.Orders.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus applies an administrative status override. Illegal
// transitions in the order state machine are rejected, not silently applied.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	next := models.OrderStatus(req.Status)
	if !next.Valid() {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.SetStatus(ctx, mux.Vars(r)["id"], next)
	if err != nil {
		writeError(w, err)
		return
	}

	if order.UserID != "" {
		go oc.notifyStatusChange(order)
	}
	writeJSON(w, http.StatusOK, order)
}

// notifyStatusChange emails the order's owner about the new status. Runs off
// the request path; failures are logged only.
func (oc *OrderController) notifyStatusChange(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var user models.User
	if err := oc.Users.FindOne(ctx, bson.M{"id": order.UserID}).Decode(&user); err != nil {
		oc.Logger.Warn("order status email skipped, user not found", "order_id", order.ID, "user_id", order.UserID)
		return
	}
	if err := oc.EmailService.SendOrderStatusUpdate(user.Email, order); err != nil {
		oc.Logger.Error("failed to send order status email", "order_id", order.ID, "error", err)
	}
}
