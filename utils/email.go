// utils/email.go
package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/keighl/postmark"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/models"
	"go-marketplace/store"
)

// EmailService handles transactional emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
	logger *slog.Logger
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string, logger *slog.Logger) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
		logger: logger,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmation notifies a customer that their payment completed and
// the order is being processed.
func (es *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	subject := "Order Confirmation - Marketplace"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been paid and is now being processed.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		order.ID,
		order.TotalAmount,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// OrderMailer resolves a paid order's owner and sends the confirmation
// email. The lookup and send run off the caller's path; failures are logged
// only, a payment never fails over a missing email.
type OrderMailer struct {
	orders *store.Orders
	users  *mongo.Collection
	email  *EmailService
	logger *slog.Logger
}

// NewOrderMailer creates an OrderMailer on the given database.
func NewOrderMailer(orders *store.Orders, db *mongo.Database, email *EmailService, logger *slog.Logger) *OrderMailer {
	return &OrderMailer{
		orders: orders,
		users:  db.Collection("users"),
		email:  email,
		logger: logger,
	}
}

// OrderPaid sends the order confirmation in the background.
func (m *OrderMailer) OrderPaid(orderID string) {
	go m.confirm(orderID)
}

func (m *OrderMailer) confirm(orderID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	order, err := m.orders.Get(ctx, orderID)
	if err != nil {
		m.logger.Warn("confirmation email skipped, order not found", "order_id", orderID)
		return
	}
	if order.UserID == "" {
		// Anonymous checkout, no address on file.
		return
	}
	var user models.User
	if err := m.users.FindOne(ctx, bson.M{"id": order.UserID}).Decode(&user); err != nil {
		m.logger.Warn("confirmation email skipped, user not found", "order_id", orderID, "user_id", order.UserID)
		return
	}
	if err := m.email.SendOrderConfirmation(user.Email, order); err != nil {
		m.logger.Error("failed to send order confirmation email", "order_id", orderID, "error", err)
	}
}

// SendOrderStatusUpdate notifies a customer about an order status change.
func (es *EmailService) SendOrderStatusUpdate(toEmail string, order *models.Order) error {
	subject := "Order Status Updated - Marketplace"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order (ID: %s) status has been updated to '<strong>%s</strong>'.<br><br>Thank you for shopping with us!",
		order.ID,
		order.Status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
