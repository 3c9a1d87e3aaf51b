package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Address represents a shipping address.
type Address struct {
	Name       string `bson:"name,omitempty" json:"name,omitempty"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// User represents an account in the marketplace.
type User struct {
	ID             string    `bson:"id" json:"id"`
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	Name           string    `bson:"name" json:"name"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role           string    `bson:"role" json:"role"`
	Addresses      []Address `bson:"addresses,omitempty" json:"addresses,omitempty"`
	EmailVerified  bool      `bson:"email_verified" json:"email_verified"`
	PhoneVerified  bool      `bson:"phone_verified" json:"phone_verified"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// NewUser creates an active, unverified user account.
func NewUser(email, hashedPassword, name, role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
