// Package store implements document persistence for the marketplace on
// MongoDB. Every update that a concurrent request could race on is expressed
// as a single conditional document operation rather than a read-modify-write
// from process memory.
package store

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a conditional update keeps losing to
	// concurrent writers.
	ErrConflict = errors.New("concurrent modification")
	// ErrCouponExhausted is returned when a coupon consume would exceed the
	// usage limit.
	ErrCouponExhausted = errors.New("coupon usage limit exceeded")
)
