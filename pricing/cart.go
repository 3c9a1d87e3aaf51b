// Package pricing holds the pure cart-total and coupon-discount computations.
// Nothing in here touches the database; callers persist the results.
package pricing

import (
	"math"

	"go-marketplace/models"
)

// Total returns the sum of quantity times unit price over all line items,
// rounded to cents.
func Total(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return roundCents(total)
}

// MergeItem adds quantity of a product to the line items. If the product is
// already present its quantity is incremented and the originally snapshotted
// price is kept; otherwise a new line is appended at unitPrice. Quantity must
// be validated (>= 1) by the caller.
func MergeItem(items []models.CartItem, productID string, quantity int, unitPrice float64) []models.CartItem {
	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity += quantity
			return items
		}
	}
	return append(items, models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     unitPrice,
	})
}

// RemoveItem filters out the line for the given product. Removing a product
// that is not in the cart is a no-op, not an error.
func RemoveItem(items []models.CartItem, productID string) []models.CartItem {
	filtered := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
