package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-marketplace/models"
)

func TestTotalEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 0.0, Total([]models.CartItem{}))
}

func TestTotalSumsLines(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Quantity: 3, Price: 10},
		{ProductID: "b", Quantity: 2, Price: 4.25},
	}
	assert.Equal(t, 38.5, Total(items))
}

func TestTotalRoundsToCents(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Quantity: 3, Price: 0.1},
	}
	assert.Equal(t, 0.3, Total(items))
}

func TestMergeItemAppendsNewLine(t *testing.T) {
	items := MergeItem(nil, "a", 2, 5)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 10.0, Total(items))
}

func TestMergeItemIncrementsExistingQuantity(t *testing.T) {
	items := MergeItem(nil, "a", 2, 5)
	// A second add merges into the existing line and keeps the snapshotted
	// price, even if a different current price is passed in.
	items = MergeItem(items, "a", 1, 9.99)

	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 5.0, items[0].Price)
	assert.Equal(t, 15.0, Total(items))
}

func TestAddThenRemove(t *testing.T) {
	items := MergeItem(nil, "a", 3, 10)
	assert.Equal(t, 30.0, Total(items))

	items = RemoveItem(items, "a")
	assert.Empty(t, items)
	assert.Equal(t, 0.0, Total(items))
}

func TestRemoveItemMissingProductIsNoop(t *testing.T) {
	items := MergeItem(nil, "a", 1, 10)
	out := RemoveItem(items, "missing")
	assert.Equal(t, items, out)
}

func TestRemoveItemKeepsOtherLines(t *testing.T) {
	items := MergeItem(nil, "a", 1, 10)
	items = MergeItem(items, "b", 2, 3)

	items = RemoveItem(items, "a")
	assert.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ProductID)
	assert.Equal(t, 6.0, Total(items))
}
