package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderRefunded, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderRefunded, true},
		{OrderProcessing, OrderPending, false},
		{OrderProcessing, OrderCancelled, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderRefunded, true},
		{OrderShipped, OrderProcessing, false},
		{OrderDelivered, OrderRefunded, false},
		{OrderCancelled, OrderProcessing, false},
		{OrderRefunded, OrderPending, false},
		{OrderPending, OrderStatus("bogus"), false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransition(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderProcessing.IsTerminal())
	assert.False(t, OrderShipped.IsTerminal())
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.True(t, OrderRefunded.IsTerminal())
}

func TestNewOrderStartsPending(t *testing.T) {
	order := NewOrder("user-1", "", []OrderItem{{ProductID: "p1", Quantity: 1, Price: 10}}, 10, "cs_test")
	assert.Equal(t, OrderPending, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "cs_test", order.PaymentSessionID)
}
