package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusNext(t *testing.T) {
	cases := []struct {
		from OrderStatus
		next OrderStatus
	}{
		{OrderPending, OrderConfirmed},
		{OrderConfirmed, OrderShipped},
		{OrderShipped, OrderReceived},
		{OrderReceived, OrderCompleted},
		{OrderCompleted, ""},
		{OrderCancelled, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, tc.from.Next(), "next of %s", tc.from)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderCompleted.Terminal())
	assert.True(t, OrderCancelled.Terminal())

	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderReceived} {
		assert.False(t, s.Terminal(), "%s must not be terminal", s)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.True(t, OrderPending.Cancellable())
	assert.True(t, OrderConfirmed.Cancellable())

	for _, s := range []OrderStatus{OrderShipped, OrderReceived, OrderCompleted, OrderCancelled} {
		assert.False(t, s.Cancellable(), "%s must not be cancellable", s)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderReceived, OrderCompleted, OrderCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("delivered").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderComputeTotal(t *testing.T) {
	price := decimal.RequireFromString("99.99")
	order := Order{Quantity: decimal.RequireFromString("3"), UnitPrice: &price}
	assert.True(t, order.ComputeTotal().Equal(decimal.RequireFromString("299.97")))

	order.UnitPrice = nil
	assert.True(t, order.ComputeTotal().Equal(decimal.Zero))
}
