// internal/service/order/domain/order_test.go
package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingAddress {
	return ShippingAddress{
		Name:    "Demo Shopper",
		Email:   "shopper@example.com",
		Address: "1 Demo Street",
		City:    "Demo City",
		ZipCode: "10001",
		Country: "US",
	}
}

func TestNewOrderDefaults(t *testing.T) {
	order, err := NewOrder("user-1", validShipping())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "user-1", order.CustomerID)
}

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("", validShipping())
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "customerId", validation.Field)

	cases := []struct {
		field  string
		mutate func(*ShippingAddress)
	}{
		{"name", func(a *ShippingAddress) { a.Name = "  " }},
		{"email", func(a *ShippingAddress) { a.Email = "not-an-email" }},
		{"address", func(a *ShippingAddress) { a.Address = "" }},
		{"city", func(a *ShippingAddress) { a.City = "" }},
		{"zipCode", func(a *ShippingAddress) { a.ZipCode = "" }},
		{"country", func(a *ShippingAddress) { a.Country = " " }},
	}
	for _, tc := range cases {
		shipping := validShipping()
		tc.mutate(&shipping)
		_, err := NewOrder("user-1", shipping)
		require.ErrorAs(t, err, &validation, tc.field)
		assert.Equal(t, tc.field, validation.Field)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^FM\d{8}-[0-9A-F]{6}$`)

	seen := make(map[string]struct{})
	now := time.Now()
	for i := 0; i < 100; i++ {
		number := NewOrderNumber(now)
		assert.Regexp(t, pattern, number)
		_, dup := seen[number]
		assert.False(t, dup, "order numbers generated in the same millisecond must differ")
		seen[number] = struct{}{}
	}
}

func TestSetPricingComputesTotals(t *testing.T) {
	order, err := NewOrder("user-1", validShipping())
	require.NoError(t, err)

	order.SetPricing([]OrderLine{
		{ProductID: "p1", Name: "Earbuds", UnitPrice: 15.00, Quantity: 2},
		{ProductID: "p2", Name: "Mat", UnitPrice: 15.00, Quantity: 1},
	}, &AppliedDiscount{Code: "FLASH10", Amount: 4.50})

	assert.Equal(t, 45.00, order.Subtotal)
	assert.Equal(t, 4.50, order.Discount.Amount)
	assert.Equal(t, 40.50, order.Total)
	assert.Equal(t, 3, order.ItemCount())
}

func TestSetPricingClampsDiscount(t *testing.T) {
	order, err := NewOrder("user-1", validShipping())
	require.NoError(t, err)

	order.SetPricing([]OrderLine{
		{ProductID: "p1", Name: "Shirt", UnitPrice: 30.00, Quantity: 1},
	}, &AppliedDiscount{Code: "SAVE50", Amount: 50.00})

	assert.Equal(t, 30.00, order.Discount.Amount)
	assert.Equal(t, 0.00, order.Total)
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to Status
	}{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusProcessing},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTo(t *testing.T) {
	order, err := NewOrder("user-1", validShipping())
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(StatusProcessing))
	assert.Equal(t, StatusProcessing, order.Status)

	err = order.TransitionTo(StatusDelivered)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusProcessing, invalid.From)
	assert.Equal(t, StatusProcessing, order.Status, "failed transition must not change state")
}

func TestCancelRefundsPayment(t *testing.T) {
	order, err := NewOrder("user-1", validShipping())
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, order.PaymentStatus)

	require.NoError(t, order.TransitionTo(StatusCancelled))
	assert.Equal(t, PaymentRefunded, order.PaymentStatus)

	// 取消以外的流转不碰支付状态
	shipped, err := NewOrder("user-2", validShipping())
	require.NoError(t, err)
	require.NoError(t, shipped.TransitionTo(StatusProcessing))
	require.NoError(t, shipped.TransitionTo(StatusShipped))
	assert.Equal(t, PaymentPaid, shipped.PaymentStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, status)

	_, err = ParseStatus("teleported")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}
