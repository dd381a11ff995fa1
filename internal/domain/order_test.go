package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortRef(t *testing.T) {
	o := Order{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"}
	assert.Equal(t, "a1b2c3d4", o.ShortRef())

	short := Order{ID: "abc"}
	assert.Equal(t, "abc", short.ShortRef())
}

func TestEnums(t *testing.T) {
	for _, st := range ServiceTypes() {
		assert.True(t, st.IsValid(), st)
	}
	assert.False(t, ServiceType("vinduspuss").IsValid())
	assert.False(t, ServiceType("").IsValid())

	for _, os := range OrderStatuses() {
		assert.True(t, os.IsValid(), os)
	}
	assert.False(t, OrderStatus("archived").IsValid())
	assert.Equal(t, "Under arbeid", OrderStatusInProgress.Label())
	assert.Equal(t, "Brøyting", ServiceBroyting.Label())
}

func TestOrderFilter(t *testing.T) {
	orders := []Order{
		{ID: "aaaa1111", CustomerName: "Kari Nordmann", Email: "kari@example.com", Address: "Sørgulen 4", ServiceType: ServiceBroyting, Status: OrderStatusNew},
		{ID: "bbbb2222", CustomerName: "Ola Hansen", Email: "ola@example.com", Address: "Gata 1, Oslo", ServiceType: ServicePlenklipping, Status: OrderStatusDone},
	}

	t.Run("zero filter matches all", func(t *testing.T) {
		assert.True(t, OrderFilter{}.IsZero())
		assert.Len(t, FilterOrders(orders, OrderFilter{}), 2)
	})

	t.Run("status and service must both match", func(t *testing.T) {
		f := OrderFilter{Status: OrderStatusNew, Service: ServicePlenklipping}
		assert.Empty(t, FilterOrders(orders, f))
	})

	t.Run("search is case insensitive across fields", func(t *testing.T) {
		assert.Len(t, FilterOrders(orders, OrderFilter{Search: "OSLO"}), 1)
		assert.Len(t, FilterOrders(orders, OrderFilter{Search: "bbbb"}), 1)
		assert.Len(t, FilterOrders(orders, OrderFilter{Search: "example.com"}), 2)
	})

	t.Run("whitespace-only search matches all", func(t *testing.T) {
		assert.Len(t, FilterOrders(orders, OrderFilter{Search: "   "}), 2)
	})

	t.Run("result is a new slice", func(t *testing.T) {
		out := FilterOrders(orders, OrderFilter{})
		out[0].Status = OrderStatusCancelled
		assert.Equal(t, OrderStatusNew, orders[0].Status)
	})
}

func TestCountStats(t *testing.T) {
	stats := CountStats([]Order{
		{Status: OrderStatusNew},
		{Status: OrderStatusNew},
		{Status: OrderStatusInProgress},
		{Status: OrderStatusDone},
		{Status: OrderStatusCancelled},
	})
	assert.Equal(t, OrderStats{Total: 5, New: 2, InProgress: 1, Done: 1, Cancelled: 1}, stats)

	assert.Equal(t, OrderStats{}, CountStats(nil))
}
