package domain

import (
	"strings"
	"time"
)

// ServiceType represents the kind of work a customer can order
type ServiceType string

const (
	ServiceBroyting     ServiceType = "brøyting"
	ServicePlenklipping ServiceType = "plenklipping"
	ServiceTrefelling   ServiceType = "trefelling"
	ServiceDiverse      ServiceType = "diverse"
)

// IsValid checks if the ServiceType is a valid enum value
func (st ServiceType) IsValid() bool {
	switch st {
	case ServiceBroyting, ServicePlenklipping, ServiceTrefelling, ServiceDiverse:
		return true
	}
	return false
}

// Label returns the display name used in listings
func (st ServiceType) Label() string {
	switch st {
	case ServiceBroyting:
		return "Brøyting"
	case ServicePlenklipping:
		return "Plenklipping"
	case ServiceTrefelling:
		return "Trefelling"
	case ServiceDiverse:
		return "Diverse"
	}
	return string(st)
}

// ServiceTypes lists all orderable services
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceBroyting, ServicePlenklipping, ServiceTrefelling, ServiceDiverse}
}

// OrderStatus represents the processing state of an order
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid enum value
func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusDone, OrderStatusCancelled:
		return true
	}
	return false
}

// Label returns the Norwegian display name for the status
func (os OrderStatus) Label() string {
	switch os {
	case OrderStatusNew:
		return "Ny"
	case OrderStatusInProgress:
		return "Under arbeid"
	case OrderStatusDone:
		return "Fullført"
	case OrderStatusCancelled:
		return "Kansellert"
	}
	return string(os)
}

// OrderStatuses lists all order statuses
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusNew, OrderStatusInProgress, OrderStatusDone, OrderStatusCancelled}
}

// Order represents a service order as stored by the upstream order API.
// The id is an opaque string assigned upstream; callers display the short
// reference rather than the full id.
type Order struct {
	ID                string      `json:"id"`
	CustomerName      string      `json:"customer_name"`
	Phone             string      `json:"phone"`
	Email             string      `json:"email"`
	Address           string      `json:"address"`
	ServiceType       ServiceType `json:"service_type"`
	PreferredDatetime *time.Time  `json:"preferred_datetime,omitempty"`
	ExtraInfo         string      `json:"extra_info,omitempty"`
	PriceEstimate     *float64    `json:"price_estimate,omitempty"`
	Status            OrderStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
}

// ShortRef returns the first eight characters of the order id, used as the
// customer-facing reference number
func (o *Order) ShortRef() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// OrderFilter narrows an order listing. Zero-value fields are ignored,
// populated fields combine conjunctively.
type OrderFilter struct {
	Status  OrderStatus
	Service ServiceType
	Search  string
}

// IsZero reports whether the filter narrows nothing
func (f OrderFilter) IsZero() bool {
	return f.Status == "" && f.Service == "" && f.Search == ""
}

// Matches reports whether the order passes the filter
func (f OrderFilter) Matches(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Service != "" && o.ServiceType != f.Service {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(strings.TrimSpace(f.Search))
		if q != "" &&
			!strings.Contains(strings.ToLower(o.CustomerName), q) &&
			!strings.Contains(strings.ToLower(o.Address), q) &&
			!strings.Contains(strings.ToLower(o.Email), q) &&
			!strings.Contains(strings.ToLower(o.ID), q) {
			return false
		}
	}
	return true
}

// FilterOrders returns the orders passing the filter. The input slice is
// never modified.
func FilterOrders(orders []Order, f OrderFilter) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// OrderStats holds per-status counts over an order listing
type OrderStats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Cancelled  int `json:"cancelled"`
}

// CountStats tallies orders by status
func CountStats(orders []Order) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusNew:
			stats.New++
		case OrderStatusInProgress:
			stats.InProgress++
		case OrderStatusDone:
			stats.Done++
		case OrderStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
