package domain

import (
	"regexp"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending",
	OrderStatusProcessing: "Processing",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal statuses admit no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a legal transition from s.
// The lifecycle moves forward one step at a time
// (pending → processing → shipped → delivered); cancellation is
// reachable from any non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type CardOrder struct {
	ID               string      `json:"id"`
	CustomerID       string      `json:"customer_id"`
	CustomerEmail    string      `json:"customer_email"`
	CardID           string      `json:"card_id"`
	Quantity         int         `json:"quantity"`
	Status           OrderStatus `json:"status"`
	TotalAmountMinor int64       `json:"total_amount_minor"`
	ShippingAddress  string      `json:"shipping_address,omitempty"`
	City             string      `json:"city,omitempty"`
	State            string      `json:"state,omitempty"`
	PostalCode       string      `json:"postal_code,omitempty"`
	Country          string      `json:"country,omitempty"`
	PhoneNumber      string      `json:"phone_number,omitempty"`
	OrderDate        time.Time   `json:"order_date"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// UnitPriceMinor returns the per-unit price the order was placed at.
// The total is always a whole multiple of the unit price, so the
// division is exact.
func (o *CardOrder) UnitPriceMinor() int64 {
	if o.Quantity <= 0 {
		return 0
	}
	return o.TotalAmountMinor / int64(o.Quantity)
}

func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return ErrPhoneInvalid
	}
	return nil
}
