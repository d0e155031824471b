package domain

import (
	"fmt"
	"time"
)

type NotificationKind string

const (
	NotificationOrderConfirmation NotificationKind = "order_confirmation"
	NotificationStatusChanged     NotificationKind = "order_status_changed"
)

// OrderNotification is the event handed to the notification transport.
// It is a read-only projection of the order at the moment the mutation
// committed; the worker renders it into an email without reading the
// database again.
type OrderNotification struct {
	Kind             NotificationKind `json:"kind"`
	Recipient        string           `json:"recipient"`
	OrderID          string           `json:"order_id"`
	CardName         string           `json:"card_name"`
	Quantity         int              `json:"quantity"`
	TotalAmountMinor int64            `json:"total_amount_minor"`
	StatusLabel      string           `json:"status_label"`
	OrderDate        time.Time        `json:"order_date"`
	Timestamp        time.Time        `json:"timestamp"`
}

// NewOrderNotification builds the notification projection for an order
// against its card. Pure function, no side effects.
func NewOrderNotification(kind NotificationKind, order *CardOrder, card *Card) OrderNotification {
	return OrderNotification{
		Kind:             kind,
		Recipient:        order.CustomerEmail,
		OrderID:          order.ID,
		CardName:         card.Name,
		Quantity:         order.Quantity,
		TotalAmountMinor: order.TotalAmountMinor,
		StatusLabel:      order.Status.Label(),
		OrderDate:        order.OrderDate,
		Timestamp:        time.Now().UTC(),
	}
}

// FormatAmountMinor renders an amount in minor units as a decimal
// string, e.g. 2000 -> "20.00".
func FormatAmountMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
