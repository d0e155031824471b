package domain

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending to shipped skips a step", OrderStatusPending, OrderStatusShipped, false},
		{"pending to delivered skips steps", OrderStatusPending, OrderStatusDelivered, false},
		{"processing to pending goes backwards", OrderStatusProcessing, OrderStatusPending, false},
		{"pending can cancel", OrderStatusPending, OrderStatusCancelled, true},
		{"processing can cancel", OrderStatusProcessing, OrderStatusCancelled, true},
		{"shipped can cancel", OrderStatusShipped, OrderStatusCancelled, true},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"unknown target", OrderStatusPending, OrderStatus("lost"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOrderStatusLabel(t *testing.T) {
	if got := OrderStatusProcessing.Label(); got != "Processing" {
		t.Errorf("expected 'Processing', got %q", got)
	}
	if got := OrderStatus("weird").Label(); got != "weird" {
		t.Errorf("unknown status should fall back to its raw value, got %q", got)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"", "+15551234567", "5551234567", "+999999999"}
	for _, phone := range valid {
		if err := ValidatePhoneNumber(phone); err != nil {
			t.Errorf("expected %q to be valid, got %v", phone, err)
		}
	}

	invalid := []string{"12345", "phone", "+1 555 123 4567", "+12345678901234567890"}
	for _, phone := range invalid {
		if err := ValidatePhoneNumber(phone); err == nil {
			t.Errorf("expected %q to be rejected", phone)
		}
	}
}

func TestUnitPriceMinor(t *testing.T) {
	order := &CardOrder{Quantity: 2, TotalAmountMinor: 2000}
	if got := order.UnitPriceMinor(); got != 1000 {
		t.Errorf("expected unit price 1000, got %d", got)
	}

	zero := &CardOrder{Quantity: 0, TotalAmountMinor: 2000}
	if got := zero.UnitPriceMinor(); got != 0 {
		t.Errorf("expected 0 for zero quantity, got %d", got)
	}
}

func TestFormatAmountMinor(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{2000, "20.00"},
		{5, "0.05"},
		{0, "0.00"},
		{199, "1.99"},
		{-150, "-1.50"},
	}

	for _, tt := range tests {
		if got := FormatAmountMinor(tt.amount); got != tt.want {
			t.Errorf("FormatAmountMinor(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
