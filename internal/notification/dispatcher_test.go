package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OrderNotification
	fail   error
}

func (p *fakePublisher) Publish(ctx context.Context, _ string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, event.(domain.OrderNotification))
	return nil
}

func (p *fakePublisher) published() []domain.OrderNotification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OrderNotification(nil), p.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() *domain.CardOrder {
	return &domain.CardOrder{
		ID:               "order-1",
		CustomerEmail:    "cust@example.com",
		CardID:           "card-1",
		Quantity:         2,
		Status:           domain.OrderStatusPending,
		TotalAmountMinor: 2000,
	}
}

func testCard() *domain.Card {
	return &domain.Card{ID: "card-1", Name: "Gold Card", PriceMinor: 1000, Active: true}
}

func TestDispatcherOrderSaved(t *testing.T) {
	ctx := context.Background()

	t.Run("creation sends one confirmation", func(t *testing.T) {
		publisher := &fakePublisher{}
		dispatcher := NewDispatcher(publisher, testLogger())

		dispatcher.OrderSaved(ctx, domain.CaptureCreation(), testOrder(), testCard())
		dispatcher.Wait()

		events := publisher.published()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		event := events[0]
		if event.Kind != domain.NotificationOrderConfirmation {
			t.Errorf("expected confirmation, got %s", event.Kind)
		}
		if event.Recipient != "cust@example.com" {
			t.Errorf("expected the customer's address, got %q", event.Recipient)
		}
		if event.CardName != "Gold Card" {
			t.Errorf("expected card name, got %q", event.CardName)
		}
		if event.StatusLabel != "Pending" {
			t.Errorf("expected status label, got %q", event.StatusLabel)
		}
	})

	t.Run("pure quantity edit sends nothing", func(t *testing.T) {
		publisher := &fakePublisher{}
		dispatcher := NewDispatcher(publisher, testLogger())

		order := testOrder()
		snapshot := domain.CaptureChanges(order)
		order.Quantity = 5
		order.TotalAmountMinor = 5000

		dispatcher.OrderSaved(ctx, snapshot, order, testCard())
		dispatcher.Wait()

		if events := publisher.published(); len(events) != 0 {
			t.Fatalf("expected no events, got %d", len(events))
		}
	})

	t.Run("status change sends one status-changed event", func(t *testing.T) {
		publisher := &fakePublisher{}
		dispatcher := NewDispatcher(publisher, testLogger())

		order := testOrder()
		snapshot := domain.CaptureChanges(order)
		order.Status = domain.OrderStatusProcessing

		dispatcher.OrderSaved(ctx, snapshot, order, testCard())
		dispatcher.Wait()

		events := publisher.published()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].Kind != domain.NotificationStatusChanged {
			t.Errorf("expected status-changed, got %s", events[0].Kind)
		}
		if events[0].StatusLabel != "Processing" {
			t.Errorf("expected the new status label, got %q", events[0].StatusLabel)
		}
	})

	t.Run("simultaneous status and quantity change sends exactly one event", func(t *testing.T) {
		publisher := &fakePublisher{}
		dispatcher := NewDispatcher(publisher, testLogger())

		order := testOrder()
		snapshot := domain.CaptureChanges(order)
		order.Quantity = 7
		order.Status = domain.OrderStatusProcessing

		dispatcher.OrderSaved(ctx, snapshot, order, testCard())
		dispatcher.Wait()

		events := publisher.published()
		if len(events) != 1 {
			t.Fatalf("expected exactly 1 event, got %d", len(events))
		}
		if events[0].Kind != domain.NotificationStatusChanged {
			t.Errorf("expected status-changed, got %s", events[0].Kind)
		}
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		publisher := &fakePublisher{fail: errors.New("broker unreachable")}
		dispatcher := NewDispatcher(publisher, testLogger())

		// Must not panic or block; the caller never sees the failure.
		dispatcher.OrderSaved(ctx, domain.CaptureCreation(), testOrder(), testCard())
		dispatcher.Wait()
	})

	t.Run("nil publisher skips delivery", func(t *testing.T) {
		dispatcher := NewDispatcher(nil, testLogger())

		dispatcher.OrderSaved(ctx, domain.CaptureCreation(), testOrder(), testCard())
		dispatcher.Wait()
	})

	t.Run("cancelled request context does not cancel the send", func(t *testing.T) {
		publisher := &fakePublisher{}
		dispatcher := NewDispatcher(publisher, testLogger())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		dispatcher.OrderSaved(cancelled, domain.CaptureCreation(), testOrder(), testCard())
		dispatcher.Wait()

		if events := publisher.published(); len(events) != 1 {
			t.Fatalf("expected the send to survive request cancellation, got %d events", len(events))
		}
	})
}
