package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

var (
	meter = otel.Meter("notification")

	notificationsPublished, _ = meter.Int64Counter("notifications.published",
		metric.WithDescription("Notification events handed to the transport"),
		metric.WithUnit("{event}"))
)

// Publisher hands a notification event to the transport. The Kafka
// producer in internal/messaging satisfies this.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Dispatcher derives at most one notification from a committed order
// mutation and publishes it without blocking the caller. Delivery is
// best-effort: publish failures are logged and swallowed, never
// surfaced to the mutation that triggered them.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// OrderSaved implements orders.Notifier.
//
//   - creation: one confirmation, always
//   - update with a status change: one status-changed event, even when
//     the quantity changed in the same mutation
//   - pure quantity edit: nothing
func (d *Dispatcher) OrderSaved(ctx context.Context, snapshot domain.ChangeSnapshot, order *domain.CardOrder, card *domain.Card) {
	var kind domain.NotificationKind
	switch {
	case !snapshot.Existed():
		kind = domain.NotificationOrderConfirmation
	case snapshot.StatusChanged(order):
		kind = domain.NotificationStatusChanged
	default:
		return
	}

	event := domain.NewOrderNotification(kind, order, card)
	d.send(ctx, event)
}

func (d *Dispatcher) send(ctx context.Context, event domain.OrderNotification) {
	if d.publisher == nil {
		d.logger.Info("notification transport not configured, skipping",
			"kind", event.Kind, "order_id", event.OrderID)
		return
	}

	// Detach from the request context: the mutation is already
	// committed, and cancelling the request must not cancel the send.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		if err := d.publisher.Publish(sendCtx, event.OrderID, event); err != nil {
			d.logger.Error("failed to publish notification",
				"error", err, "kind", event.Kind, "order_id", event.OrderID, "recipient", event.Recipient)
			return
		}

		notificationsPublished.Add(sendCtx, 1,
			metric.WithAttributes(attribute.String("kind", string(event.Kind))))

		d.logger.Info("notification published",
			"kind", event.Kind, "order_id", event.OrderID, "recipient", event.Recipient)
	}()
}

// Wait blocks until all in-flight sends have finished. Called on
// shutdown so queued notifications get their single delivery attempt.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
