package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

// NotificationHandler turns order notification events into calls to the
// email service. Delivery is at-most-once: a failed send is logged and
// the event is not redelivered.
type NotificationHandler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewNotificationHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderNotification
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to unmarshal notification event", "error", err)
		return nil
	}

	h.logger.Info("processing notification",
		"kind", event.Kind, "order_id", event.OrderID, "recipient", event.Recipient)

	subject, body := renderEmail(event)
	if err := h.sendEmail(ctx, event.Recipient, subject, body); err != nil {
		// Single attempt. The order mutation already succeeded; the
		// event is committed regardless so it is not redelivered.
		h.logger.Error("failed to send notification email",
			"error", err, "kind", event.Kind, "order_id", event.OrderID, "recipient", event.Recipient)
		return nil
	}

	h.logger.Info("notification email sent",
		"kind", event.Kind, "order_id", event.OrderID, "recipient", event.Recipient)
	return nil
}

func renderEmail(event domain.OrderNotification) (subject, body string) {
	amount := domain.FormatAmountMinor(event.TotalAmountMinor)

	switch event.Kind {
	case domain.NotificationStatusChanged:
		subject = fmt.Sprintf("Order Status Update - %s (Order #%s)", event.CardName, event.OrderID)
		body = fmt.Sprintf(
			"Your order %s for %s is now %s.\n\nQuantity: %d\nTotal: %s\nOrdered on: %s\n",
			event.OrderID, event.CardName, event.StatusLabel,
			event.Quantity, amount, event.OrderDate.Format("Jan 2, 2006"),
		)
	default:
		subject = fmt.Sprintf("Order Confirmation - %s", event.CardName)
		body = fmt.Sprintf(
			"Thank you for your order!\n\nOrder: %s\nCard: %s\nQuantity: %d\nTotal: %s\nStatus: %s\nOrdered on: %s\n",
			event.OrderID, event.CardName, event.Quantity, amount,
			event.StatusLabel, event.OrderDate.Format("Jan 2, 2006"),
		)
	}

	return subject, body
}

func (h *NotificationHandler) sendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
