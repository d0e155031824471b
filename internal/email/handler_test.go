package email

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleSend(t *testing.T) {
	handler := NewHandler("orders@cardflow.local", slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("accepts a message", func(t *testing.T) {
		body := `{"to":"cust@example.com","subject":"Order Confirmation - Gold Card","body":"hi"}`
		req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.HandleSend(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"sent"`) {
			t.Errorf("unexpected response: %s", rec.Body.String())
		}
	})

	t.Run("rejects missing recipient", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"subject":"x"}`))
		rec := httptest.NewRecorder()
		handler.HandleSend(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		handler.HandleSend(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
