package orders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

func newTestHandler(t *testing.T) (*Handler, *fakeCardStore, *captureNotifier) {
	t.Helper()
	cardStore := newFakeCardStore(testCard())
	notifier := &captureNotifier{}
	service := newTestService(cardStore, newFakeOrderStore(), notifier)
	return NewHandler(service, testLogger()), cardStore, notifier
}

func createTestOrder(t *testing.T, handler *Handler) domain.OrderProjection {
	t.Helper()

	body := `{"customer_id":"cust-1","customer_email":"cust@example.com","card_id":"card-1","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var projection domain.OrderProjection
	if err := json.NewDecoder(rec.Body).Decode(&projection); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return projection
}

func TestHandlerCreate(t *testing.T) {
	t.Run("creates an order", func(t *testing.T) {
		handler, cardStore, notifier := newTestHandler(t)

		projection := createTestOrder(t, handler)

		if projection.ID == "" {
			t.Error("expected order id to be set")
		}
		if projection.TotalAmountMinor != 2000 {
			t.Errorf("expected total 2000, got %d", projection.TotalAmountMinor)
		}
		if projection.CardName != "Gold Card" {
			t.Errorf("expected card name, got %q", projection.CardName)
		}
		if got := cardStore.totalOrders("card-1"); got != 2 {
			t.Errorf("expected total_orders 2, got %d", got)
		}
		if notifier.count() != 1 {
			t.Errorf("expected one notifier call, got %d", notifier.count())
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		handler, cardStore, _ := newTestHandler(t)

		body := `{"customer_id":"cust-1","customer_email":"cust@example.com","card_id":"card-1","quantity":0}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if got := cardStore.totalOrders("card-1"); got != 0 {
			t.Errorf("rejected request mutated aggregate: %d", got)
		}
	})

	t.Run("unknown card is 404", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		body := `{"customer_id":"cust-1","customer_email":"cust@example.com","card_id":"missing","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandlerUpdateStatus(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)
		created := createTestOrder(t, handler)

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+created.ID+"/status",
			strings.NewReader(`{"status":"processing"}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()
		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var projection domain.OrderProjection
		if err := json.NewDecoder(rec.Body).Decode(&projection); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if projection.Status != domain.OrderStatusProcessing {
			t.Errorf("expected processing, got %s", projection.Status)
		}
		if projection.StatusLabel != "Processing" {
			t.Errorf("expected label, got %q", projection.StatusLabel)
		}
	})

	t.Run("illegal transition is 409", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)
		created := createTestOrder(t, handler)

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+created.ID+"/status",
			strings.NewReader(`{"status":"delivered"}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()
		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)
		created := createTestOrder(t, handler)

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+created.ID+"/status",
			strings.NewReader(`{"status":"warp"}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()
		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPatch, "/orders/missing/status",
			strings.NewReader(`{"status":"processing"}`))
		req.SetPathValue("id", "missing")
		rec := httptest.NewRecorder()
		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandlerUpdateQuantity(t *testing.T) {
	handler, cardStore, _ := newTestHandler(t)
	created := createTestOrder(t, handler)

	req := httptest.NewRequest(http.MethodPatch, "/orders/"+created.ID+"/quantity",
		strings.NewReader(`{"quantity":5}`))
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	handler.HandleUpdateQuantity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var projection domain.OrderProjection
	if err := json.NewDecoder(rec.Body).Decode(&projection); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if projection.Quantity != 5 || projection.TotalAmountMinor != 5000 {
		t.Errorf("unexpected projection: qty=%d total=%d", projection.Quantity, projection.TotalAmountMinor)
	}
	if got := cardStore.totalOrders("card-1"); got != 5 {
		t.Errorf("expected total_orders 5, got %d", got)
	}
}

func TestHandlerDelete(t *testing.T) {
	handler, cardStore, _ := newTestHandler(t)
	created := createTestOrder(t, handler)

	req := httptest.NewRequest(http.MethodDelete, "/orders/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := cardStore.totalOrders("card-1"); got != 0 {
		t.Errorf("expected total_orders 0, got %d", got)
	}
}

func TestHandlerList(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	createTestOrder(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/orders?customer_id=cust-1", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var projections []domain.OrderProjection
	if err := json.NewDecoder(rec.Body).Decode(&projections); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("expected 1 order, got %d", len(projections))
	}
	if projections[0].CardName != "Gold Card" {
		t.Errorf("expected card name resolved, got %q", projections[0].CardName)
	}

	t.Run("other customer sees nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders?customer_id=other", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, req)

		var projections []domain.OrderProjection
		if err := json.NewDecoder(rec.Body).Decode(&projections); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(projections) != 0 {
			t.Errorf("expected no orders, got %d", len(projections))
		}
	})
}
