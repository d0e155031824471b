package cards

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

// Catalog is the slice of CardRepository the handler needs. Tests plug
// in fakes through it.
type Catalog interface {
	Create(ctx context.Context, card *domain.Card) error
	Get(ctx context.Context, id string) (*domain.Card, error)
	List(ctx context.Context) ([]domain.Card, error)
	Recalculate(ctx context.Context, cardID string) (int, error)
}

type Handler struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewHandler(catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

type createCardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Active      *bool  `json:"active"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PriceMinor < 0 {
		h.writeError(w, http.StatusBadRequest, "price_minor must be non-negative")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	card := &domain.Card{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Active:      active,
	}

	if err := h.catalog.Create(r.Context(), card); err != nil {
		h.logger.Error("failed to create card", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("card created", "card_id", card.ID, "name", card.Name)
	h.writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list cards", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if cards == nil {
		cards = []domain.Card{}
	}
	h.writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("cardId")
	if cardID == "" {
		h.writeError(w, http.StatusBadRequest, "missing card id")
		return
	}

	card, err := h.catalog.Get(r.Context(), cardID)
	if err != nil {
		h.logger.Error("failed to get card", "error", err, "card_id", cardID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if card == nil {
		h.writeError(w, http.StatusNotFound, "card not found")
		return
	}

	h.writeJSON(w, http.StatusOK, card)
}

type recalculateResponse struct {
	CardID      string `json:"card_id"`
	TotalOrders int    `json:"total_orders"`
}

// HandleRecalculate is the operator repair endpoint: it rewrites the
// card's total_orders from the sum over its existing orders.
func (h *Handler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("cardId")
	if cardID == "" {
		h.writeError(w, http.StatusBadRequest, "missing card id")
		return
	}

	total, err := h.catalog.Recalculate(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			h.writeError(w, http.StatusNotFound, "card not found")
			return
		}
		h.logger.Error("failed to recalculate card orders", "error", err, "card_id", cardID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("card total_orders recalculated", "card_id", cardID, "total_orders", total)
	h.writeJSON(w, http.StatusOK, recalculateResponse{CardID: cardID, TotalOrders: total})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
