package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

type CardStore interface {
	Get(ctx context.Context, id string) (*domain.Card, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
	AddTotalOrders(ctx context.Context, cardID string, delta int) error
	ReduceTotalOrders(ctx context.Context, cardID string, quantity int) error
}

type OrderStore interface {
	Create(ctx context.Context, order *domain.CardOrder) error
	Get(ctx context.Context, id string) (*domain.CardOrder, error)
	Update(ctx context.Context, order *domain.CardOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, customerID string) ([]domain.CardOrder, error)
}

// Notifier receives every committed mutation together with the change
// snapshot taken before it. Implementations decide whether anything
// goes out; they must never fail the mutation.
type Notifier interface {
	OrderSaved(ctx context.Context, snapshot domain.ChangeSnapshot, order *domain.CardOrder, card *domain.Card)
}

// Service coordinates a single order mutation: capture the watched
// fields, persist, apply the aggregate delta, then hand the result to
// the notifier. Persistence and aggregate failures are hard errors;
// notification delivery is best-effort and cannot fail the operation.
type Service struct {
	cards    CardStore
	orders   OrderStore
	notifier Notifier
	logger   *slog.Logger
}

func NewService(cards CardStore, orders OrderStore, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		cards:    cards,
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

type CreateOrderInput struct {
	CustomerID      string
	CustomerEmail   string
	CardID          string
	Quantity        int
	ShippingAddress string
	City            string
	State           string
	PostalCode      string
	Country         string
	PhoneNumber     string
}

func (in CreateOrderInput) validate() error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return domain.ErrCustomerRequired
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return domain.ErrRecipientRequired
	}
	if in.Quantity <= 0 {
		return domain.ErrQuantityInvalid
	}
	return domain.ValidatePhoneNumber(in.PhoneNumber)
}

func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*domain.OrderProjection, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	card, err := s.cards.Get(ctx, input.CardID)
	if err != nil {
		return nil, fmt.Errorf("load card: %w", err)
	}
	if card == nil {
		return nil, domain.ErrCardNotFound
	}
	if !card.Active {
		return nil, domain.ErrCardInactive
	}

	snapshot := domain.CaptureCreation()

	order := &domain.CardOrder{
		CustomerID:    input.CustomerID,
		CustomerEmail: input.CustomerEmail,
		CardID:        card.ID,
		Quantity:      input.Quantity,
		Status:        domain.OrderStatusPending,
		// The unit price is sampled once, here. Later catalog price
		// changes never touch this order's total.
		TotalAmountMinor: card.PriceMinor * int64(input.Quantity),
		ShippingAddress:  input.ShippingAddress,
		City:             input.City,
		State:            input.State,
		PostalCode:       input.PostalCode,
		Country:          input.Country,
		PhoneNumber:      input.PhoneNumber,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.cards.AddTotalOrders(ctx, card.ID, order.Quantity); err != nil {
		// The order row is committed but the counter is not. Surface
		// the error; recalculate repairs the drift out of band.
		s.logger.Error("card aggregate update failed, counter needs recalculation",
			"error", err, "card_id", card.ID, "order_id", order.ID)
		return nil, fmt.Errorf("update card aggregate: %w", err)
	}

	ordersCreated.Add(ctx, 1)
	quantityDelta.Add(ctx, int64(order.Quantity))

	s.notifier.OrderSaved(ctx, snapshot, order, card)

	projection := domain.ProjectOrder(order, card)
	return &projection, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.OrderProjection, error) {
	if !next.Valid() {
		return nil, domain.ErrStatusInvalid
	}

	order, card, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.CaptureChanges(order)

	if next != order.Status {
		if !order.Status.CanTransitionTo(next) {
			return nil, domain.ErrTransitionInvalid
		}
		order.Status = next

		if err := s.orders.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("persist order: %w", err)
		}
	}

	s.notifier.OrderSaved(ctx, snapshot, order, card)

	projection := domain.ProjectOrder(order, card)
	return &projection, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, orderID string, quantity int) (*domain.OrderProjection, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantityInvalid
	}

	order, card, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.CaptureChanges(order)
	delta := quantity - order.Quantity

	if delta != 0 {
		// Recompute the total at the original unit price, not the
		// current catalog price.
		unitPrice := order.UnitPriceMinor()
		order.Quantity = quantity
		order.TotalAmountMinor = unitPrice * int64(quantity)

		if err := s.orders.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("persist order: %w", err)
		}

		if err := s.cards.AddTotalOrders(ctx, order.CardID, delta); err != nil {
			s.logger.Error("card aggregate update failed, counter needs recalculation",
				"error", err, "card_id", order.CardID, "order_id", order.ID)
			return nil, fmt.Errorf("update card aggregate: %w", err)
		}
		quantityDelta.Add(ctx, int64(delta))
	}

	s.notifier.OrderSaved(ctx, snapshot, order, card)

	projection := domain.ProjectOrder(order, card)
	return &projection, nil
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	order, _, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err := s.cards.ReduceTotalOrders(ctx, order.CardID, order.Quantity); err != nil {
		s.logger.Error("card aggregate update failed, counter needs recalculation",
			"error", err, "card_id", order.CardID, "order_id", orderID)
		return fmt.Errorf("update card aggregate: %w", err)
	}

	ordersDeleted.Add(ctx, 1)
	quantityDelta.Add(ctx, -int64(order.Quantity))

	// Deletion sends no notification.
	return nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*domain.OrderProjection, error) {
	order, card, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	projection := domain.ProjectOrder(order, card)
	return &projection, nil
}

func (s *Service) List(ctx context.Context, customerID string) ([]domain.OrderProjection, error) {
	orders, err := s.orders.List(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for _, order := range orders {
		if !seen[order.CardID] {
			seen[order.CardID] = true
			ids = append(ids, order.CardID)
		}
	}

	names, err := s.cards.Names(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve card names: %w", err)
	}

	projections := make([]domain.OrderProjection, 0, len(orders))
	for i := range orders {
		projections = append(projections, domain.OrderProjection{
			CardOrder:   orders[i],
			CardName:    names[orders[i].CardID],
			StatusLabel: orders[i].Status.Label(),
		})
	}

	return projections, nil
}

func (s *Service) load(ctx context.Context, orderID string) (*domain.CardOrder, *domain.Card, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, nil, domain.ErrOrderNotFound
	}

	card, err := s.cards.Get(ctx, order.CardID)
	if err != nil {
		return nil, nil, fmt.Errorf("load card: %w", err)
	}
	if card == nil {
		return nil, nil, domain.ErrCardNotFound
	}

	return order, card, nil
}
