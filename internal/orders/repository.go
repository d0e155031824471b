package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, customer_id, customer_email, card_id, quantity, status, total_amount_minor,
	shipping_address, city, state, postal_code, country, phone_number,
	order_date, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*domain.CardOrder, error) {
	order := &domain.CardOrder{}
	var address, city, state, postalCode, country, phone sql.NullString

	err := row.Scan(&order.ID, &order.CustomerID, &order.CustomerEmail, &order.CardID,
		&order.Quantity, &order.Status, &order.TotalAmountMinor,
		&address, &city, &state, &postalCode, &country, &phone,
		&order.OrderDate, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.ShippingAddress = address.String
	order.City = city.String
	order.State = state.String
	order.PostalCode = postalCode.String
	order.Country = country.String
	order.PhoneNumber = phone.String

	return order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.CardOrder) error {
	order.ID = uuid.New().String()
	order.OrderDate = time.Now().UTC()
	order.UpdatedAt = order.OrderDate

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO card_orders (
			id, customer_id, customer_email, card_id, quantity, status, total_amount_minor,
			shipping_address, city, state, postal_code, country, phone_number,
			order_date, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`, order.ID, order.CustomerID, order.CustomerEmail, order.CardID,
		order.Quantity, order.Status, order.TotalAmountMinor,
		nullable(order.ShippingAddress), nullable(order.City), nullable(order.State),
		nullable(order.PostalCode), nullable(order.Country), nullable(order.PhoneNumber),
		order.OrderDate)
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.CardOrder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM card_orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.CardOrder) error {
	order.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE card_orders
		SET quantity = $2, status = $3, total_amount_minor = $4, updated_at = $5
		WHERE id = $1
	`, order.ID, order.Quantity, order.Status, order.TotalAmountMinor, order.UpdatedAt)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM card_orders
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// List returns orders newest first, optionally restricted to one
// customer when customerID is non-empty.
func (r *OrderRepository) List(ctx context.Context, customerID string) ([]domain.CardOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM card_orders
		ORDER BY order_date DESC
	`
	args := []any{}
	if customerID != "" {
		query = `
			SELECT ` + orderColumns + `
			FROM card_orders
			WHERE customer_id = $1
			ORDER BY order_date DESC
		`
		args = append(args, customerID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var orders []domain.CardOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
