package cards

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/cardflow/internal/domain"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	card.ID = uuid.New().String()
	card.CreatedAt = time.Now().UTC()
	card.UpdatedAt = card.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, description, price_minor, total_orders, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $6)
	`, card.ID, card.Name, card.Description, card.PriceMinor, card.Active, card.CreatedAt)
	return err
}

func (r *CardRepository) Get(ctx context.Context, id string) (*domain.Card, error) {
	card := &domain.Card{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price_minor, total_orders, active, created_at, updated_at
		FROM cards
		WHERE id = $1
	`, id).Scan(&card.ID, &card.Name, &card.Description, &card.PriceMinor,
		&card.TotalOrders, &card.Active, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return card, nil
}

func (r *CardRepository) List(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price_minor, total_orders, active, created_at, updated_at
		FROM cards
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(&card.ID, &card.Name, &card.Description, &card.PriceMinor,
			&card.TotalOrders, &card.Active, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// Names resolves card ids to display names in one query.
func (r *CardRepository) Names(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name
		FROM cards
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}

// AddTotalOrders applies delta to the card's total_orders counter in a
// single UPDATE. The increment happens inside the database, so
// concurrent mutations against the same card cannot lose updates the
// way a read-modify-write would.
func (r *CardRepository) AddTotalOrders(ctx context.Context, cardID string, delta int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cards
		SET total_orders = total_orders + $2, updated_at = NOW()
		WHERE id = $1
	`, cardID, delta)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

// ReduceTotalOrders subtracts quantity from total_orders, clamped at
// zero. The clamp tolerates drift from past partial failures instead of
// letting the counter go negative; it is a lossy floor, and
// Recalculate remains the authoritative repair.
func (r *CardRepository) ReduceTotalOrders(ctx context.Context, cardID string, quantity int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cards
		SET total_orders = GREATEST(total_orders - $2, 0), updated_at = NOW()
		WHERE id = $1
	`, cardID, quantity)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

// Recalculate rewrites total_orders from the authoritative sum over the
// card's existing orders. The correlated subquery runs inside one
// statement, so it sees a consistent snapshot of the orders even while
// live mutations continue. Idempotent.
func (r *CardRepository) Recalculate(ctx context.Context, cardID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		UPDATE cards
		SET total_orders = COALESCE((
			SELECT SUM(quantity) FROM card_orders WHERE card_id = cards.id
		), 0), updated_at = NOW()
		WHERE id = $1
		RETURNING total_orders
	`, cardID).Scan(&total)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrCardNotFound
		}
		return 0, err
	}

	return total, nil
}

// RecalculateAll repairs every card and returns the ids whose counter
// actually changed.
func (r *CardRepository) RecalculateAll(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE cards
		SET total_orders = COALESCE((
			SELECT SUM(quantity) FROM card_orders WHERE card_id = cards.id
		), 0), updated_at = NOW()
		WHERE total_orders <> COALESCE((
			SELECT SUM(quantity) FROM card_orders WHERE card_id = cards.id
		), 0)
		RETURNING id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var repaired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		repaired = append(repaired, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return repaired, nil
}
