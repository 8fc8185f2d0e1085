package postgres

import (
	"context"
	"errors"
	"fmt"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts a new order into the database.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (id, code, merchant_id, secret, status, total, currency, locale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.Code, o.MerchantID, o.Secret, o.Status,
		o.Total, o.Currency, o.Locale, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByCode fetches an order by its public code.
func (r *OrderRepo) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := `SELECT id, code, merchant_id, secret, status, total, currency, locale, created_at
		FROM orders WHERE code = $1`

	o := &domain.Order{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&o.ID, &o.Code, &o.MerchantID, &o.Secret, &o.Status,
		&o.Total, &o.Currency, &o.Locale, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by code: %w", err)
	}
	return o, nil
}

// MarkPaid transitions an order to PAID within a transaction. Marking an
// already-paid order again is a no-op update, not an error.
func (r *OrderRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, domain.OrderStatusPaid, id)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", id)
	}
	return nil
}
