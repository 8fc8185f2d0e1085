package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a new payment attempt. The local id is the next sequence
// number within the order, computed in the same statement.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, order_id, local_id, provider, state, amount, info, created_at)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(local_id), 0) + 1 FROM payments WHERE order_id = $2),
			$3, $4, $5, $6, $7)
		RETURNING local_id`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.OrderID, p.Provider, p.State, p.Amount, p.Info, p.CreatedAt,
	).Scan(&p.LocalID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by its UUID (without locking).
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT id, order_id, local_id, provider, state, amount, info, failure_info, created_at, confirmed_at
		FROM payments WHERE id = $1`

	p := &domain.Payment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrderID, &p.LocalID, &p.Provider, &p.State,
		&p.Amount, &p.Info, &p.FailureInfo, &p.CreatedAt, &p.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate fetches a payment with pessimistic locking, constrained to
// providers matching the given prefix so a callback URL for one gateway family
// cannot address a payment of another. This MUST be called within a transaction.
func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID, providerPrefix string) (*domain.Payment, error) {
	query := `SELECT id, order_id, local_id, provider, state, amount, info, failure_info, created_at, confirmed_at
		FROM payments WHERE id = $1 AND provider LIKE $2 || '%' FOR UPDATE`

	p := &domain.Payment{}
	err := tx.QueryRow(ctx, query, id, providerPrefix).Scan(
		&p.ID, &p.OrderID, &p.LocalID, &p.Provider, &p.State,
		&p.Amount, &p.Info, &p.FailureInfo, &p.CreatedAt, &p.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment for update: %w", err)
	}
	return p, nil
}

// SetInfo replaces the payment's audit info blob within a transaction.
func (r *PaymentRepo) SetInfo(ctx context.Context, tx pgx.Tx, id uuid.UUID, info []byte) error {
	query := `UPDATE payments SET info = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, info, id)
	if err != nil {
		return fmt.Errorf("set payment info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}

// Confirm transitions a payment to CONFIRMED within a transaction.
func (r *PaymentRepo) Confirm(ctx context.Context, tx pgx.Tx, id uuid.UUID, confirmedAt time.Time) error {
	query := `UPDATE payments SET state = $1, confirmed_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, domain.PaymentStateConfirmed, confirmedAt, id)
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}

// Fail transitions a payment to FAILED within a transaction, attaching the
// raw gateway response for later inspection.
func (r *PaymentRepo) Fail(ctx context.Context, tx pgx.Tx, id uuid.UUID, failureInfo []byte) error {
	query := `UPDATE payments SET state = $1, failure_info = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, domain.PaymentStateFailed, failureInfo, id)
	if err != nil {
		return fmt.Errorf("fail payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}
