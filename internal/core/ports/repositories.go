package ports

import (
	"context"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	// MarkPaid transitions the order to PAID inside a database transaction.
	// A no-op if the order is already paid.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// PaymentRepository defines persistence operations for payments.
// Methods accepting pgx.Tx run inside transaction blocks; GetByIDForUpdate
// takes a row-level lock so concurrent return/notify deliveries serialize.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// GetByIDForUpdate fetches the payment with SELECT ... FOR UPDATE,
	// additionally matching the provider identifier prefix from the callback URL.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID, providerPrefix string) (*domain.Payment, error)
	// SetInfo overwrites the payment's audit info blob.
	SetInfo(ctx context.Context, tx pgx.Tx, id uuid.UUID, info []byte) error
	// Confirm transitions the payment to CONFIRMED.
	Confirm(ctx context.Context, tx pgx.Tx, id uuid.UUID, confirmedAt time.Time) error
	// Fail transitions the payment to FAILED, attaching the raw gateway
	// response as failure detail.
	Fail(ctx context.Context, tx pgx.Tx, id uuid.UUID, failureInfo []byte) error
}

// CredentialsRepository defines persistence for per-tenant gateway credentials.
type CredentialsRepository interface {
	Upsert(ctx context.Context, creds *domain.MerchantCredentials) error
	GetByMerchantID(ctx context.Context, merchantID string) (*domain.MerchantCredentials, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
