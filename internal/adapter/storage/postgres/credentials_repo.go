package postgres

import (
	"context"
	"errors"
	"fmt"

	"computop-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CredentialsRepo implements ports.CredentialsRepository.
type CredentialsRepo struct {
	pool Pool
}

// NewCredentialsRepo creates a new CredentialsRepo.
func NewCredentialsRepo(pool Pool) *CredentialsRepo {
	return &CredentialsRepo{pool: pool}
}

// Upsert inserts or replaces the gateway credentials for a merchant.
func (r *CredentialsRepo) Upsert(ctx context.Context, c *domain.MerchantCredentials) error {
	query := `INSERT INTO merchant_credentials (merchant_id, blowfish_secret, hmac_secret, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (merchant_id) DO UPDATE
		SET blowfish_secret = EXCLUDED.blowfish_secret, hmac_secret = EXCLUDED.hmac_secret`

	_, err := r.pool.Exec(ctx, query,
		c.MerchantID, c.BlowfishSecret, c.HMACSecret, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert merchant credentials: %w", err)
	}
	return nil
}

// GetByMerchantID fetches the gateway credentials for a merchant.
func (r *CredentialsRepo) GetByMerchantID(ctx context.Context, merchantID string) (*domain.MerchantCredentials, error) {
	query := `SELECT merchant_id, blowfish_secret, hmac_secret, created_at
		FROM merchant_credentials WHERE merchant_id = $1`

	c := &domain.MerchantCredentials{}
	err := r.pool.QueryRow(ctx, query, merchantID).Scan(
		&c.MerchantID, &c.BlowfishSecret, &c.HMACSecret, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant credentials: %w", err)
	}
	return c, nil
}
