package postgres

import (
	"context"
	"testing"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentials() *domain.MerchantCredentials {
	return &domain.MerchantCredentials{
		MerchantID:     "MERCHANT_1",
		BlowfishSecret: "blowfish-password",
		HMACSecret:     "hmac-password",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestCredentialsRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCredentialsRepo(mock)
	c := newTestCredentials()

	mock.ExpectExec("INSERT INTO merchant_credentials").
		WithArgs(c.MerchantID, c.BlowfishSecret, c.HMACSecret, c.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Upsert(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepo_GetByMerchantID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCredentialsRepo(mock)
	c := newTestCredentials()

	mock.ExpectQuery("SELECT .+ FROM merchant_credentials WHERE merchant_id").
		WithArgs(c.MerchantID).
		WillReturnRows(pgxmock.NewRows([]string{"merchant_id", "blowfish_secret", "hmac_secret", "created_at"}).
			AddRow(c.MerchantID, c.BlowfishSecret, c.HMACSecret, c.CreatedAt))

	result, err := repo.GetByMerchantID(context.Background(), c.MerchantID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c.MerchantID, result.MerchantID)
	assert.Equal(t, c.BlowfishSecret, result.BlowfishSecret)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepo_GetByMerchantID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCredentialsRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM merchant_credentials WHERE merchant_id").
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows([]string{"merchant_id", "blowfish_secret", "hmac_secret", "created_at"}))

	result, err := repo.GetByMerchantID(context.Background(), "NOPE")
	require.NoError(t, err, "missing credentials are a nil result, not an error")
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
