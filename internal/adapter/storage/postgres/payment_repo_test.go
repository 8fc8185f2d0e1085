package postgres

import (
	"context"
	"testing"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(orderID uuid.UUID) *domain.Payment {
	return &domain.Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		LocalID:   1,
		Provider:  "computop_cc",
		State:     domain.PaymentStateCreated,
		Amount:    decimal.RequireFromString("23.50"),
		Info:      []byte(`{}`),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func paymentColumns() []string {
	return []string{"id", "order_id", "local_id", "provider", "state", "amount", "info", "failure_info", "created_at", "confirmed_at"}
}

func paymentRow(p *domain.Payment) *pgxmock.Rows {
	return pgxmock.NewRows(paymentColumns()).AddRow(
		p.ID, p.OrderID, p.LocalID, p.Provider, p.State,
		p.Amount, p.Info, p.FailureInfo, p.CreatedAt, p.ConfirmedAt,
	)
}

func TestPaymentRepo_Create_AssignsLocalID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())
	p.LocalID = 0

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(p.ID, p.OrderID, p.Provider, p.State, p.Amount, p.Info, p.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"local_id"}).AddRow(3))

	err = repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, p.LocalID, "local id comes back from the insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(paymentRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Provider, result.Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM payments WHERE id .+ provider LIKE .+ FOR UPDATE").
		WithArgs(p.ID, "computop").
		WillReturnRows(paymentRow(p))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, p.ID, "computop")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByIDForUpdate_ProviderMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())

	// A prefix that matches no provider yields no row, reported as not found.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM payments WHERE id .+ provider LIKE .+ FOR UPDATE").
		WithArgs(p.ID, "othergateway").
		WillReturnRows(pgxmock.NewRows(paymentColumns()))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, p.ID, "othergateway")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_SetInfo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())
	info := []byte(`{"callbacks":[]}`)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET info").
		WithArgs(info, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.SetInfo(context.Background(), tx, p.ID, info)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Confirm(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())
	confirmedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET state").
		WithArgs(domain.PaymentStateConfirmed, confirmedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Confirm(context.Background(), tx, p.ID, confirmedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Fail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment(uuid.New())
	failure := []byte("PayID=PAY-1&Code=00000305")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET state").
		WithArgs(domain.PaymentStateFailed, failure, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Fail(context.Background(), tx, p.ID, failure)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
