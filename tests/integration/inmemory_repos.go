package integration

import (
	"context"
	"strings"
	"sync"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore is the shared backing state for the in-memory repositories. A
// single store-wide row lock stands in for SELECT ... FOR UPDATE: whichever
// transaction calls GetByIDForUpdate first holds it until Commit/Rollback,
// so concurrent return/notify deliveries serialize exactly like they do
// against postgres.
type memStore struct {
	mu      sync.Mutex
	rowLock sync.Mutex

	orders   map[uuid.UUID]*domain.Order
	payments map[uuid.UUID]*domain.Payment
	creds    map[string]*domain.MerchantCredentials

	confirmCalls int
	failCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[uuid.UUID]*domain.Order),
		payments: make(map[uuid.UUID]*domain.Payment),
		creds:    make(map[string]*domain.MerchantCredentials),
	}
}

func (s *memStore) confirmCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmCalls
}

func (s *memStore) failCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failCalls
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	return &c
}

func copyPayment(p *domain.Payment) *domain.Payment {
	c := *p
	c.Info = append([]byte(nil), p.Info...)
	c.FailureInfo = append([]byte(nil), p.FailureInfo...)
	if p.ConfirmedAt != nil {
		t := *p.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return &c
}

// memTx is a minimal pgx.Tx good enough for the repository interfaces: only
// Commit and Rollback are implemented, both releasing the row lock if this
// transaction holds it. Rollback after Commit is a no-op, matching the
// deferred-rollback pattern in the services.
type memTx struct {
	pgx.Tx
	store *memStore

	mu     sync.Mutex
	locked bool
}

func (t *memTx) acquireRowLock() {
	t.mu.Lock()
	held := t.locked
	t.mu.Unlock()
	if held {
		return
	}
	t.store.rowLock.Lock()
	t.mu.Lock()
	t.locked = true
	t.mu.Unlock()
}

func (t *memTx) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locked {
		t.store.rowLock.Unlock()
		t.locked = false
	}
}

func (t *memTx) Commit(_ context.Context) error   { t.release(); return nil }
func (t *memTx) Rollback(_ context.Context) error { t.release(); return nil }

type inMemoryTransactor struct{ store *memStore }

func newInMemoryTransactor(store *memStore) *inMemoryTransactor {
	return &inMemoryTransactor{store: store}
}

func (t *inMemoryTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &memTx{store: t.store}, nil
}

// --- OrderRepository ---

type inMemoryOrderRepo struct{ store *memStore }

func newInMemoryOrderRepo(store *memStore) *inMemoryOrderRepo {
	return &inMemoryOrderRepo{store: store}
}

func (r *inMemoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *inMemoryOrderRepo) GetByCode(_ context.Context, code string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.Code == code {
			return copyOrder(o), nil
		}
	}
	return nil, nil
}

func (r *inMemoryOrderRepo) MarkPaid(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if o, ok := r.store.orders[id]; ok && o.Status == domain.OrderStatusPending {
		o.Status = domain.OrderStatusPaid
	}
	return nil
}

// --- PaymentRepository ---

type inMemoryPaymentRepo struct{ store *memStore }

func newInMemoryPaymentRepo(store *memStore) *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{store: store}
}

func (r *inMemoryPaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	maxLocal := 0
	for _, p := range r.store.payments {
		if p.OrderID == payment.OrderID && p.LocalID > maxLocal {
			maxLocal = p.LocalID
		}
	}
	payment.LocalID = maxLocal + 1
	r.store.payments[payment.ID] = copyPayment(payment)
	return nil
}

func (r *inMemoryPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.payments[id]; ok {
		return copyPayment(p), nil
	}
	return nil, nil
}

func (r *inMemoryPaymentRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID, providerPrefix string) (*domain.Payment, error) {
	tx.(*memTx).acquireRowLock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payments[id]
	if !ok || !strings.HasPrefix(p.Provider, providerPrefix) {
		return nil, nil
	}
	return copyPayment(p), nil
}

func (r *inMemoryPaymentRepo) SetInfo(_ context.Context, _ pgx.Tx, id uuid.UUID, info []byte) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.payments[id]; ok {
		p.Info = append([]byte(nil), info...)
	}
	return nil
}

func (r *inMemoryPaymentRepo) Confirm(_ context.Context, _ pgx.Tx, id uuid.UUID, confirmedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.payments[id]; ok {
		p.State = domain.PaymentStateConfirmed
		t := confirmedAt
		p.ConfirmedAt = &t
		r.store.confirmCalls++
	}
	return nil
}

func (r *inMemoryPaymentRepo) Fail(_ context.Context, _ pgx.Tx, id uuid.UUID, failureInfo []byte) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.payments[id]; ok {
		p.State = domain.PaymentStateFailed
		p.FailureInfo = append([]byte(nil), failureInfo...)
		r.store.failCalls++
	}
	return nil
}

// --- CredentialsRepository ---

type inMemoryCredentialsRepo struct{ store *memStore }

func newInMemoryCredentialsRepo(store *memStore) *inMemoryCredentialsRepo {
	return &inMemoryCredentialsRepo{store: store}
}

func (r *inMemoryCredentialsRepo) Upsert(_ context.Context, creds *domain.MerchantCredentials) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *creds
	r.store.creds[creds.MerchantID] = &c
	return nil
}

func (r *inMemoryCredentialsRepo) GetByMerchantID(_ context.Context, merchantID string) (*domain.MerchantCredentials, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.creds[merchantID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}
