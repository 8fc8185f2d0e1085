package ports

import (
	"context"
	"time"

	"computop-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// CipherService is the symmetric codec for the gateway's Data parameter.
// Encrypt returns the hex ciphertext plus the unpadded plaintext length,
// which the protocol transmits separately as Len.
type CipherService interface {
	Encrypt(key []byte, plaintext string) (cipherHex string, plainLen int, err error)
	Decrypt(key []byte, cipherHex string) (string, error)
}

// MACService computes the keyed hash over the protocol's five-slot canonical
// string. The slot semantics differ by direction: outbound uses
// ("", transID, merchantID, amount, currency); inbound verification uses
// (payID, transID, merchantID, status, code). Slot order never changes.
type MACService interface {
	Compute(key []byte, payID, transID, merchantID, amountOrStatus, currencyOrCode string) string
	// Verify compares a supplied MAC in constant time.
	Verify(key []byte, mac string, payID, transID, merchantID, amountOrStatus, currencyOrCode string) bool
}

// CallbackVerifier authenticates an inbound callback. Pure: it classifies and
// never mutates payment state. The error return is reserved for malformed
// input (bad hex, unparseable query string); authentication failures are
// reported through VerificationResult, never distinguishable by error type.
type CallbackVerifier interface {
	Verify(rawPayload string, creds *domain.MerchantCredentials, encrypted bool) (domain.VerificationResult, error)
}

// ApplyRequest carries a verified callback into the state applier.
type ApplyRequest struct {
	PaymentID      uuid.UUID
	ProviderPrefix string // provider identifier from the callback URL
	Result         domain.VerificationResult
	Source         string // "return" or "notify", recorded in the audit trail
}

// PaymentApplier applies a verification result to a payment record exactly
// once. The payment row is fetched with an exclusive lock and the audit write
// plus transition commit atomically.
type PaymentApplier interface {
	Apply(ctx context.Context, req ApplyRequest) (*domain.Payment, error)
}

// CheckoutRequest identifies the payment to hand off to the gateway.
type CheckoutRequest struct {
	OrderCode string
	PaymentID uuid.UUID
	Method    string // payment method identifier, resolves the gateway page
}

// CheckoutService builds the outbound checkout redirect and persists the full
// request (plain fields, cipher output, final payload) on the payment's audit
// record before returning the URL.
type CheckoutService interface {
	BuildRedirect(ctx context.Context, req CheckoutRequest) (string, error)
}

// CallbackDedup is the Redis-layer duplicate-notify suppression (best effort;
// row locking remains the correctness mechanism).
type CallbackDedup interface {
	// CheckAndSet atomically records the key. Returns true if it is new.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Delete releases a recorded key, so a delivery whose outcome did not
	// commit can be retried without being suppressed.
	Delete(ctx context.Context, key string) error
}
