package domain

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// CodeSuccess is the gateway result code indicating a successful payment.
// Any other code is a failure once authenticity has been established.
const CodeSuccess = "00000000"

// Outcome classifies a verified callback.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	// OutcomeUnknown means authenticity did not hold; the payload must not be
	// trusted for any state transition.
	OutcomeUnknown Outcome = "UNKNOWN"
)

// CallbackPayload is the decoded inbound callback. Transient: only its raw
// form is persisted, as audit data on the payment.
type CallbackPayload struct {
	MerchantID string
	TransID    string
	PayID      string
	StatusCode string
	ResultCode string
	MAC        string // lower-cased, right-trimmed
	RawFields  url.Values
	RawDecoded string // decrypted query string, persisted for audit
}

// VerificationResult is derived by the verifier and consumed immediately by
// the state applier. Never persisted.
type VerificationResult struct {
	Authentic bool
	Outcome   Outcome
	Payload   CallbackPayload
}

// BuildCallbackDedupKey builds the Redis key used for best-effort duplicate
// notify suppression. Correctness does not depend on it; the row-level lock
// plus idempotent transitions do.
func BuildCallbackDedupKey(paymentID uuid.UUID, payID, code string) string {
	return fmt.Sprintf("callback:%s:%s:%s", paymentID, payID, code)
}
