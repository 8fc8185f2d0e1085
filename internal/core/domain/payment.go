package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState represents the lifecycle state of a payment attempt.
// CONFIRMED and FAILED are terminal: once reached, only an identical outcome
// may be re-delivered (a no-op); a conflicting outcome is rejected.
type PaymentState string

const (
	PaymentStateCreated   PaymentState = "CREATED"
	PaymentStateConfirmed PaymentState = "CONFIRMED"
	PaymentStateFailed    PaymentState = "FAILED"
)

// Payment is one payment attempt for an order. Info accumulates the audit
// trail: the outbound checkout payload and every verified (or rejected)
// callback body, as opaque JSON.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	LocalID     int             `json:"local_id"` // sequence number within the order
	Provider    string          `json:"provider"` // payment method identifier, e.g. "computop_cc"
	State       PaymentState    `json:"state"`
	Amount      decimal.Decimal `json:"amount"`
	Info        []byte          `json:"-"` // audit JSON, forensic only
	FailureInfo []byte          `json:"-"` // raw gateway response attached on failure
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
}

// FullID is the gateway-facing payment reference, e.g. "A1B2C-P-1".
// It is used as TransID and RefNr in the outbound request.
func (p *Payment) FullID(orderCode string) string {
	return fmt.Sprintf("%s-P-%d", orderCode, p.LocalID)
}

// IsTerminal reports whether the payment has reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.State == PaymentStateConfirmed || p.State == PaymentStateFailed
}
