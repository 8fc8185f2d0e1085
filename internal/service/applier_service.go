package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ApplierService implements ports.PaymentApplier. It runs the verified
// outcome against the payment record under a row-level lock: the audit write
// and the state transition commit atomically, and concurrent return/notify
// deliveries for the same payment serialize on the lock.
type ApplierService struct {
	paymentRepo ports.PaymentRepository
	orderRepo   ports.OrderRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewApplierService creates a new ApplierService.
func NewApplierService(
	paymentRepo ports.PaymentRepository,
	orderRepo ports.OrderRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ApplierService {
	return &ApplierService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		transactor:  transactor,
		log:         log,
	}
}

// auditEntry is one recorded callback delivery on the payment's info blob.
type auditEntry struct {
	Source     string `json:"source"`
	ReceivedAt string `json:"received_at"`
	Authentic  bool   `json:"authentic"`
	Outcome    string `json:"outcome"`
	Response   string `json:"response"` // decrypted raw query string
}

// Apply locks the payment, persists the raw payload as audit data, and then
// transitions state. Duplicate delivery of the same outcome is a no-op;
// a conflicting outcome is rejected and the existing state kept. The audit
// record is persisted even for rejected and duplicate callbacks.
func (s *ApplierService) Apply(ctx context.Context, req ports.ApplyRequest) (*domain.Payment, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	payment, err := s.paymentRepo.GetByIDForUpdate(ctx, tx, req.PaymentID, req.ProviderPrefix)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrUnknownPayment()
	}

	info, err := appendAudit(payment.Info, req.Source, req.Result)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build audit info: %w", err))
	}
	if err := s.paymentRepo.SetInfo(ctx, tx, payment.ID, info); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist audit info: %w", err))
	}
	payment.Info = info

	if !req.Result.Authentic {
		// No transition, but the audit record still commits.
		if err := tx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		s.log.Warn().
			Str("payment_id", payment.ID.String()).
			Str("source", req.Source).
			Msg("unauthentic callback rejected")
		return nil, apperror.ErrVerificationFailed()
	}

	switch req.Result.Outcome {
	case domain.OutcomeSuccess:
		if payment.State == domain.PaymentStateFailed {
			return s.commitConflict(ctx, tx, payment, req)
		}
		if payment.State != domain.PaymentStateConfirmed {
			now := time.Now().UTC()
			if err := s.paymentRepo.Confirm(ctx, tx, payment.ID, now); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("confirm payment: %w", err))
			}
			if err := s.orderRepo.MarkPaid(ctx, tx, payment.OrderID); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("mark order paid: %w", err))
			}
			payment.State = domain.PaymentStateConfirmed
			payment.ConfirmedAt = &now
		}

	case domain.OutcomeFailure:
		if payment.State == domain.PaymentStateConfirmed {
			return s.commitConflict(ctx, tx, payment, req)
		}
		if payment.State != domain.PaymentStateFailed {
			failure := []byte(req.Result.Payload.RawDecoded)
			if err := s.paymentRepo.Fail(ctx, tx, payment.ID, failure); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("fail payment: %w", err))
			}
			payment.State = domain.PaymentStateFailed
			payment.FailureInfo = failure
		}

	default:
		// Outcome UNKNOWN with Authentic=true cannot be produced by the
		// verifier; refuse to guess.
		return nil, apperror.InternalError(fmt.Errorf("unexpected outcome %q", req.Result.Outcome))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("state", string(payment.State)).
		Str("source", req.Source).
		Str("code", req.Result.Payload.ResultCode).
		Msg("callback outcome applied")

	return payment, nil
}

// commitConflict persists the audit trail for a conflicting outcome, keeps
// the existing state and reports the rejection.
func (s *ApplierService) commitConflict(ctx context.Context, tx pgx.Tx, payment *domain.Payment, req ports.ApplyRequest) (*domain.Payment, error) {
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.log.Error().
		Str("payment_id", payment.ID.String()).
		Str("state", string(payment.State)).
		Str("claimed_outcome", string(req.Result.Outcome)).
		Str("source", req.Source).
		Msg("conflicting callback outcome rejected")
	return nil, apperror.ErrConflictingOutcome(string(payment.State))
}

// appendAudit merges a new delivery record into the payment's info JSON.
// Info is a JSON object; each delivery is appended under the "callbacks" key
// so earlier entries (including the checkout payload) survive.
func appendAudit(existing []byte, source string, result domain.VerificationResult) ([]byte, error) {
	info := map[string]json.RawMessage{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &info); err != nil {
			// Non-object legacy info is preserved verbatim under its own key.
			info = map[string]json.RawMessage{"legacy": json.RawMessage(existing)}
		}
	}

	var callbacks []auditEntry
	if raw, ok := info["callbacks"]; ok {
		if err := json.Unmarshal(raw, &callbacks); err != nil {
			return nil, fmt.Errorf("unmarshal callbacks audit: %w", err)
		}
	}
	callbacks = append(callbacks, auditEntry{
		Source:     source,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Authentic:  result.Authentic,
		Outcome:    string(result.Outcome),
		Response:   result.Payload.RawDecoded,
	})

	raw, err := json.Marshal(callbacks)
	if err != nil {
		return nil, fmt.Errorf("marshal callbacks audit: %w", err)
	}
	info["callbacks"] = raw
	return json.Marshal(info)
}
