package service

import (
	"fmt"
	"strings"

	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// VerifierService implements ports.CallbackVerifier. It orchestrates the
// cipher codec and the MAC module to authenticate an inbound callback, and
// classifies the payment outcome. It never mutates payment state.
type VerifierService struct {
	cipher ports.CipherService
	mac    ports.MACService
	log    zerolog.Logger
}

// NewVerifierService creates a new VerifierService.
func NewVerifierService(cipher ports.CipherService, mac ports.MACService, log zerolog.Logger) *VerifierService {
	return &VerifierService{cipher: cipher, mac: mac, log: log}
}

// Verify decrypts (if needed) and decodes the payload, then checks merchant
// identity and the supplied MAC. Both checks always run; the result and the
// log record do not distinguish which one failed.
func (s *VerifierService) Verify(rawPayload string, creds *domain.MerchantCredentials, encrypted bool) (domain.VerificationResult, error) {
	plain := rawPayload
	if encrypted {
		decrypted, err := s.cipher.Decrypt(creds.CipherKey(), rawPayload)
		if err != nil {
			return domain.VerificationResult{}, apperror.ErrMalformedPayload(err)
		}
		plain = decrypted
	}

	values, err := DecodeQuery(plain)
	if err != nil {
		return domain.VerificationResult{}, apperror.ErrMalformedPayload(err)
	}

	// Both spellings of the merchant id occur across protocol variants.
	merchantID := FirstValue(values, "mid")
	if merchantID == "" {
		merchantID = FirstValue(values, "MerchantID")
	}

	payload := domain.CallbackPayload{
		MerchantID: merchantID,
		TransID:    FirstValue(values, "TransID"),
		PayID:      FirstValue(values, "PayID"),
		StatusCode: FirstValue(values, "Status"),
		ResultCode: FirstValue(values, "Code"),
		MAC:        strings.TrimRight(strings.ToLower(FirstValue(values, "MAC")), " \t\r\n"),
		RawFields:  values,
		RawDecoded: plain,
	}

	if payload.MAC == "" || payload.PayID == "" || payload.ResultCode == "" {
		return domain.VerificationResult{}, apperror.ErrMalformedPayload(
			fmt.Errorf("callback payload is missing required fields"))
	}

	// Evaluate both checks unconditionally so the timing does not depend on
	// which one fails.
	macOK := s.mac.Verify(creds.MACKey(), payload.MAC,
		payload.PayID, payload.TransID, creds.MerchantID, payload.StatusCode, payload.ResultCode)
	midOK := payload.MerchantID == creds.MerchantID
	authentic := midOK && macOK

	result := domain.VerificationResult{
		Authentic: authentic,
		Outcome:   domain.OutcomeUnknown,
		Payload:   payload,
	}
	if authentic {
		if payload.ResultCode == domain.CodeSuccess {
			result.Outcome = domain.OutcomeSuccess
		} else {
			result.Outcome = domain.OutcomeFailure
		}
	}

	s.log.Info().
		Str("pay_id", payload.PayID).
		Str("trans_id", payload.TransID).
		Bool("authentic", authentic).
		Str("outcome", string(result.Outcome)).
		Msg("callback verified")

	return result, nil
}
