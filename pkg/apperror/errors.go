package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Callback Verification (VRF) ----

// ErrMalformedPayload covers ciphertext that is not valid hex or a response
// body that cannot be parsed as a query string at all.
func ErrMalformedPayload(err error) *AppError {
	return Wrap("VRF_001", "Malformed callback payload", http.StatusBadRequest, err)
}

// ErrVerificationFailed is returned for both merchant-id and MAC mismatches.
// The message is deliberately generic: callers must not learn which check failed.
func ErrVerificationFailed() *AppError {
	return New("VRF_002", "Could not verify the authenticity of the request", http.StatusUnauthorized)
}

// ErrConflictingOutcome signals a callback claiming an outcome inconsistent
// with the payment's terminal state. The existing state is kept.
func ErrConflictingOutcome(current string) *AppError {
	return New("VRF_003", fmt.Sprintf("Callback outcome conflicts with payment state %s", current), http.StatusConflict)
}

// ---- Order & Payment Lookup (ORD) ----

func ErrUnknownOrder() *AppError {
	return New("ORD_001", "Unknown order", http.StatusNotFound)
}

func ErrUnknownPayment() *AppError {
	return New("ORD_002", "Unknown payment", http.StatusNotFound)
}

// ---- Checkout (CHK) ----

func ErrInvalidAmount() *AppError {
	return New("CHK_001", "Invalid amount", http.StatusBadRequest)
}

func ErrUnknownPayMethod(identifier string) *AppError {
	return New("CHK_002", fmt.Sprintf("Unknown payment method %q", identifier), http.StatusBadRequest)
}

func ErrPaymentNotPending() *AppError {
	return New("CHK_003", "Payment is not awaiting checkout", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrCipherFailure(err error) *AppError {
	return Wrap("SYS_002", "Cipher service failure", http.StatusInternalServerError, err)
}

func ErrMissingCredentials(merchantID string) *AppError {
	return New("SYS_003", fmt.Sprintf("No gateway credentials configured for merchant %q", merchantID), http.StatusInternalServerError)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a CHK_001-style validation error.
func Validation(message string) *AppError {
	return New("CHK_001", message, http.StatusBadRequest)
}
