package handler

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/pkg/apperror"
	"computop-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// acceptedBody is the plain-text acknowledgement the paygate expects from the
// notify endpoint. Anything else makes the gateway retry the delivery.
const acceptedBody = "[accepted]"

// dedupTTL bounds how long a notify delivery is remembered for duplicate
// suppression. The gateway retries for at most a day.
const dedupTTL = 24 * time.Hour

// CallbackHandler serves the gateway's return (browser) and notify
// (server-to-server) callbacks. Both routes are capability URLs: the order
// code alone is not enough, the SHA-1 hash of the order secret must match.
type CallbackHandler struct {
	orderRepo    ports.OrderRepository
	paymentRepo  ports.PaymentRepository
	credsRepo    ports.CredentialsRepository
	verifier     ports.CallbackVerifier
	applier      ports.PaymentApplier
	dedup        ports.CallbackDedup // nil = dedup disabled
	orderBaseURL string
	log          zerolog.Logger
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(
	orderRepo ports.OrderRepository,
	paymentRepo ports.PaymentRepository,
	credsRepo ports.CredentialsRepository,
	verifier ports.CallbackVerifier,
	applier ports.PaymentApplier,
	dedup ports.CallbackDedup,
	orderBaseURL string,
	log zerolog.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		credsRepo:    credsRepo,
		verifier:     verifier,
		applier:      applier,
		dedup:        dedup,
		orderBaseURL: orderBaseURL,
		log:          log,
	}
}

// ReturnView handles GET/POST /callback/:provider/return/:order/:hash/:payment.
// The customer's browser lands here after the paygate; the payload is verified
// and applied exactly like a notify, then the customer is sent back to the
// order page, with ?paid=yes once the payment is confirmed.
func (h *CallbackHandler) ReturnView(c *gin.Context) {
	order, payment, creds, err := h.resolve(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	raw, encrypted, err := rawPayload(c)
	if err != nil {
		response.Error(c, apperror.ErrMalformedPayload(err))
		return
	}
	if raw == "" {
		// Cancel path: the paygate sends the customer back via URLBack with
		// no payload. Nothing to verify, just land on the order page.
		c.Redirect(http.StatusFound, h.orderURL(order, order.IsPaid()))
		return
	}

	result, err := h.verifier.Verify(raw, creds, encrypted)
	if err != nil {
		response.Error(c, err)
		return
	}

	applied, err := h.applier.Apply(c.Request.Context(), ports.ApplyRequest{
		PaymentID:      payment.ID,
		ProviderPrefix: c.Param("provider"),
		Result:         result,
		Source:         "return",
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
			// Unauthentic or conflicting: the browser flow never explains
			// why, the customer just lands back on the order page.
			c.Redirect(http.StatusFound, h.orderURL(order, false))
			return
		}
		response.Error(c, err)
		return
	}

	h.log.Info().
		Str("order", order.Code).
		Str("payment_id", payment.ID.String()).
		Str("state", string(applied.State)).
		Msg("return callback processed")

	c.Redirect(http.StatusFound, h.orderURL(order, applied.State == domain.PaymentStateConfirmed))
}

// NotifyView handles GET/POST /callback/:provider/notify/:order/:hash/:payment.
// The paygate retries a notify until it receives a 2xx, so every processed
// delivery is acknowledged with "[accepted]" — including unauthentic and
// conflicting ones, which are audited and dropped. Only malformed input and
// internal failures answer 5xx.
func (h *CallbackHandler) NotifyView(c *gin.Context) {
	_, payment, creds, err := h.resolve(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	raw, encrypted, err := rawPayload(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "malformed payload")
		return
	}
	if raw == "" {
		// Payload-less delivery: nothing to verify or apply, acknowledge so
		// the gateway does not retry.
		c.String(http.StatusOK, acceptedBody)
		return
	}

	result, err := h.verifier.Verify(raw, creds, encrypted)
	if err != nil {
		c.String(http.StatusInternalServerError, "malformed payload")
		return
	}

	var dedupKey string
	if result.Authentic && h.dedup != nil {
		dedupKey = domain.BuildCallbackDedupKey(payment.ID, result.Payload.PayID, result.Payload.ResultCode)
		fresh, derr := h.dedup.CheckAndSet(c.Request.Context(), dedupKey, dedupTTL)
		if derr != nil {
			h.log.Warn().Err(derr).Msg("dedup store error, processing delivery anyway")
			dedupKey = ""
		} else if !fresh {
			h.log.Info().
				Str("payment_id", payment.ID.String()).
				Str("pay_id", result.Payload.PayID).
				Msg("duplicate notify suppressed")
			c.String(http.StatusOK, acceptedBody)
			return
		}
	}

	_, err = h.applier.Apply(c.Request.Context(), ports.ApplyRequest{
		PaymentID:      payment.ID,
		ProviderPrefix: c.Param("provider"),
		Result:         result,
		Source:         "notify",
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
			c.String(http.StatusOK, acceptedBody)
			return
		}
		// The outcome did not commit: forget the dedup key so the gateway's
		// retry is not suppressed as a duplicate.
		if dedupKey != "" {
			if derr := h.dedup.Delete(c.Request.Context(), dedupKey); derr != nil {
				h.log.Warn().Err(derr).Str("key", dedupKey).Msg("failed to release dedup key")
			}
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.String(http.StatusOK, acceptedBody)
}

// resolve authorizes the capability URL and loads order, payment and
// merchant credentials. Failures are indistinguishable 404s except for the
// missing-credentials configuration error.
func (h *CallbackHandler) resolve(c *gin.Context) (*domain.Order, *domain.Payment, *domain.MerchantCredentials, error) {
	ctx := c.Request.Context()
	providedHash := c.Param("hash")

	order, err := h.orderRepo.GetByCode(ctx, c.Param("order"))
	if err != nil {
		return nil, nil, nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
	}
	if order == nil {
		// Burn an equivalent comparison so an unknown order code is not
		// distinguishable from a bad hash by timing.
		dummy := sha1.Sum([]byte(uuid.NewString()))
		subtle.ConstantTimeCompare([]byte(hex.EncodeToString(dummy[:])), []byte(providedHash))
		return nil, nil, nil, apperror.ErrUnknownOrder()
	}
	if subtle.ConstantTimeCompare([]byte(order.SecretHash()), []byte(providedHash)) != 1 {
		return nil, nil, nil, apperror.ErrUnknownOrder()
	}

	paymentID, err := uuid.Parse(c.Param("payment"))
	if err != nil {
		return nil, nil, nil, apperror.ErrUnknownPayment()
	}
	payment, err := h.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, nil, apperror.InternalError(fmt.Errorf("find payment: %w", err))
	}
	if payment == nil || payment.OrderID != order.ID {
		return nil, nil, nil, apperror.ErrUnknownPayment()
	}

	creds, err := h.credsRepo.GetByMerchantID(ctx, order.MerchantID)
	if err != nil {
		return nil, nil, nil, apperror.InternalError(fmt.Errorf("load credentials: %w", err))
	}
	if creds == nil {
		return nil, nil, nil, apperror.ErrMissingCredentials(order.MerchantID)
	}

	return order, payment, creds, nil
}

// rawPayload extracts the callback body. The paygate delivers either an
// encrypted Data blob or plain query parameters, via GET or a urlencoded POST.
func rawPayload(c *gin.Context) (string, bool, error) {
	raw := c.Request.URL.RawQuery
	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", false, fmt.Errorf("reading callback body: %w", err)
		}
		if len(body) > 0 {
			raw = string(body)
		}
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return "", false, fmt.Errorf("parsing callback payload: %w", err)
	}
	if data := values.Get("Data"); data != "" {
		return data, true, nil
	}
	return raw, false, nil
}

func (h *CallbackHandler) orderURL(order *domain.Order, paid bool) string {
	u := fmt.Sprintf("%s/order/%s", h.orderBaseURL, order.Code)
	if paid {
		u += "?paid=yes"
	}
	return u
}
