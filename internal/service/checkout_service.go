package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// msgVer is the gateway protocol version sent with every checkout request.
const msgVer = "2.0"

// CheckoutConfig holds the gateway-wide settings the request builder needs.
type CheckoutConfig struct {
	GatewayBaseURL  string // e.g. https://www.computop-paygate.com
	ServerBaseURL   string // public base URL for return/notify callbacks
	DefaultLanguage string // 2-letter fallback language
	Simulation      bool   // request gateway test mode via OrderDesc
}

// CheckoutServiceImpl implements ports.CheckoutService: it assembles the
// outbound checkout redirect, signs and encrypts it, and persists the full
// request on the payment's audit record before returning the URL.
type CheckoutServiceImpl struct {
	orderRepo   ports.OrderRepository
	paymentRepo ports.PaymentRepository
	credsRepo   ports.CredentialsRepository
	transactor  ports.DBTransactor
	cipher      ports.CipherService
	mac         ports.MACService
	registry    *domain.PayMethodRegistry
	cfg         CheckoutConfig
	log         zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	orderRepo ports.OrderRepository,
	paymentRepo ports.PaymentRepository,
	credsRepo ports.CredentialsRepository,
	transactor ports.DBTransactor,
	cipher ports.CipherService,
	mac ports.MACService,
	registry *domain.PayMethodRegistry,
	cfg CheckoutConfig,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		credsRepo:   credsRepo,
		transactor:  transactor,
		cipher:      cipher,
		mac:         mac,
		registry:    registry,
		cfg:         cfg,
		log:         log,
	}
}

// BuildRedirect implements the checkout handoff for an existing payment.
func (s *CheckoutServiceImpl) BuildRedirect(ctx context.Context, req ports.CheckoutRequest) (string, error) {
	order, err := s.orderRepo.GetByCode(ctx, req.OrderCode)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("find order: %w", err))
	}
	if order == nil {
		return "", apperror.ErrUnknownOrder()
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("find payment: %w", err))
	}
	if payment == nil || payment.OrderID != order.ID {
		return "", apperror.ErrUnknownPayment()
	}
	if payment.State != domain.PaymentStateCreated {
		return "", apperror.ErrPaymentNotPending()
	}

	methodID := payment.Provider
	if req.Method != "" {
		methodID = req.Method
	}
	method, ok := s.registry.Lookup(methodID)
	if !ok {
		return "", apperror.ErrUnknownPayMethod(methodID)
	}

	creds, err := s.credsRepo.GetByMerchantID(ctx, order.MerchantID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("load credentials: %w", err))
	}
	if creds == nil {
		return "", apperror.ErrMissingCredentials(order.MerchantID)
	}

	transID := payment.FullID(order.Code)
	returnURL := s.callbackURL("return", methodID, order, payment)
	notifyURL := s.callbackURL("notify", methodID, order, payment)

	amountMinor := domain.ToMinorUnits(payment.Amount, order.Currency)
	if amountMinor <= 0 {
		return "", apperror.ErrInvalidAmount()
	}
	amountStr := strconv.FormatInt(amountMinor, 10)

	orderDesc := "Order " + order.Code
	if s.cfg.Simulation {
		// Gateway simulation mode: Test:0000 succeeds, Test:0305 fails.
		orderDesc = "Test:0000"
	}

	// Outbound MAC slots: ("", transID, merchantID, amount, currency).
	mac := s.mac.Compute(creds.MACKey(), "", transID, creds.MerchantID, amountStr, order.Currency)

	fields := []Field{
		{"MerchantID", creds.MerchantID},
		{"TransID", transID},
		{"OrderDesc", orderDesc},
		{"MsgVer", msgVer},
		{"RefNr", transID},
		{"Amount", amountStr},
		{"Currency", order.Currency},
		{"URLSuccess", returnURL},
		{"URLFailure", returnURL},
		{"URLNotify", notifyURL},
		{"MAC", mac},
		{"Response", "encrypt"},
	}
	plain := EncodeFields(fields)

	cipherHex, plainLen, err := s.cipher.Encrypt(creds.CipherKey(), plain)
	if err != nil {
		return "", apperror.ErrCipherFailure(err)
	}

	payload := []Field{
		{"MerchantID", creds.MerchantID},
		{"Len", strconv.Itoa(plainLen)},
		{"Data", cipherHex},
		{"URLBack", returnURL},
		{"Language", s.language(order)},
	}

	if err := s.persistCheckoutAudit(ctx, payment, fields, cipherHex, plainLen, payload); err != nil {
		return "", err
	}

	redirect := fmt.Sprintf("%s/%s?%s", s.cfg.GatewayBaseURL, method.EndpointPath, EncodeFields(payload))

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("trans_id", transID).
		Str("method", method.Identifier).
		Int64("amount_minor", amountMinor).
		Str("currency", order.Currency).
		Msg("checkout redirect built")

	return redirect, nil
}

// callbackURL builds the return/notify URL embedding the order capability hash.
func (s *CheckoutServiceImpl) callbackURL(kind, provider string, order *domain.Order, payment *domain.Payment) string {
	return fmt.Sprintf("%s/callback/%s/%s/%s/%s/%s",
		s.cfg.ServerBaseURL, provider, kind, order.Code, order.SecretHash(), payment.ID)
}

// language derives the 2-letter gateway language from the order locale.
func (s *CheckoutServiceImpl) language(order *domain.Order) string {
	if len(order.Locale) >= 2 {
		return order.Locale[:2]
	}
	return s.cfg.DefaultLanguage
}

// persistCheckoutAudit stores {plain fields, cipher output, final payload}
// on the payment before the redirect is returned, so later callbacks can be
// audited against exactly what was sent.
func (s *CheckoutServiceImpl) persistCheckoutAudit(
	ctx context.Context,
	payment *domain.Payment,
	fields []Field,
	cipherHex string,
	plainLen int,
	payload []Field,
) error {
	audit := map[string]interface{}{
		"checkout": map[string]interface{}{
			"data":    fieldsToMap(fields),
			"len":     plainLen,
			"cipher":  cipherHex,
			"payload": fieldsToMap(payload),
		},
	}
	info, err := json.Marshal(audit)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("marshal checkout audit: %w", err))
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.paymentRepo.SetInfo(ctx, tx, payment.ID, info); err != nil {
		return apperror.InternalError(fmt.Errorf("persist checkout audit: %w", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	payment.Info = info
	return nil
}

func fieldsToMap(fields []Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return m
}
