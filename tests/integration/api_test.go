package integration

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	httpHandler "computop-gateway/internal/adapter/http/handler"
	redisStorage "computop-gateway/internal/adapter/storage/redis"
	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/internal/service"
	"computop-gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMerchantID     = "SHOP_DE"
	testBlowfishSecret = "bf-secret-16byte"
	testHMACSecret     = "hmac-secret"
	shopBaseURL        = "https://tickets.example.com"
	gatewayBaseURL     = "https://www.computop-paygate.com"
)

// testApp wires the real HTTP layer, middleware, handlers, and services
// against in-memory repositories and miniredis. Only postgres is replaced;
// everything else is the production stack.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	store  *memStore
	cipher ports.CipherService
	mac    ports.MACService

	orderRepo   *inMemoryOrderRepo
	paymentRepo *inMemoryPaymentRepo
	credsRepo   *inMemoryCredentialsRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newMemStore()
	orderRepo := newInMemoryOrderRepo(store)
	paymentRepo := newInMemoryPaymentRepo(store)
	credsRepo := newInMemoryCredentialsRepo(store)
	transactor := newInMemoryTransactor(store)

	dedupStore := redisStorage.NewDedupStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	cipherSvc := service.NewBlowfishCipherService()
	macSvc := service.NewHMACService()
	registry := domain.NewPayMethodRegistry(domain.DefaultPayMethods())

	log := logger.New("error", false)
	verifier := service.NewVerifierService(cipherSvc, macSvc, log)
	applier := service.NewApplierService(paymentRepo, orderRepo, transactor, log)
	checkoutSvc := service.NewCheckoutService(
		orderRepo, paymentRepo, credsRepo, transactor,
		cipherSvc, macSvc, registry,
		service.CheckoutConfig{
			GatewayBaseURL:  gatewayBaseURL,
			ServerBaseURL:   shopBaseURL,
			DefaultLanguage: "en",
			Simulation:      false,
		},
		log,
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CheckoutSvc:    checkoutSvc,
		Verifier:       verifier,
		Applier:        applier,
		OrderRepo:      orderRepo,
		PaymentRepo:    paymentRepo,
		CredsRepo:      credsRepo,
		Dedup:          dedupStore,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		OrderBaseURL:   shopBaseURL,
		Logger:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:      server,
		redis:       mr,
		store:       store,
		cipher:      cipherSvc,
		mac:         macSvc,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		credsRepo:   credsRepo,
	}
}

// noRedirectClient returns the HTTP client used to inspect 302 responses.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// seedScenario creates credentials, a pending order, and a created payment.
func (a *testApp) seedScenario(t *testing.T) (*domain.Order, *domain.Payment) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, a.credsRepo.Upsert(ctx, &domain.MerchantCredentials{
		MerchantID:     testMerchantID,
		BlowfishSecret: testBlowfishSecret,
		HMACSecret:     testHMACSecret,
	}))

	order := &domain.Order{
		ID:         uuid.New(),
		Code:       "A1B2C",
		MerchantID: testMerchantID,
		Secret:     "OrderSecret123",
		Status:     domain.OrderStatusPending,
		Total:      decimal.RequireFromString("23.50"),
		Currency:   "EUR",
		Locale:     "de-informal",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, a.orderRepo.Create(ctx, order))

	payment := &domain.Payment{
		ID:       uuid.New(),
		OrderID:  order.ID,
		Provider: "computop_cc",
		State:    domain.PaymentStateCreated,
		Amount:   order.Total,
	}
	require.NoError(t, a.paymentRepo.Create(ctx, payment))

	return order, payment
}

func signMAC(key string, slots ...string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(strings.Join(slots, "*")))
	return hex.EncodeToString(mac.Sum(nil))
}

// callbackBody builds a plain (unencrypted) notify/return payload with a
// MAC over the inbound slots (PayID, TransID, mid, Status, Code).
func callbackBody(payID, transID, mid, status, code string) string {
	mac := signMAC(testHMACSecret, payID, transID, mid, status, code)
	v := url.Values{}
	v.Set("mid", mid)
	v.Set("PayID", payID)
	v.Set("TransID", transID)
	v.Set("Status", status)
	v.Set("Code", code)
	v.Set("MAC", mac)
	return v.Encode()
}

func (a *testApp) notifyURL(order *domain.Order, payment *domain.Payment) string {
	return fmt.Sprintf("%s/callback/computop_cc/notify/%s/%s/%s",
		a.server.URL, order.Code, order.SecretHash(), payment.ID)
}

func (a *testApp) returnURL(order *domain.Order, payment *domain.Payment) string {
	return fmt.Sprintf("%s/callback/computop_cc/return/%s/%s/%s",
		a.server.URL, order.Code, order.SecretHash(), payment.ID)
}

func postNotify(t *testing.T, notifyURL, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(notifyURL, "application/x-www-form-urlencoded", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIntegration_CheckoutRedirect(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	reqBody, _ := json.Marshal(map[string]string{
		"order_code": order.Code,
		"payment_id": payment.ID.String(),
	})
	resp, err := http.Post(app.server.URL+"/api/v1/checkout", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			RedirectURL string `json:"redirect_url"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()

	redirect, err := url.Parse(envelope.Data.RedirectURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(envelope.Data.RedirectURL, gatewayBaseURL+"/payssl.aspx?"))

	q := redirect.Query()
	assert.Equal(t, testMerchantID, q.Get("MerchantID"))
	assert.Equal(t, "de", q.Get("Language"))
	require.NotEmpty(t, q.Get("Data"))

	// The Data blob must decrypt back to the signed inner request.
	plain, err := app.cipher.Decrypt([]byte(testBlowfishSecret), q.Get("Data"))
	require.NoError(t, err)
	inner, err := url.ParseQuery(plain)
	require.NoError(t, err)
	assert.Equal(t, order.Code+"-P-1", inner.Get("TransID"))
	assert.Equal(t, "2350", inner.Get("Amount"))
	assert.Equal(t, "EUR", inner.Get("Currency"))
	assert.Equal(t, strconv.Itoa(len(plain)), q.Get("Len"))

	expectedMAC := signMAC(testHMACSecret, "", inner.Get("TransID"), testMerchantID, "2350", "EUR")
	assert.Equal(t, expectedMAC, inner.Get("MAC"))

	// The checkout request is persisted as audit data on the payment.
	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Contains(t, string(stored.Info), "checkout")
}

func TestIntegration_NotifyConfirmsPayment(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	transID := payment.FullID(order.Code)
	body := callbackBody("PAYID-1", transID, testMerchantID, "OK", domain.CodeSuccess)

	resp := postNotify(t, app.notifyURL(order, payment), body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[accepted]", readBody(t, resp))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateConfirmed, stored.State)
	require.NotNil(t, stored.ConfirmedAt)

	orderAfter, err := app.orderRepo.GetByCode(context.Background(), order.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, orderAfter.Status)

	// The delivery is recorded on the payment's audit trail.
	assert.Contains(t, string(stored.Info), `"callbacks"`)
	assert.Contains(t, string(stored.Info), `"notify"`)
}

func TestIntegration_EncryptedNotify(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	plain := callbackBody("PAYID-ENC", payment.FullID(order.Code), testMerchantID, "OK", domain.CodeSuccess)
	cipherHex, plainLen, err := app.cipher.Encrypt([]byte(testBlowfishSecret), plain)
	require.NoError(t, err)

	v := url.Values{}
	v.Set("Data", cipherHex)
	v.Set("Len", strconv.Itoa(plainLen))

	resp := postNotify(t, app.notifyURL(order, payment), v.Encode())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[accepted]", readBody(t, resp))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateConfirmed, stored.State)
}

func TestIntegration_ReturnRedirectsWithPaidFlag(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	body := callbackBody("PAYID-2", payment.FullID(order.Code), testMerchantID, "OK", domain.CodeSuccess)

	resp, err := noRedirectClient().Get(app.returnURL(order, payment) + "?" + body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, shopBaseURL+"/order/"+order.Code+"?paid=yes", resp.Header.Get("Location"))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateConfirmed, stored.State)
}

func TestIntegration_PayloadlessReturnRedirects(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	// The URLBack cancel path: the customer comes back with no payload at
	// all. No verification, no transition, just the redirect.
	resp, err := noRedirectClient().Get(app.returnURL(order, payment))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, shopBaseURL+"/order/"+order.Code, resp.Header.Get("Location"))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, stored.State)
}

func TestIntegration_PayloadlessReturnAfterConfirm(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	// The notify confirms first; the payload-less return then already sees
	// a paid order and carries the flag.
	resp := postNotify(t, app.notifyURL(order, payment),
		callbackBody("PAYID-8", payment.FullID(order.Code), testMerchantID, "OK", domain.CodeSuccess))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := noRedirectClient().Get(app.returnURL(order, payment))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, shopBaseURL+"/order/"+order.Code+"?paid=yes", resp.Header.Get("Location"))
}

func TestIntegration_PayloadlessNotifyAccepted(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	resp := postNotify(t, app.notifyURL(order, payment), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[accepted]", readBody(t, resp))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, stored.State)
	assert.Equal(t, 0, app.store.confirmCount())
}

func TestIntegration_ReturnWithForgedMAC(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	v := url.Values{}
	v.Set("mid", testMerchantID)
	v.Set("PayID", "PAYID-3")
	v.Set("TransID", payment.FullID(order.Code))
	v.Set("Status", "OK")
	v.Set("Code", domain.CodeSuccess)
	v.Set("MAC", strings.Repeat("ab", 32))

	resp, err := noRedirectClient().Get(app.returnURL(order, payment) + "?" + v.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()

	// The browser lands back on the order page without the paid flag, and no
	// state transition happens.
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, shopBaseURL+"/order/"+order.Code, resp.Header.Get("Location"))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, stored.State)
	assert.Equal(t, 0, app.store.confirmCount())
}

func TestIntegration_DuplicateNotifySuppressed(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	body := callbackBody("PAYID-4", payment.FullID(order.Code), testMerchantID, "OK", domain.CodeSuccess)

	for i := 0; i < 3; i++ {
		resp := postNotify(t, app.notifyURL(order, payment), body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "[accepted]", readBody(t, resp))
	}

	assert.Equal(t, 1, app.store.confirmCount())
}

func TestIntegration_FailureThenConflictingSuccess(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)
	transID := payment.FullID(order.Code)

	// Authentic failure code fails the payment.
	resp := postNotify(t, app.notifyURL(order, payment),
		callbackBody("PAYID-5", transID, testMerchantID, "FAILED", "22000001"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[accepted]", readBody(t, resp))

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateFailed, stored.State)

	// A later success for the same payment conflicts: acknowledged so the
	// gateway stops retrying, but the failed state is kept.
	resp = postNotify(t, app.notifyURL(order, payment),
		callbackBody("PAYID-6", transID, testMerchantID, "OK", domain.CodeSuccess))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[accepted]", readBody(t, resp))

	stored, err = app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateFailed, stored.State)
	assert.Equal(t, 0, app.store.confirmCount())
}

func TestIntegration_WrongCapabilityHash(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	body := callbackBody("PAYID-7", payment.FullID(order.Code), testMerchantID, "OK", domain.CodeSuccess)
	badURL := fmt.Sprintf("%s/callback/computop_cc/notify/%s/%s/%s",
		app.server.URL, order.Code, strings.Repeat("0", 40), payment.ID)

	resp := postNotify(t, badURL, body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	stored, err := app.paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, stored.State)
}

func TestIntegration_MalformedNotifyPayload(t *testing.T) {
	app := newTestApp(t)
	order, payment := app.seedScenario(t)

	resp := postNotify(t, app.notifyURL(order, payment), "Data=zz-not-hex")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// TestIntegration_KnownVector pins the inbound verification to a fixed
// protocol vector: HMAC-SHA256("secret", "P1*T1*M1*00000000*00000000").
func TestIntegration_KnownVector(t *testing.T) {
	macSvc := service.NewHMACService()
	verifier := service.NewVerifierService(service.NewBlowfishCipherService(), macSvc, logger.New("error", false))

	creds := &domain.MerchantCredentials{
		MerchantID:     "M1",
		BlowfishSecret: "irrelevant-here",
		HMACSecret:     "secret",
	}

	const vector = "58b572697400303e9888635795c7e722879b3243b22aff4057c55e8b5d324636"
	raw := "mid=M1&PayID=P1&TransID=T1&Status=00000000&Code=00000000&MAC=" + vector

	result, err := verifier.Verify(raw, creds, false)
	require.NoError(t, err)
	assert.True(t, result.Authentic)
	assert.Equal(t, domain.OutcomeSuccess, result.Outcome)
}
