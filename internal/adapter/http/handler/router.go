package handler

import (
	"computop-gateway/internal/adapter/http/middleware"
	redisStore "computop-gateway/internal/adapter/storage/redis"
	"computop-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	CheckoutSvc    ports.CheckoutService
	Verifier       ports.CallbackVerifier
	Applier        ports.PaymentApplier
	OrderRepo      ports.OrderRepository
	PaymentRepo    ports.PaymentRepository
	CredsRepo      ports.CredentialsRepository
	Dedup          ports.CallbackDedup        // nil = duplicate-notify suppression disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	OrderBaseURL   string // platform base URL for the post-payment redirect
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Platform API (JSON) ---
	checkoutHandler := NewCheckoutHandler(deps.CheckoutSvc)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", rl("checkout"), checkoutHandler.Checkout)
	}

	// --- Gateway callbacks (capability URLs, plain-text/redirect protocol) ---
	cb := NewCallbackHandler(
		deps.OrderRepo, deps.PaymentRepo, deps.CredsRepo,
		deps.Verifier, deps.Applier, deps.Dedup,
		deps.OrderBaseURL, deps.Logger,
	)
	callback := r.Group("/callback/:provider")
	{
		callback.GET("/return/:order/:hash/:payment", rl("callback_return"), cb.ReturnView)
		callback.POST("/return/:order/:hash/:payment", rl("callback_return"), cb.ReturnView)
		callback.GET("/notify/:order/:hash/:payment", rl("callback_notify"), cb.NotifyView)
		callback.POST("/notify/:order/:hash/:payment", rl("callback_notify"), cb.NotifyView)
	}

	return r
}
