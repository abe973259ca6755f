package handler

import (
	"sms-payment-service/internal/adapter/http/middleware"
	redisStore "sms-payment-service/internal/adapter/storage/redis"
	"sms-payment-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	AccountSvc     ports.AccountService
	AuthSvc        ports.AuthService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10)) // 64 KB request body limit

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

	accountHandler := NewAccountHandler(deps.AccountSvc)
	smsHandler := NewSMSHandler(deps.TransferSvc)
	authHandler := NewAuthHandler(deps.AuthSvc)

	r.POST("/sync", rl("sync"), accountHandler.Sync)
	r.POST("/addbalance", rl("addbalance"), accountHandler.AddBalance)
	r.POST("/sms-webhook", rl("sms_webhook"), smsHandler.Webhook)
	r.GET("/transactions/:user_id", rl("sync"), accountHandler.ListTransactions)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", rl("auth_signup"), authHandler.Signup)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	return r
}
