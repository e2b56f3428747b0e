package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/adapter/realtime"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	AuthSvc        ports.AuthService
	UserSvc        ports.UserService
	BankSvc        ports.BankService      // nil = bank linking disabled
	Tokenizer      ports.AccountTokenizer // nil = tokenization disabled
	TokenSvc       ports.TokenService
	Denylist       ports.TokenDenylist       // nil = revocation not enforced
	Hub            *realtime.Hub             // nil = no balance feed
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
	Mode           string // gin mode; empty = release
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep: every configured store)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

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

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.POST("/google", rl("auth_google"), authHandler.Google)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Denylist, deps.Logger)

	walletHandler := NewWalletHandler(deps.LedgerSvc)
	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("/user/:userId", rl("wallets"), walletHandler.ListByUser)
		wallets.GET("/:id", rl("wallets"), walletHandler.Get)
		wallets.PUT("/:id", rl("wallets"), walletHandler.Update)
		wallets.DELETE("/:id", rl("wallets"), walletHandler.Delete)
		wallets.POST("/:id/transactions", rl("transactions"), walletHandler.PostTransaction)
		wallets.GET("/:id/transactions", rl("wallets"), walletHandler.Summary)
	}

	userHandler := NewUserHandler(deps.UserSvc, deps.AuthSvc)
	users := v1.Group("/users", jwtAuth)
	{
		users.POST("", rl("users"), userHandler.Upsert)
		users.POST("/logout", rl("users"), userHandler.Logout)
		users.GET("/password/expiration", rl("users"), userHandler.PasswordExpiration)
		users.GET("/:email", rl("users"), userHandler.GetByEmail)
	}

	if deps.BankSvc != nil {
		plaidHandler := NewPlaidHandler(deps.BankSvc)
		plaid := v1.Group("/plaid", jwtAuth)
		{
			plaid.POST("/create_link_token", rl("plaid"), plaidHandler.CreateLinkToken)
			plaid.POST("/exchange_token", rl("plaid"), plaidHandler.ExchangeToken)
			plaid.GET("/accounts", rl("plaid"), plaidHandler.Accounts)
		}
	}

	if deps.Tokenizer != nil {
		tokenHandler := NewTokenHandler(deps.Tokenizer)
		v1.POST("/tokens/account", jwtAuth, rl("tokens"), tokenHandler.TokenizeAccount)
	}

	if deps.Hub != nil {
		v1.GET("/ws", jwtAuth, BalanceFeed(deps.Hub))
	}

	return r
}
