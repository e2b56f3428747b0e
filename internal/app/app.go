// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/adapter/bank/plaid"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	"wallet-ledger/internal/adapter/identity/firebase"
	"wallet-ledger/internal/adapter/realtime"
	"wallet-ledger/internal/adapter/storage/memory"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App is a fully wired service ready to be served.
type App struct {
	Router *gin.Engine
	Hub    *realtime.Hub

	log     zerolog.Logger
	closers []func()
}

// Option overrides a dependency that would otherwise be built from config.
type Option func(*options)

type options struct {
	redis      goredis.UniversalClient
	httpClient *http.Client
	rateLimit  bool
}

// WithRedis uses an existing client instead of dialing cfg.Redis. The caller
// keeps ownership of the client.
func WithRedis(client goredis.UniversalClient) Option {
	return func(o *options) { o.redis = client }
}

// WithHTTPClient sets the client used for Plaid and Google certificate calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithoutRateLimit disables the per-route rate limits.
func WithoutRateLimit() Option {
	return func(o *options) { o.rateLimit = false }
}

type stores struct {
	wallets ports.WalletRepository
	users   ports.UserRepository
	links   ports.BankLinkRepository
	audit   ports.AuditRepository
	health  []ports.HealthChecker
}

// New builds every store, service and route described by cfg. Close must be
// called to release connections.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	o := options{rateLimit: true}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	a := &App{log: log}

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	rdb := o.redis
	if rdb == nil {
		client, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		rdb = client
	}
	st.health = append(st.health, redisStorage.NewHealthCheck(rdb))

	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing encryption service: %w", err)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Plaid.Timeout}
	}

	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	denylist := redisStorage.NewTokenDenylist(rdb)
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	var verifier ports.IdentityVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier = firebase.NewVerifier(cfg.Firebase, httpClient, log)
	} else {
		log.Warn().Msg("firebase.project_id not set, Google sign-in disabled")
	}

	a.Hub = realtime.NewHub(log)

	ledgerSvc := service.NewLedgerService(st.wallets, idempotencyCache, a.Hub, log)
	authSvc := service.NewAuthService(st.users, hashSvc, tokenSvc, verifier, denylist, log)
	userSvc := service.NewUserService(st.users, cfg.Password.MaxAge, cfg.Password.WarnBefore, log)
	auditSvc := service.NewAuditService(st.audit, log)
	tokenizer := service.NewAccountTokenizer(encSvc)

	var bankSvc ports.BankService
	if cfg.Plaid.ClientID != "" {
		bankSvc = service.NewBankService(plaid.NewClient(cfg.Plaid, httpClient, log), st.links, encSvc, log)
	} else {
		log.Warn().Msg("plaid.client_id not set, bank linking disabled")
	}

	deps := httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		AuthSvc:        authSvc,
		UserSvc:        userSvc,
		BankSvc:        bankSvc,
		Tokenizer:      tokenizer,
		TokenSvc:       tokenSvc,
		Denylist:       denylist,
		Hub:            a.Hub,
		HealthCheckers: st.health,
		AuditSvc:       auditSvc,
		Logger:         log,
		Mode:           cfg.Server.Mode,
	}
	if o.rateLimit {
		deps.RateLimitStore = redisStorage.NewRateLimitStore(rdb)
	}
	a.Router = httpHandler.SetupRouter(deps)

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		a.log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &stores{
			wallets: memory.NewWalletStore(),
			users:   memory.NewUserStore(),
			links:   memory.NewBankLinkStore(),
			audit:   memory.NewAuditStore(),
		}, nil
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, a.log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if cfg.Database.Migrate {
			if err := pgStorage.Migrate(ctx, pool, a.log); err != nil {
				return nil, fmt.Errorf("migrating postgres: %w", err)
			}
		}

		return &stores{
			wallets: pgStorage.NewWalletRepo(pool),
			users:   pgStorage.NewUserRepo(pool),
			links:   pgStorage.NewBankLinkRepo(pool),
			audit:   pgStorage.NewAuditRepo(pool),
			health:  []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// Server returns an HTTP server for the router on cfg's address.
func (a *App) Server(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
