package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/directory"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/editor"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (directory.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// userStore is what both storage backends provide.
type userStore interface {
	directory.UserRepo
	Ping(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) storage
	var store userStore
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Logger.Warn().Msg("using in-memory user store; data is lost on restart")
		store = memory.NewUserRepo()
	default:
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := deps.Migrate(ctx, db)
			cancel()
			if err != nil {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		}
		store = postgres.NewUserRepo(db)
	}

	// 2) redis record cache (best-effort)
	var cache directory.UserCache
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache disabled")
			_ = c.Close()
		} else if rc, ok := c.(*redis.Client); ok {
			logger.Logger.Info().Msg("redis connected")
			redisCli = rc
			cache = redis.NewUserCache(rc, cfg.UserCacheTTL)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		} else {
			_ = c.Close()
		}
	}

	// 3) publisher
	var pub directory.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt verifier")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (dev only)
	if cfg.IsDev() {
		postgres.SeedUsers(context.Background(), store, hasher)
	}

	// 5) services
	audit := func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	}

	dirSvc := directory.NewService(store, cache, pub).WithAudit(audit)
	screens := editor.NewRegistry(dirSvc, hasher, editor.RegistryConfig{
		IdleTTL:         cfg.SessionIdleTTL,
		DefaultPageSize: cfg.DefaultPageSize,
	}).WithAudit(audit)

	// 6) handlers + middleware
	readiness := map[string]http_handlers.Pinger{"database": store}
	if redisCli != nil {
		readiness["cache"] = redisCli
	}
	healthH := http_handlers.NewHealthHandler(readiness)
	usersH := http_handlers.NewUsersHandler(dirSvc, cfg.DefaultPageSize)
	screensH := http_handlers.NewScreensHandler(screens)

	authMW := middleware.Auth(signer, response.WriteError)
	adminMW := middleware.RequireAtLeast(string(domain.RoleAdmin), response.WriteError)

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:             healthH,
		Users:              usersH,
		Screens:            screensH,
		AuthMW:             authMW,
		AdminMW:            adminMW,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (directory.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
