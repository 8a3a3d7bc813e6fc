// Package kernel assembles the HTTP application: storage, token service,
// order fulfillment, middleware and routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/controllers"
	"github.com/shashiranjanraj/jwtpizza/app/repositories"
	"github.com/shashiranjanraj/jwtpizza/app/routes"
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/config"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/cache"
	"github.com/shashiranjanraj/jwtpizza/pkg/database"
	"github.com/shashiranjanraj/jwtpizza/pkg/factory"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
	"github.com/shashiranjanraj/jwtpizza/pkg/middleware"
	"github.com/shashiranjanraj/jwtpizza/pkg/reqid"
	"github.com/shashiranjanraj/jwtpizza/pkg/response"
	"github.com/shashiranjanraj/jwtpizza/pkg/router"
)

// Options are the kernel's external dependencies. Nil fields fall back to
// in-process implementations or to configuration.
type Options struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Fulfiller factory.Fulfiller
}

type Kernel struct {
	Router *router.Router
	Auth   *services.AuthService
	Tokens *auth.TokenService

	db    *gorm.DB
	redis *redis.Client
}

// Boot connects to the configured database and, when reachable, Redis.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := database.Connect(); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if addr := config.RedisAddr(); addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		client, err := cache.Connect(pingCtx, addr, config.RedisPassword())
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, using in-process revocation and cache", "addr", addr, "error", err)
		} else {
			rdb = client
		}
	}

	return New(Options{DB: database.DB, Redis: rdb}), nil
}

// New wires repositories, services, controllers and routes.
func New(opts Options) *Kernel {
	var (
		revoker auth.Revoker
		store   cache.Store
	)
	if opts.Redis != nil {
		revoker = auth.NewRedisRevoker(opts.Redis)
		store = cache.NewRedisStore(opts.Redis)
	} else {
		revoker = auth.NewMemoryRevoker()
		store = cache.NewMemoryStore()
	}

	fulfiller := opts.Fulfiller
	if fulfiller == nil {
		fulfiller = defaultFulfiller()
	}

	tokens := auth.NewTokenService(config.JWTSecret(), config.JWTIssuer(), config.TokenTTL(), revoker)

	users := repositories.NewUserRepository(opts.DB)
	franchises := repositories.NewFranchiseRepository(opts.DB)
	menu := repositories.NewMenuRepository(opts.DB)
	orders := repositories.NewOrderRepository(opts.DB)

	authService := services.NewAuthService(users, tokens)
	menuService := services.NewMenuService(menu, store, config.MenuCacheTTL())

	k := &Kernel{
		Router: router.New(),
		Auth:   authService,
		Tokens: tokens,
		db:     opts.DB,
		redis:  opts.Redis,
	}

	// outermost first: metrics see total latency, recovery guards the rest
	r := k.Router
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(config.IsProduction()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", k.health)

	routes.RegisterAPI(r, tokens, routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Franchise: controllers.NewFranchiseController(services.NewFranchiseService(franchises, users)),
		Order:     controllers.NewOrderController(services.NewOrderService(orders, menu, fulfiller), menuService),
		User:      controllers.NewUserController(services.NewUserService(users, tokens)),
	})
	return k
}

func (k *Kernel) Handler() http.Handler {
	return k.Router.Handler()
}

// Close releases the Redis client and database pool.
func (k *Kernel) Close() error {
	if k.redis != nil {
		if err := k.redis.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	if k.db != nil {
		return database.Close(k.db)
	}
	return nil
}

func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"database": "ok"}
	code := http.StatusOK

	if sqlDB, err := k.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if k.redis != nil {
		status["redis"] = "ok"
		if err := k.redis.Ping(r.Context()).Err(); err != nil {
			status["redis"] = "down"
			code = http.StatusServiceUnavailable
		}
	}
	response.JSON(w, code, status)
}

func defaultFulfiller() factory.Fulfiller {
	if url := config.FactoryURL(); url != "" {
		return factory.NewClient(url, config.FactoryAPIKey(), config.FactoryTimeout(), config.FactoryRetries())
	}
	logger.Info("FACTORY_URL not set, signing order receipts locally")
	return factory.NewLocalSigner(config.ReceiptSecret(), config.JWTIssuer())
}
