package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/identity"
	"github.com/spendlog/spendlog/internal/middleware"
	"github.com/spendlog/spendlog/internal/transaction"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories fall back to memory when no database is configured (dev, tests).
	var userRepo identity.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
	}
	var txRepo transaction.Repository
	if d.DB != nil {
		txRepo = transaction.NewPostgresRepository(d.DB)
	} else {
		txRepo = transaction.NewMemoryRepository()
	}

	userHandler := identity.NewHandler(d.Cfg, identity.NewService(userRepo))
	txHandler := transaction.NewHandler(transaction.NewService(txRepo))

	api := app.Group("/api")

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterUserRoutes(api, userHandler, rateLimiter)

	// Protected routes
	authmw := middleware.BearerAuth(d.Cfg, userRepo)
	RegisterTransactionRoutes(api.Group("/transactions", authmw), txHandler)

	return nil
}
