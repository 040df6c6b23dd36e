package main

import (
	"context"
	"fmt"
	"time"

	"formsheet/internal/config"
	"formsheet/internal/handlers"
	"formsheet/internal/middleware"
	"formsheet/internal/repositories"
	"formsheet/internal/services"
	"formsheet/internal/tablestore"
	"formsheet/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewApp wires the store, services and handlers described by cfg into a Fiber app.
// The returned cleanup releases the store and broker connections.
func NewApp(ctx context.Context, cfg config.Config, logs *zap.SugaredLogger) (*fiber.App, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups := []func() error{closeStore}
	cleanup := func() {
		for _, fn := range cleanups {
			if err := fn(); err != nil {
				logs.Warnw("error during cleanup", "error", err)
			}
		}
	}

	// a nil *rabbitmq.Client must not end up inside the interface
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		publisher = mqClient
		cleanups = append(cleanups, mqClient.Close)
		logs.Infow("publishing events", "queue", rabbitmq.EventsQueue)
	}

	// --- Repositories ---
	userRepo := repositories.NewTableUserRepository(logs, store, cfg.UsersSheet)
	submissionRepo := repositories.NewTableSubmissionRepository(logs, store, cfg.SubmissionsSheet)

	// --- Services ---
	credentials := services.NewCredentialService(cfg.JWTSecret)
	authService := services.NewAuthService(logs, userRepo, credentials, publisher, cfg.SignupUniqueEmail)
	submissionService := services.NewSubmissionService(logs, submissionRepo, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(logs, authService)
	submissionHandler := handlers.NewSubmissionHandler(logs, submissionService)

	app := fiber.New(fiber.Config{AppName: "formsheet"})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	authHandler.RegisterRoutes(app)
	submissionHandler.RegisterRoutes(app, middleware.AuthRequired(logs, authService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
		})
	})

	return app, cleanup, nil
}

// openStore builds the TableStore selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg config.Config) (tablestore.TableStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverSheets:
		store, err := tablestore.NewSheetsStore(ctx, tablestore.SheetsConfig{
			ClientEmail:   cfg.ClientEmail,
			PrivateKey:    cfg.PrivateKey,
			SpreadsheetID: cfg.SheetID,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialector := sqlite.Open(cfg.DatabaseDSN)
		if cfg.StoreDriver == config.DriverPostgres {
			dialector = postgres.Open(cfg.DatabaseDSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		store, err := tablestore.NewGORMStore(db)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return store, sqlDB.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := tablestore.NewRedisStore(client, cfg.RedisPrefix)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, client.Close, nil

	case config.DriverMemory:
		return tablestore.NewMemoryStore(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
