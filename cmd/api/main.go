package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/configs"
	v1 "task-manager/internal/api/v1"
	"task-manager/internal/cache"
	"task-manager/internal/config"
	"task-manager/internal/middleware"
	"task-manager/internal/repository"
	"task-manager/internal/service"
	"task-manager/internal/websocket"
	"task-manager/pkg/database"
	"task-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		log.Fatalf("init loggers: %v", err)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))
	if cfg.UsesDefaultSecret() {
		logger.SystemLogger.Warn("JWT_SECRET is not set, tokens are signed with the default secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.ErrorLogger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStore()

	if cfg.SeedStatuses {
		if err := repository.SeedDefaultStatuses(ctx, store); err != nil {
			logger.ErrorLogger.Fatal("Failed to seed task statuses", zap.Error(err))
		}
	}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisEnabled {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.ErrorLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		c = cache.NewRedis(client, cfg.CacheTTL)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	deps := config.NewDependencies(cfg.BaseURL, store, c, tokens, hub)

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderRequestID,
		ExposeHeaders: middleware.HeaderRequestID,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
	}))

	v1.RegisterRoutes(app, deps)

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.ErrorLogger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr), zap.String("base_url", cfg.BaseURL))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}

// openStore connects to Postgres, creates the schema and returns the store
// with a function releasing the connection.
func openStore(cfg configs.Config) (repository.Store, func(), error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SystemLogger.Info("Database Connected")

	if err := repository.CreateTableIfNotExists(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewPostgresStore(db), func() { db.Close() }, nil
}
