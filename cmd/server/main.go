package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/storefront/internal/cache"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/repository/postgres"
	"github.com/example/storefront/internal/routes"
	"github.com/example/storefront/internal/services"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	revocations, closeRevocations := buildRevocationStore(cfg)
	defer closeRevocations()

	app := fiber.New(fiber.Config{
		AppName:      "Storefront Backend",
		ErrorHandler: middleware.ErrorHandler(cfg.IsProduction()),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowCredentials: true,
	}))

	routes.Register(app, routes.Dependencies{
		Store:       postgres.NewStore(db),
		Revocations: revocations,
		Notifier:    services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat),
	}, cfg)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", cfg.AppPort, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		slog.Error("fiber.Listen error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler).With("service", "storefront"))
}

// buildRevocationStore uses Redis when configured and an in-process store
// otherwise. Revocations in the in-process store do not survive restarts.
func buildRevocationStore(cfg *config.Config) (cache.RevocationStore, func()) {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, refresh token revocations are kept in memory")
		return cache.NewMemoryRevocationStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	return cache.NewRedisRevocationStore(client), func() { _ = client.Close() }
}
