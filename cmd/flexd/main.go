// Command flexd serves the Flex account and profile API.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/flex"
	fiberadapter "github.com/lborres/flex/adapters/fiber"
	"github.com/lborres/flex/adapters/memory"
	pgxadapter "github.com/lborres/flex/adapters/pgx"
	"github.com/lborres/flex/internal/config"
)

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}|${queryParams}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer closeStorage()

	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))
	if cfg.Server.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     logFormat(),
			TimeFormat: "2006/01/02 15:04:05",
			TimeZone:   "Local",
		}))
	}

	f, err := flex.New(flex.Config{
		Secret:        cfg.Auth.Secret,
		Database:      storage,
		HTTP:          fiberadapter.New(app),
		SessionConfig: &flex.SessionConfig{MaxAge: cfg.Auth.SessionMaxAge},
		CacheConfig:   flex.CacheConfig{TTL: cfg.Cache.TTL, MaxSize: cfg.Cache.MaxSize},
		DisableCache:  cfg.Cache.Disabled,
		BasePath:      cfg.Server.BasePath,
	})
	if err != nil {
		log.Fatalf("could not create flex instance: %v", err)
	}

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Routes outside the API can reuse the session middleware.
	app.Get("/me", f.Protected, func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user":    fiberadapter.UserFrom(c),
			"session": fiberadapter.SessionFrom(c),
		})
	})

	if cfg.Auth.CleanupInterval > 0 {
		go f.Sessions.RunCleanup(ctx, cfg.Auth.CleanupInterval)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	log.Infow("flexd listening", "addr", cfg.Server.Addr, "base_path", f.BasePath)
	if err := app.Listen(cfg.Server.Addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("app.Listen: %v", err)
	}
}

// openStorage connects to Postgres when a URL is configured and falls back
// to in-memory storage otherwise.
func openStorage(ctx context.Context, db config.DatabaseConfig) (flex.Storage, func(), error) {
	if db.URL == "" {
		log.Warnw("no database url configured, using in-memory storage")
		return memory.New(), func() {}, nil
	}

	if db.Migrate {
		if err := pgxadapter.Migrate(db.URL); err != nil {
			return nil, nil, err
		}
	}

	pool, err := pgxpool.New(ctx, db.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pgxadapter.New(pool), pool.Close, nil
}
