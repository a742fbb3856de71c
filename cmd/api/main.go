// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api runs the Moka authentication API server.
//
// Startup sequence: logger, configuration, PostgreSQL, Redis, migrations,
// token service, provider, domain wiring, HTTP server. Any failure before
// serving is fatal.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/moka/internal/api"
	"github.com/taibuivan/moka/internal/auth"
	"github.com/taibuivan/moka/internal/platform/config"
	"github.com/taibuivan/moka/internal/platform/constants"
	"github.com/taibuivan/moka/internal/platform/migration"
	"github.com/taibuivan/moka/internal/platform/postgres"
	"github.com/taibuivan/moka/internal/platform/redis"
	"github.com/taibuivan/moka/internal/platform/sec"
)

func main() {

	// ── 1. Logging ───────────────────────────────────────────────────────────
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// ── 2. Configuration ─────────────────────────────────────────────────────
	cfg := must(config.Load())(logger, "config_load_failed")

	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	// Application-lifetime context, cancelled on SIGINT/SIGTERM.
	appContext, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Storage ───────────────────────────────────────────────────────────
	pool := must(postgres.NewPool(appContext, cfg.DatabaseURL, logger))(logger, "postgres_connect_failed")
	defer pool.Close()

	redisClient := must(redis.NewClient(appContext, cfg.RedisURL, logger))(logger, "redis_connect_failed")
	defer func() { _ = redisClient.Close() }()

	// ── 4. Schema ────────────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		logger.Error("migration_failed", slog.Any("error", err))
		os.Exit(1)
	}

	// ── 5. Security ──────────────────────────────────────────────────────────
	tokenService := must(sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer))(logger, "token_service_init_failed")

	// ── 6. Domain Wiring ─────────────────────────────────────────────────────
	kakaoProvider := auth.NewKakaoProvider(auth.KakaoConfig{
		ClientID:     cfg.KakaoClientID,
		ClientSecret: cfg.KakaoClientSecret,
		RedirectURI:  cfg.KakaoRedirectURI,
	})

	userRepository := auth.NewUserRepository(pool)
	stateRepository := auth.NewStateRepository(redisClient)

	authService := auth.NewService(userRepository, stateRepository, kakaoProvider, tokenService)
	authHandler := auth.NewHandler(authService, cfg.FrontendOrigin, cfg.IsProduction())

	// ── 7. HTTP Server ───────────────────────────────────────────────────────
	server := api.NewServer(appContext, cfg, logger, pool, redisClient, tokenService, authHandler)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// ── 8. Wait & Graceful Shutdown ──────────────────────────────────────────
	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error("http_server_failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-appContext.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http_server_shutdown_failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("http_server_stopped")
	}
}

// must converts a (value, error) constructor result into a fatal-on-error value.
func must[T any](value T, err error) func(logger *slog.Logger, message string) T {
	return func(logger *slog.Logger, message string) T {
		if err != nil {
			logger.Error(message, slog.Any("error", err))
			os.Exit(1)
		}
		return value
	}
}
