// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the HTTP surface of the Moka service.

It owns the router, the middleware chain, and the http.Server lifecycle.
Domain handlers are mounted here but live in their own packages.

Request Pipeline:

  - Trace: Request ID assignment.
  - Log: Structured per-request logging.
  - Safety: Panic recovery and per-IP rate limiting.
  - Guard: CORS and token authentication.
  - Deadline: A global timeout bounding the whole request.
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/moka/internal/auth"
	"github.com/taibuivan/moka/internal/platform/config"
	"github.com/taibuivan/moka/internal/platform/constants"
	"github.com/taibuivan/moka/internal/platform/middleware"
)

// Server wraps the HTTP server and its assembled router.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

/*
NewServer builds the full HTTP stack.

Parameters:
  - appContext: Application-lifetime context, used by background middleware routines
  - cfg: Loaded application configuration
  - logger: Root structured logger
  - pool: PostgreSQL connection pool (readiness checks)
  - redisClient: Redis client (readiness checks)
  - verifier: Session token verifier for the authentication middleware
  - authHandler: The /auth domain handler

Returns:
  - *Server: Ready-to-start server
*/
func NewServer(
	appContext context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	pool *pgxpool.Pool,
	redisClient *goredis.Client,
	verifier middleware.TokenVerifier,
	authHandler *auth.Handler,
) *Server {

	router := chi.NewRouter()

	// # Middleware Chain (order matters)
	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PanicRecovery(logger))
	router.Use(middleware.RateLimit(appContext))
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Authenticate(verifier))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))

	// # Routes
	healthHandler := NewHealthHandler(pool, redisClient)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	router.Mount("/auth", authHandler.Routes())

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
		logger: logger,
	}
}

// Start begins serving HTTP traffic. It blocks until the server stops.
func (server *Server) Start() error {
	server.logger.Info("http_server_started", slog.String("addr", server.httpServer.Addr))

	if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests and stops the server.
func (server *Server) Shutdown(context context.Context) error {
	server.logger.Info("http_server_shutting_down")
	return server.httpServer.Shutdown(context)
}
