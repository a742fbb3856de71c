// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/moka/internal/platform/constants"
	"github.com/taibuivan/moka/internal/platform/postgres"
	"github.com/taibuivan/moka/internal/platform/redis"
	"github.com/taibuivan/moka/internal/platform/respond"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pool        *pgxpool.Pool
	redisClient *goredis.Client
}

// NewHealthHandler creates a health handler bound to the server's backing stores.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *goredis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redisClient: redisClient}
}

// Health handles GET /health. Liveness only: the process is up.
func (handler *HealthHandler) Health(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus: "ok",
		"version":             constants.AppVersion,
	})
}

// Ready handles GET /ready. Readiness: every backing store answers a ping.
//
// A failed dependency reports 503 so the load balancer stops routing here
// while the process itself stays alive for /health.
func (handler *HealthHandler) Ready(writer http.ResponseWriter, request *http.Request) {

	checks := map[string]string{}
	healthy := true

	if err := postgres.Ping(request.Context(), handler.pool); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := redis.Ping(request.Context(), handler.redisClient); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]interface{}{
		constants.FieldStatus: overall,
		constants.FieldChecks: checks,
	})
}
