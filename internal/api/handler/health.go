package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe.
// Checks MongoDB and Redis connectivity before declaring the service ready.
// The response only names which dependency is down; ping errors can carry
// hosts and credentials, so they go to the log instead of the wire.
type ReadinessHandler struct {
	mongo *mongo.Database
	redis *redis.Client
	log   zerolog.Logger
}

func NewReadinessHandler(db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{
		mongo: db,
		redis: rdb,
		log:   log,
	}
}

type readinessResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		h.log.Error().Err(err).Str("dependency", "mongodb").Msg("readiness ping failed")
		deps["mongodb"] = "unhealthy"
		healthy = false
	} else {
		deps["mongodb"] = "ok"
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		h.log.Error().Err(err).Str("dependency", "redis").Msg("readiness ping failed")
		deps["redis"] = "unhealthy"
		healthy = false
	} else {
		deps["redis"] = "ok"
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
