package handlers

import (
	"context"
	"net/http"
	"time"

	"comercia/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandlers reports on the three backing stores the saga depends on.
type HealthHandlers struct {
	db       *pgxpool.Pool
	docs     *mongo.Client
	cacheSvc caching.CacheService
}

func NewHealthHandlers(db *pgxpool.Pool, docs *mongo.Client, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, docs: docs, cacheSvc: cacheSvc}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck reports per-store health.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.db.Ping(ctx); err != nil {
		health.Services["relational"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["relational"] = "healthy"
	}

	if err := h.docs.Ping(ctx, readpref.Primary()); err != nil {
		health.Services["document"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["document"] = "healthy"
	}

	if err := h.cacheSvc.Ping(ctx); err != nil {
		health.Services["cache"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["cache"] = "healthy"
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, health)
}

// ReadinessCheck reports whether the process can take traffic.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
