// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/version"
)

// healthCheckTimeout bounds each dependency ping.
const healthCheckTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        store.DB
	cache     cache.Cache
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db store.DB, c cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c, startTime: time.Now()}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string       `json:"status"`
	Engine  string       `json:"engine,omitempty"`
	Backend string       `json:"backend,omitempty"`
	Latency string       `json:"latency,omitempty"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	cacheCheck := h.checkCache(r.Context())

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get().Version,
		Checks:    map[string]Check{"database": dbCheck, "cache": cacheCheck},
	}

	code := http.StatusOK
	if dbCheck.Status != "healthy" || cacheCheck.Status != "healthy" {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status != "healthy" || h.checkCache(r.Context()).Status != "healthy" {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	check := Check{
		Status:  "healthy",
		Engine:  string(h.db.Engine()),
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
	if err != nil {
		slog.Error("database health check failed", "error", err)
		check.Status = "unhealthy"
	}
	return check
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.cache.Ping(ctx)
	stats := h.cache.Stats()
	check := Check{
		Status:  "healthy",
		Backend: cacheBackend(h.cache),
		Latency: time.Since(start).Round(time.Microsecond).String(),
		Stats:   &stats,
	}
	if err != nil {
		slog.Error("cache health check failed", "error", err)
		check.Status = "unhealthy"
	}
	return check
}

func cacheBackend(c cache.Cache) string {
	switch c.(type) {
	case *cache.RedisCache:
		return "redis"
	case *cache.MemoryCache:
		return "memory"
	default:
		return "unknown"
	}
}
