// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/health", "healthy"},
		{"/health/live", "alive"},
		{"/health/ready", "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, nil, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := decode(t, rec)["status"]; got != tt.wantStatus {
				t.Errorf("status field = %v, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	srv := newTestServer(t)
	_ = srv.db.Close()

	rec := srv.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp := decode(t, rec)
	if resp["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", resp["status"])
	}
	checks := resp["checks"].(map[string]any)
	db := checks["database"].(map[string]any)
	if db["engine"] != "sqlite" {
		t.Errorf("engine = %v, want sqlite", db["engine"])
	}

	rec = srv.do(t, http.MethodGet, "/health/ready", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}

func TestHealth_CacheCheck(t *testing.T) {
	srv := newTestServer(t)

	// One miss, then a hit
	srv.do(t, http.MethodGet, "/api/posts", nil, "")
	srv.do(t, http.MethodGet, "/api/posts", nil, "")

	rec := srv.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	checks := decode(t, rec)["checks"].(map[string]any)
	cacheCheck := checks["cache"].(map[string]any)
	if cacheCheck["status"] != "healthy" || cacheCheck["backend"] != "memory" {
		t.Errorf("cache check = %v", cacheCheck)
	}
	stats := cacheCheck["stats"].(map[string]any)
	if stats["hits"].(float64) < 1 || stats["misses"].(float64) < 1 {
		t.Errorf("stats = %v, want at least one hit and one miss", stats)
	}

	_ = srv.cache.Close()

	rec = srv.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status with closed cache = %d, want 503", rec.Code)
	}
	checks = decode(t, rec)["checks"].(map[string]any)
	if checks["cache"].(map[string]any)["status"] != "unhealthy" {
		t.Errorf("cache check = %v, want unhealthy", checks["cache"])
	}

	rec = srv.do(t, http.MethodGet, "/health/ready", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status with closed cache = %d, want 503", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/nothing-here", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if decode(t, rec)["success"] != false {
		t.Error("expected JSON error body")
	}
}
