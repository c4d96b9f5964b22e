// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

const testSecret = "handler-test-secret-of-32-bytes!"

type testServer struct {
	handler    http.Handler
	db         store.DB
	cache      *cache.MemoryCache
	tokens     *auth.Tokens
	uploadsDir string
	protection *middleware.LoginProtection
}

// newTestServer builds the full router over a seeded temporary store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SeededDB(t)
	c := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })

	protection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
	})
	t.Cleanup(protection.Stop)

	uploadsDir := t.TempDir()
	tokens := auth.NewTokens(testSecret, time.Hour)

	h := NewRouter(Deps{
		DB:              db,
		Cache:           c,
		Posts:           service.NewPostService(db, c),
		Users:           service.NewUserService(db),
		Media:           service.NewMediaService(uploadsDir),
		Tokens:          tokens,
		LoginProtection: protection,
		UploadsDir:      uploadsDir,
		CORSOrigins:     []string{"*"},
		IsDevelopment:   true,
	})

	return &testServer{
		handler:    h,
		db:         db,
		cache:      c,
		tokens:     tokens,
		uploadsDir: uploadsDir,
		protection: protection,
	}
}

// adminToken issues a token for the seeded admin.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.tokens.Issue(model.User{ID: 1, Username: store.DefaultAdminUsername})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			r = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
