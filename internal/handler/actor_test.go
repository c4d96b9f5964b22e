// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
)

func TestActor(t *testing.T) {
	tokens := auth.NewTokens(testSecret, time.Hour)
	token, err := tokens.Issue(model.User{ID: 7, Username: "editor"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got string
	h := middleware.BearerAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = actor(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "editor" {
		t.Errorf("actor() = %q, want editor", got)
	}
	if anon := actor(httptest.NewRequest(http.MethodGet, "/", nil)); anon != "" {
		t.Errorf("actor() without claims = %q, want empty", anon)
	}
}
