// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/olegiv/oblog/internal/store"
)

func TestPublicPosts(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/posts", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	posts, _ := decode(t, rec)["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want the seeded sample", len(posts))
	}
	first := posts[0].(map[string]any)
	if first["slug"] != store.SamplePostSlug {
		t.Errorf("slug = %v, want %q", first["slug"], store.SamplePostSlug)
	}
	if first["published"] != float64(1) {
		t.Errorf("published = %v, want 1", first["published"])
	}

	rec = srv.do(t, http.MethodGet, "/api/posts?category=Nope", nil, "")
	posts, _ = decode(t, rec)["posts"].([]any)
	if len(posts) != 0 {
		t.Errorf("category filter returned %d posts, want 0", len(posts))
	}

	rec = srv.do(t, http.MethodGet, "/api/categories", nil, "")
	categories, _ := decode(t, rec)["categories"].([]any)
	if len(categories) != 1 || categories[0] != store.SamplePostCategory {
		t.Errorf("categories = %v", categories)
	}

	rec = srv.do(t, http.MethodGet, "/api/posts/"+store.SamplePostSlug, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d", rec.Code)
	}
	post, _ := decode(t, rec)["post"].(map[string]any)
	if post["title"] != store.SamplePostTitle {
		t.Errorf("title = %v", post["title"])
	}

	rec = srv.do(t, http.MethodGet, "/api/posts/missing", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/upload"},
		{http.MethodDelete, "/api/upload/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, nil, "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("no token: status = %d, want 401", rec.Code)
			}
			rec = srv.do(t, tt.method, tt.path, nil, "not-a-token")
			if rec.Code != http.StatusForbidden {
				t.Errorf("bad token: status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestPostLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.adminToken(t)

	rec := srv.do(t, http.MethodPost, "/api/posts", map[string]any{
		"title":     "Draft Notes",
		"content":   "some words here",
		"published": "0",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	post := created["post"].(map[string]any)
	if post["slug"] != "draft-notes" {
		t.Errorf("slug = %v, want draft-notes", post["slug"])
	}
	if post["published"] != float64(0) {
		t.Errorf("published = %v, want 0", post["published"])
	}
	id := int64(post["id"].(float64))

	// Drafts are visible to the admin only
	rec = srv.do(t, http.MethodGet, "/api/posts/draft-notes", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("draft public status = %d, want 404", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/api/admin/posts", nil, token)
	if posts, _ := decode(t, rec)["posts"].([]any); len(posts) != 2 {
		t.Errorf("admin list has %d posts, want 2", len(posts))
	}

	rec = srv.do(t, http.MethodPost, "/api/posts", map[string]any{
		"title":   "Draft Notes",
		"content": "duplicate",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}

	rec = srv.do(t, http.MethodPut, "/api/posts/"+itoa(id), map[string]any{
		"title":     "Final Notes",
		"content":   "now published",
		"published": true,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode(t, rec)["post"].(map[string]any)
	if updated["slug"] != "final-notes" || updated["published"] != float64(1) {
		t.Errorf("updated post = %v", updated)
	}

	rec = srv.do(t, http.MethodGet, "/api/posts/final-notes", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("published post status = %d, want 200", rec.Code)
	}

	rec = srv.do(t, http.MethodDelete, "/api/posts/"+itoa(id), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Post deleted" {
		t.Errorf("message = %v", msg)
	}

	rec = srv.do(t, http.MethodDelete, "/api/posts/"+itoa(id), nil, token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestPostWriteErrors(t *testing.T) {
	srv := newTestServer(t)
	token := srv.adminToken(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"create missing content", http.MethodPost, "/api/posts", map[string]any{"title": "T"}, http.StatusBadRequest},
		{"create malformed", http.MethodPost, "/api/posts", "{", http.StatusBadRequest},
		{"update unknown id", http.MethodPut, "/api/posts/9999", map[string]any{"title": "T", "content": "c"}, http.StatusNotFound},
		{"update non-numeric id", http.MethodPut, "/api/posts/abc", map[string]any{"title": "T", "content": "c"}, http.StatusNotFound},
		{"delete unknown id", http.MethodDelete, "/api/posts/9999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.body, token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if decode(t, rec)["success"] != false {
				t.Errorf("success should be false")
			}
		})
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`"true"`, true},
		{`"false"`, false},
		{`""`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		var b flexBool
		if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.in, err)
			continue
		}
		if bool(b) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, b, tt.want)
		}
	}
}
