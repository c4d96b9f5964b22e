// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
)

// PostResponse is the wire form of a post. Published is 0 or 1.
type PostResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt"`
	CoverImage      string     `json:"cover_image"`
	MetaDescription string     `json:"meta_description"`
	MetaKeywords    string     `json:"meta_keywords"`
	Tags            string     `json:"tags"`
	Author          string     `json:"author"`
	ReadingTime     int        `json:"reading_time"`
	Category        string     `json:"category"`
	Published       int        `json:"published"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func toPostResponse(p model.Post) PostResponse {
	resp := PostResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		CoverImage:      p.CoverImage,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		Tags:            p.Tags,
		Author:          p.Author,
		ReadingTime:     p.ReadingTime,
		Category:        p.Category,
	}
	if p.Published {
		resp.Published = 1
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = &p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = &p.UpdatedAt
	}
	return resp
}

func toPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

// postRequest is the body of create and update requests.
type postRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	CoverImage      string   `json:"cover_image"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    string   `json:"meta_keywords"`
	Tags            string   `json:"tags"`
	Author          string   `json:"author"`
	Category        string   `json:"category"`
	Published       flexBool `json:"published"`
}

func (p postRequest) input() model.PostInput {
	return model.PostInput{
		Title:           p.Title,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		CoverImage:      p.CoverImage,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		Tags:            p.Tags,
		Author:          p.Author,
		Category:        p.Category,
		Published:       bool(p.Published),
	}
}

// PostsHandler serves public post reads and admin post writes.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler creates a posts handler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// List handles GET /api/posts?category=.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPublished(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"posts": toPostResponses(posts)})
}

// Categories handles GET /api/categories.
func (h *PostsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.posts.Categories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Database error")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}

// GetBySlug handles GET /api/posts/{slug}.
func (h *PostsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, service.ErrPostNotFound) {
		writeJSONError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		slog.Error("failed to get post", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"post": toPostResponse(post)})
}

// AdminList handles GET /api/admin/posts, drafts included.
func (h *PostsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list admin posts", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"posts": toPostResponses(posts)})
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.posts.Create(r.Context(), req.input())
	if err != nil {
		h.writeWriteError(w, r, err)
		return
	}
	slog.Info("post created", "id", post.ID, "slug", post.Slug, "by", actor(r))

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"post":    toPostResponse(post),
	})
}

// Update handles PUT /api/posts/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSONError(w, r, http.StatusNotFound, "Post not found")
		return
	}

	var req postRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.posts.Update(r.Context(), id, req.input())
	if err != nil {
		h.writeWriteError(w, r, err)
		return
	}
	slog.Info("post updated", "id", post.ID, "slug", post.Slug, "by", actor(r))

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"post":    toPostResponse(post),
	})
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSONError(w, r, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.writeWriteError(w, r, err)
		return
	}
	slog.Info("post deleted", "id", id, "by", actor(r))

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Post deleted",
	})
}

func (h *PostsHandler) writeWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPost):
		writeJSONError(w, r, http.StatusBadRequest, "Title and content required")
	case errors.Is(err, service.ErrSlugTaken):
		writeJSONError(w, r, http.StatusBadRequest, "A post with this title/slug already exists")
	case errors.Is(err, service.ErrPostNotFound):
		writeJSONError(w, r, http.StatusNotFound, "Post not found")
	default:
		slog.Error("post write failed", "method", r.Method, "path", r.URL.Path, "by", actor(r), "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Database error")
	}
}

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// actor names the authenticated admin for log lines.
func actor(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
