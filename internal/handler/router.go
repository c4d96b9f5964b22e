// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

// requestTimeout bounds every request except uploads.
const requestTimeout = 30 * time.Second

// Deps holds everything the router needs.
type Deps struct {
	DB              store.DB
	Cache           cache.Cache
	Posts           *service.PostService
	Users           *service.UserService
	Media           *service.MediaService
	Tokens          *auth.Tokens
	LoginProtection *middleware.LoginProtection
	UploadsDir      string
	CORSOrigins     []string
	IsDevelopment   bool
}

// NewRouter builds the HTTP handler for the blog API.
func NewRouter(d Deps) http.Handler {
	postsHandler := NewPostsHandler(d.Posts)
	authHandler := NewAuthHandler(d.Users, d.Tokens, d.LoginProtection)
	uploadHandler := NewUploadHandler(d.Media)
	healthHandler := NewHealthHandler(d.DB, d.Cache)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Handle(service.UploadURLPrefix+"*", http.StripPrefix(service.UploadURLPrefix,
		http.FileServer(noListingFS{http.Dir(d.UploadsDir)})))

	requireAuth := middleware.BearerAuth(d.Tokens)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Group(func(r chi.Router) {
				if d.LoginProtection != nil {
					r.Use(d.LoginProtection.Middleware())
				}
				r.Post("/login", authHandler.Login)
			})

			r.Get("/posts", postsHandler.List)
			r.Get("/posts/{slug}", postsHandler.GetBySlug)
			r.Get("/categories", postsHandler.Categories)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/admin/posts", postsHandler.AdminList)
				r.Post("/posts", postsHandler.Create)
				r.Put("/posts/{id}", postsHandler.Update)
				r.Delete("/posts/{id}", postsHandler.Delete)
				r.Delete("/upload/{filename}", uploadHandler.Delete)
			})
		})

		r.With(requireAuth).Post("/upload", uploadHandler.Upload)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
