// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
)

// AuthHandler handles admin login.
type AuthHandler struct {
	users      *service.UserService
	tokens     *auth.Tokens
	protection *middleware.LoginProtection
}

// NewAuthHandler creates an auth handler. protection may be nil.
func NewAuthHandler(users *service.UserService, tokens *auth.Tokens, protection *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, protection: protection}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Username == "" || req.Password == "" {
		writeJSONError(w, r, http.StatusBadRequest, "Username and password required")
		return
	}

	if h.protection != nil {
		if locked, remaining := h.protection.IsLocked(req.Username); locked {
			slog.Warn("login attempt on locked account", "username", req.Username, "remaining", remaining)
			writeJSONError(w, r, http.StatusTooManyRequests, "Account temporarily locked. Please try again later.")
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		if h.protection != nil {
			h.protection.RecordFailure(req.Username)
		}
		writeJSONError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("issuing token", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	if h.protection != nil {
		h.protection.RecordSuccess(req.Username)
	}
	slog.Info("admin logged in", "user_id", user.ID, "username", user.Username)

	writeJSON(w, r, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    loginUser{ID: user.ID, Username: user.Username},
	})
}
