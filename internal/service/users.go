// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService authenticates admins.
type UserService struct {
	queries *store.Queries
}

// NewUserService creates a user service.
func NewUserService(db store.DB) *UserService {
	return &UserService{queries: store.New(db)}
}

// Authenticate checks username and password. Hashes created with an older
// cost are upgraded after a successful login.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	return user, nil
}

func (s *UserService) rehash(ctx context.Context, user model.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Warn("rehashing password", "user_id", user.ID, "error", err)
		return
	}
	if err := s.queries.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		slog.Warn("storing rehashed password", "user_id", user.ID, "error", err)
		return
	}
	slog.Info("upgraded password hash", "user_id", user.ID)
}
