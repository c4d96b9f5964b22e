// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/oblog/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Sample post inserted into an empty posts table.
const (
	SamplePostTitle       = "Welcome to Your New Blog"
	SamplePostSlug        = "welcome-to-your-new-blog"
	SamplePostExcerpt     = "This is a sample post to get you started with your new blog."
	SamplePostAuthor      = "Admin"
	SamplePostCategory    = "Getting Started"
	SamplePostReadingTime = 2
)

// SamplePostContent is the Markdown body of the sample post.
const SamplePostContent = `# Welcome to Your New Blog

This is a sample post to get you started. You can edit or delete this post from the admin panel.

## Getting Started

1. Log in to the admin panel using the default credentials:
   - Username: admin
   - Password: admin123
2. Create your first post
3. Customize the site design

Enjoy your new blog!`

// Seed creates the default admin when it is missing and a sample post when
// the posts table is empty. The two checks are independent.
func Seed(ctx context.Context, db DB) error {
	if err := seedAdmin(ctx, db); err != nil {
		return err
	}
	return seedSamplePost(ctx, db)
}

func seedAdmin(ctx context.Context, db DB) error {
	count, err := countRows(ctx, db, "SELECT COUNT(*) AS count FROM users WHERE username = ?", DefaultAdminUsername)
	if err != nil {
		return fmt.Errorf("checking for admin user: %w", err)
	}
	if count > 0 {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	res, err := db.Exec(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		DefaultAdminUsername, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", res.InsertID,
		"username", DefaultAdminUsername,
	)
	return nil
}

func seedSamplePost(ctx context.Context, db DB) error {
	count, err := countRows(ctx, db, "SELECT COUNT(*) AS count FROM posts")
	if err != nil {
		return fmt.Errorf("checking posts count: %w", err)
	}
	if count > 0 {
		return nil
	}

	res, err := db.Exec(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, published, author, category, reading_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		SamplePostTitle,
		SamplePostSlug,
		SamplePostContent,
		SamplePostExcerpt,
		1,
		SamplePostAuthor,
		SamplePostCategory,
		SamplePostReadingTime,
	)
	if err != nil {
		return fmt.Errorf("creating sample post: %w", err)
	}

	slog.Info("created sample post", "id", res.InsertID, "slug", SamplePostSlug)
	return nil
}

// countRows runs a single-column COUNT query aliased as "count".
func countRows(ctx context.Context, db DB, query string, args ...any) (int64, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("count"), nil
}
