// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/olegiv/oblog/internal/model"
)

// Queries holds the typed statements used by the services. Every statement
// goes through the DB adapter, so the same SQL runs on both engines.
type Queries struct {
	db DB
}

// New creates a Queries bound to db.
func New(db DB) *Queries {
	return &Queries{db: db}
}

const postColumns = `id, title, slug, content, excerpt, cover_image, meta_description,
	meta_keywords, tags, author, reading_time, category, published, created_at, updated_at`

// GetUserByUsername returns sql.ErrNoRows when no user matches.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	rows, err := q.db.Query(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
	if err != nil {
		return model.User{}, err
	}
	if len(rows) == 0 {
		return model.User{}, sql.ErrNoRows
	}
	return rowToUser(rows[0]), nil
}

// UpdateUserPassword replaces the stored hash for a user.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.Exec(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	return err
}

// ListPublishedPosts returns published posts, newest first, optionally
// restricted to one category.
func (q *Queries) ListPublishedPosts(ctx context.Context, category string) ([]model.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE published = 1"
	var args []any
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rowsToPosts(rows), nil
}

// ListPosts returns every post including drafts, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.Query(ctx, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return rowsToPosts(rows), nil
}

// ListPublishedCategories returns the distinct non-null categories of
// published posts in no particular order.
func (q *Queries) ListPublishedCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx,
		"SELECT DISTINCT category FROM posts WHERE published = 1 AND category IS NOT NULL",
	)
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.String("category"))
	}
	return categories, nil
}

// GetPublishedPostBySlug returns sql.ErrNoRows for unknown or draft posts.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	rows, err := q.db.Query(ctx,
		"SELECT "+postColumns+" FROM posts WHERE slug = ? AND published = 1",
		slug,
	)
	if err != nil {
		return model.Post{}, err
	}
	if len(rows) == 0 {
		return model.Post{}, sql.ErrNoRows
	}
	return rowToPost(rows[0]), nil
}

// GetPostByID returns sql.ErrNoRows when no post matches.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	rows, err := q.db.Query(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	if err != nil {
		return model.Post{}, err
	}
	if len(rows) == 0 {
		return model.Post{}, sql.ErrNoRows
	}
	return rowToPost(rows[0]), nil
}

// SlugExists reports whether another post already uses slug.
// Pass excludeID 0 when creating.
func (q *Queries) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	rows, err := q.db.Query(ctx, "SELECT id FROM posts WHERE slug = ? AND id != ?", slug, excludeID)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// CreatePost inserts p and returns the engine-assigned id.
func (q *Queries) CreatePost(ctx context.Context, p model.Post) (int64, error) {
	res, err := q.db.Exec(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, cover_image, meta_description,
			meta_keywords, tags, author, reading_time, category, published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.MetaDescription,
		p.MetaKeywords, p.Tags, p.Author, p.ReadingTime, p.Category, boolToInt(p.Published),
	)
	if err != nil {
		return 0, err
	}
	return res.InsertID, nil
}

// UpdatePost overwrites the editable fields of post p.ID and refreshes
// updated_at. It returns the number of rows matched.
func (q *Queries) UpdatePost(ctx context.Context, p model.Post) (int64, error) {
	res, err := q.db.Exec(ctx, `
		UPDATE posts SET
			title = ?,
			slug = ?,
			content = ?,
			excerpt = ?,
			cover_image = ?,
			meta_description = ?,
			meta_keywords = ?,
			tags = ?,
			author = ?,
			reading_time = ?,
			category = ?,
			published = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.MetaDescription,
		p.MetaKeywords, p.Tags, p.Author, p.ReadingTime, p.Category, boolToInt(p.Published),
		p.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

// DeletePost removes a post and returns the number of rows deleted.
func (q *Queries) DeletePost(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.Exec(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

func rowToUser(r Row) model.User {
	return model.User{
		ID:           r.Int64("id"),
		Username:     r.String("username"),
		PasswordHash: r.String("password_hash"),
		CreatedAt:    r.Time("created_at"),
	}
}

func rowToPost(r Row) model.Post {
	return model.Post{
		ID:              r.Int64("id"),
		Title:           r.String("title"),
		Slug:            r.String("slug"),
		Content:         r.String("content"),
		Excerpt:         r.String("excerpt"),
		CoverImage:      r.String("cover_image"),
		MetaDescription: r.String("meta_description"),
		MetaKeywords:    r.String("meta_keywords"),
		Tags:            r.String("tags"),
		Author:          r.String("author"),
		ReadingTime:     int(r.Int64("reading_time")),
		Category:        r.String("category"),
		Published:       r.Bool("published"),
		CreatedAt:       r.Time("created_at"),
		UpdatedAt:       r.Time("updated_at"),
	}
}

func rowsToPosts(rows []Row) []model.Post {
	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, rowToPost(r))
	}
	return posts
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
