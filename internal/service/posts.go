// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Post service errors.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("a post with this title already exists")
	ErrInvalidPost  = errors.New("title and content required")
)

// Cache keys for published reads.
const (
	cacheKeyPublished  = "posts:published:"
	cacheKeySlug       = "posts:slug:"
	cacheKeyCategories = "posts:categories"
)

// plainTextPolicy strips all markup from short text fields.
var plainTextPolicy = bluemonday.StrictPolicy()

// PostService implements post reads and admin writes.
type PostService struct {
	queries    *store.Queries
	cache      cache.Cache
	epoch      *cache.Epoch
	posts      *cache.Typed[[]model.Post]
	post       *cache.Typed[model.Post]
	categories *cache.Typed[[]string]
}

// NewPostService creates a post service. Published reads go through c.
func NewPostService(db store.DB, c cache.Cache) *PostService {
	epoch := &cache.Epoch{}
	return &PostService{
		queries:    store.New(db),
		cache:      c,
		epoch:      epoch,
		posts:      cache.NewTyped[[]model.Post](c, epoch),
		post:       cache.NewTyped[model.Post](c, epoch),
		categories: cache.NewTyped[[]string](c, epoch),
	}
}

// ListPublished returns published posts newest first. An empty category
// means all categories.
func (s *PostService) ListPublished(ctx context.Context, category string) ([]model.Post, error) {
	return s.posts.GetOrLoad(ctx, cacheKeyPublished+category, func(ctx context.Context) ([]model.Post, error) {
		posts, err := s.queries.ListPublishedPosts(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("listing published posts: %w", err)
		}
		return posts, nil
	})
}

// Categories returns the sorted distinct categories of published posts.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	return s.categories.GetOrLoad(ctx, cacheKeyCategories, func(ctx context.Context) ([]string, error) {
		categories, err := s.queries.ListPublishedCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing categories: %w", err)
		}
		slices.Sort(categories)
		return categories, nil
	})
}

// GetPublishedBySlug returns ErrPostNotFound for unknown slugs and drafts.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (model.Post, error) {
	return s.post.GetOrLoad(ctx, cacheKeySlug+slug, func(ctx context.Context) (model.Post, error) {
		post, err := s.queries.GetPublishedPostBySlug(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, ErrPostNotFound
		}
		if err != nil {
			return model.Post{}, fmt.Errorf("getting post by slug: %w", err)
		}
		return post, nil
	})
}

// ListAll returns every post including drafts. It is never cached.
func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	posts, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Create derives the slug and reading time from input and inserts the post.
func (s *PostService) Create(ctx context.Context, input model.PostInput) (model.Post, error) {
	post, err := buildPost(input)
	if err != nil {
		return model.Post{}, err
	}

	taken, err := s.queries.SlugExists(ctx, post.Slug, 0)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Post{}, ErrSlugTaken
	}

	id, err := s.queries.CreatePost(ctx, post)
	if err != nil {
		// Lost the check-then-insert race; the UNIQUE constraint caught it
		if store.IsUniqueViolation(err) {
			return model.Post{}, ErrSlugTaken
		}
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}

	s.invalidate(ctx)
	slog.Info("post created", "id", id, "slug", post.Slug)

	return s.reload(ctx, id, post)
}

// Update overwrites post id with input. Returns ErrPostNotFound if no post
// has that id.
func (s *PostService) Update(ctx context.Context, id int64, input model.PostInput) (model.Post, error) {
	post, err := buildPost(input)
	if err != nil {
		return model.Post{}, err
	}
	post.ID = id

	taken, err := s.queries.SlugExists(ctx, post.Slug, id)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Post{}, ErrSlugTaken
	}

	affected, err := s.queries.UpdatePost(ctx, post)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return model.Post{}, ErrSlugTaken
		}
		return model.Post{}, fmt.Errorf("updating post: %w", err)
	}
	if affected == 0 {
		return model.Post{}, ErrPostNotFound
	}

	s.invalidate(ctx)
	slog.Info("post updated", "id", id, "slug", post.Slug)

	return s.reload(ctx, id, post)
}

// Delete removes post id. Returns ErrPostNotFound if no post has that id.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	affected, err := s.queries.DeletePost(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}

	s.invalidate(ctx)
	slog.Info("post deleted", "id", id)
	return nil
}

// reload reads the stored row so engine-managed timestamps are returned.
// If the read fails the written values are returned instead.
func (s *PostService) reload(ctx context.Context, id int64, written model.Post) (model.Post, error) {
	stored, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		slog.Warn("reading back written post", "id", id, "error", err)
		written.ID = id
		return written, nil
	}
	return stored, nil
}

func (s *PostService) invalidate(ctx context.Context) {
	if err := s.epoch.Invalidate(ctx, s.cache); err != nil {
		slog.Warn("clearing post cache", "error", err)
	}
}

// buildPost validates input and applies the write defaults.
func buildPost(input model.PostInput) (model.Post, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return model.Post{}, ErrInvalidPost
	}

	slug := util.Slugify(input.Title)
	if slug == "" {
		return model.Post{}, fmt.Errorf("%w: title must contain letters or digits", ErrInvalidPost)
	}

	excerpt := plainText(input.Excerpt)
	metaDescription := plainText(input.MetaDescription)
	if metaDescription == "" {
		metaDescription = excerpt
	}

	return model.Post{
		Title:           input.Title,
		Slug:            slug,
		Content:         input.Content,
		Excerpt:         excerpt,
		CoverImage:      input.CoverImage,
		MetaDescription: metaDescription,
		MetaKeywords:    input.MetaKeywords,
		Tags:            input.Tags,
		Author:          cmp.Or(input.Author, model.DefaultPostAuthor),
		ReadingTime:     util.ReadingTime(input.Content),
		Category:        cmp.Or(input.Category, model.DefaultPostCategory),
		Published:       input.Published,
	}, nil
}

// plainText removes markup and decodes the entities bluemonday escapes.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}
