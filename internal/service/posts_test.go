// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

func newPostService(t *testing.T) (*PostService, store.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	c := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })
	return NewPostService(db, c), db
}

func TestPostService_CreateDefaults(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, model.PostInput{
		Title:   "Hello, World!",
		Content: strings.Repeat("word ", 400),
		Excerpt: "<b>Short</b> & sweet",
	})
	require.NoError(t, err)

	if post.ID == 0 {
		t.Error("expected engine-assigned id")
	}
	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q, want hello-world", post.Slug)
	}
	if post.ReadingTime != 2 {
		t.Errorf("ReadingTime = %d, want 2", post.ReadingTime)
	}
	if post.Author != model.DefaultPostAuthor {
		t.Errorf("Author = %q, want %q", post.Author, model.DefaultPostAuthor)
	}
	if post.Category != model.DefaultPostCategory {
		t.Errorf("Category = %q, want %q", post.Category, model.DefaultPostCategory)
	}
	if post.Excerpt != "Short & sweet" {
		t.Errorf("Excerpt = %q, want markup stripped", post.Excerpt)
	}
	if post.MetaDescription != post.Excerpt {
		t.Errorf("MetaDescription = %q, want excerpt fallback", post.MetaDescription)
	}
	if post.Published {
		t.Error("post should default to draft")
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatedAt should be read back from the store")
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input model.PostInput
	}{
		{"missing title", model.PostInput{Content: "body"}},
		{"missing content", model.PostInput{Title: "Title"}},
		{"blank title", model.PostInput{Title: "   ", Content: "body"}},
		{"title without slug characters", model.PostInput{Title: "!!!", Content: "body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.input); !errors.Is(err, ErrInvalidPost) {
				t.Errorf("expected ErrInvalidPost, got %v", err)
			}
		})
	}
}

func TestPostService_CreateDuplicateSlug(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.PostInput{Title: "Same Title", Content: "a"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.PostInput{Title: "Same  title!", Content: "b"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPostService_ConcurrentCreateSameTitle(t *testing.T) {
	svc, db := newPostService(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Create(ctx, model.PostInput{Title: "Race", Content: "body"})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrSlugTaken):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created %d posts, want exactly 1", created)
	}

	rows, err := db.Query(ctx, "SELECT id FROM posts WHERE slug = ?", "race")
	require.NoError(t, err)
	if len(rows) != 1 {
		t.Errorf("found %d rows with slug race, want 1", len(rows))
	}
}

func TestPostService_Update(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.PostInput{Title: "Original", Content: "body", Category: "Go"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, model.PostInput{
		Title:     "Renamed Post",
		Content:   "new body",
		Published: true,
	})
	require.NoError(t, err)

	if updated.ID != created.ID {
		t.Errorf("ID = %d, want %d", updated.ID, created.ID)
	}
	if updated.Slug != "renamed-post" {
		t.Errorf("Slug = %q, want renamed-post", updated.Slug)
	}
	if updated.Category != model.DefaultPostCategory {
		t.Errorf("Category = %q, want default after update without category", updated.Category)
	}
	if !updated.Published {
		t.Error("expected published after update")
	}

	// Same title again is allowed for the same post
	if _, err := svc.Update(ctx, created.ID, model.PostInput{Title: "Renamed Post", Content: "new body"}); err != nil {
		t.Errorf("updating with unchanged title failed: %v", err)
	}
}

func TestPostService_UpdateErrors(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, model.PostInput{Title: "First", Content: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.PostInput{Title: "Second", Content: "b"})
	require.NoError(t, err)

	if _, err := svc.Update(ctx, first.ID, model.PostInput{Title: "Second", Content: "a"}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Update(ctx, 9999, model.PostInput{Title: "Third", Content: "c"}); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, first.ID, model.PostInput{Title: "First"}); !errors.Is(err, ErrInvalidPost) {
		t.Errorf("expected ErrInvalidPost, got %v", err)
	}
}

func TestPostService_Delete(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, model.PostInput{Title: "Doomed", Content: "a", Published: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, post.ID))

	if err := svc.Delete(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("second Delete: expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "doomed"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected deleted post to be gone, got %v", err)
	}
}

func TestPostService_PublishedReads(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	inputs := []model.PostInput{
		{Title: "Go Post", Content: "a", Category: "Go", Published: true},
		{Title: "Rust Post", Content: "b", Category: "Rust", Published: true},
		{Title: "Draft Post", Content: "c", Category: "Drafts"},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.ListPublished(ctx, "")
	require.NoError(t, err)
	if len(all) != 2 {
		t.Fatalf("ListPublished returned %d posts, want 2", len(all))
	}
	// Newest first; ties on created_at are broken by id
	if all[0].Title != "Rust Post" {
		t.Errorf("first post = %q, want Rust Post", all[0].Title)
	}

	goOnly, err := svc.ListPublished(ctx, "Go")
	require.NoError(t, err)
	if len(goOnly) != 1 || goOnly[0].Category != "Go" {
		t.Errorf("category filter returned %+v", goOnly)
	}

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	if strings.Join(categories, ",") != "Go,Rust" {
		t.Errorf("Categories = %v, want [Go Rust]", categories)
	}

	if _, err := svc.GetPublishedBySlug(ctx, "draft-post"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("draft must not be readable by slug, got %v", err)
	}

	admin, err := svc.ListAll(ctx)
	require.NoError(t, err)
	if len(admin) != 3 {
		t.Errorf("ListAll returned %d posts, want 3", len(admin))
	}
}

func TestPostService_CacheInvalidatedOnWrite(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	posts, err := svc.ListPublished(ctx, "")
	require.NoError(t, err)
	if len(posts) != 0 {
		t.Fatalf("expected empty list, got %d", len(posts))
	}

	created, err := svc.Create(ctx, model.PostInput{Title: "Fresh", Content: "a", Published: true})
	require.NoError(t, err)

	posts, err = svc.ListPublished(ctx, "")
	require.NoError(t, err)
	if len(posts) != 1 {
		t.Fatalf("cached list not invalidated after create: %d posts", len(posts))
	}

	got, err := svc.GetPublishedBySlug(ctx, "fresh")
	require.NoError(t, err)
	if got.Title != "Fresh" {
		t.Errorf("Title = %q", got.Title)
	}

	_, err = svc.Update(ctx, created.ID, model.PostInput{Title: "Fresh", Content: "a", Published: false})
	require.NoError(t, err)

	if _, err := svc.GetPublishedBySlug(ctx, "fresh"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("unpublished post still served from cache: %v", err)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<p>para</p>", "para"},
		{"<script>alert(1)</script>safe", "safe"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := plainText(tt.in); got != tt.want {
				t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
