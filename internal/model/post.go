// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post defaults applied when a write leaves the field empty.
const (
	DefaultPostAuthor   = "Admin"
	DefaultPostCategory = "Uncategorized"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Post is a blog post. Content is opaque: legacy Markdown or a serialized
// block document, stored and returned verbatim.
type Post struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	CoverImage      string
	MetaDescription string
	MetaKeywords    string
	Tags            string // comma-separated
	Author          string
	ReadingTime     int
	Category        string
	Published       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PostInput carries the editable fields of a post on create and update.
type PostInput struct {
	Title           string
	Content         string
	Excerpt         string
	CoverImage      string
	MetaDescription string
	MetaKeywords    string
	Tags            string
	Author          string
	Category        string
	Published       bool
}
