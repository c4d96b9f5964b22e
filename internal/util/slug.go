// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides post text helpers: URL slug generation with Unicode
// accent folding, slug validation and reading time estimation.
package util

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/olegiv/oblog/internal/model"
)

// nonAlphanumeric matches runs of characters outside [a-z0-9]
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title to a URL-friendly slug.
// Accents are folded first ("Café" becomes "cafe"), then every run of
// characters other than lowercase letters and digits collapses to a single
// hyphen and leading or trailing hyphens are trimmed.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// ReadingTime estimates minutes to read content at model.WordsPerMinute.
// Words are whitespace-separated tokens; the result is never below one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / model.WordsPerMinute))
	return max(minutes, 1)
}
