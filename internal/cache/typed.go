// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Typed stores values of T as JSON in an underlying Cache.
type Typed[T any] struct {
	cache Cache
	epoch *Epoch
}

// NewTyped wraps c. When epoch is non-nil, GetOrLoad drops results loaded
// across an epoch.Invalidate.
func NewTyped[T any](c Cache, epoch *Epoch) *Typed[T] {
	return &Typed[T]{cache: c, epoch: epoch}
}

// Get returns the decoded value and true on a hit. Undecodable entries
// count as misses.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := t.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set encodes value and stores it with the cache default TTL.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, data, 0)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Cache write failures are logged and do not fail the call.
func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, nil
	}

	var n uint64
	if t.epoch != nil {
		n = t.epoch.Current()
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	set := func() error { return t.Set(ctx, key, value) }
	stored := true
	if t.epoch != nil {
		stored, err = t.epoch.StoreIf(n, set)
	} else {
		err = set()
	}
	if err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	} else if !stored {
		slog.Debug("skipped cache fill after invalidation", "key", key)
	}
	return value, nil
}
