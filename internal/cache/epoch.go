// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
)

// Epoch orders cache fills against invalidations. A loader records the
// epoch before reading the source of truth and stores its result only if
// no invalidation happened in between.
type Epoch struct {
	mu sync.RWMutex
	n  uint64
}

// Current returns the epoch to pass to StoreIf.
func (e *Epoch) Current() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.n
}

// StoreIf runs store unless the epoch has moved past n. It reports whether
// store ran.
func (e *Epoch) StoreIf(n uint64, store func() error) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.n != n {
		return false, nil
	}
	return true, store()
}

// Invalidate clears c and advances the epoch. Fills that started earlier
// either land before the clear or are skipped.
func (e *Epoch) Invalidate(ctx context.Context, c Cache) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.n++
	return c.Clear(ctx)
}
