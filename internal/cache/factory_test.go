// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestNew_MemoryWithoutRedisURL(t *testing.T) {
	c, err := New(context.Background(), Config{Prefix: "oblog:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	mc, ok := c.(*MemoryCache)
	if !ok {
		t.Fatalf("expected *MemoryCache, got %T", c)
	}
	if mc.defaultTTL != time.Minute {
		t.Errorf("defaultTTL = %v, want 1m", mc.defaultTTL)
	}
}

func TestNew_RedisFailureIsReturned(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 on loopback refuses connections
	_, err := New(ctx, Config{RedisURL: "redis://127.0.0.1:1/0", Prefix: "oblog:"})
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
