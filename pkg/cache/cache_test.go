package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCacheIsNoOp(t *testing.T) {
	c, err := NewCache("localhost:0", false, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected cache to be disabled")
	}

	ctx := context.Background()
	if err := c.CacheLayout(ctx, "global", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("expected set on disabled cache to succeed, got %v", err)
	}
	var dest map[string]string
	if err := c.GetCachedLayout(ctx, "global", &dest); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
	if err := c.InvalidateLayout(ctx, "global"); err != nil {
		t.Fatalf("expected invalidate on disabled cache to succeed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("expected close on disabled cache to succeed, got %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatalf("expected nil cache to report disabled")
	}
	if err := c.InvalidateLayout(context.Background(), "global"); err != nil {
		t.Fatalf("expected nil cache operations to be no-ops, got %v", err)
	}
	if stored, err := c.FillLayout(context.Background(), "global", map[string]string{}); stored || err != nil {
		t.Fatalf("expected fill on nil cache to be a no-op, got %v %v", stored, err)
	}
}

func TestLayoutKey(t *testing.T) {
	if got := layoutKey("product:42"); got != "layout:product:42" {
		t.Fatalf("unexpected key %q", got)
	}
}
