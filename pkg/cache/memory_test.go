package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheKeyNotFound) {
		t.Errorf("Get missing key: err = %v, want ErrCacheKeyNotFound", err)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheKeyNotFound) {
		t.Errorf("Get after expiry: err = %v, want ErrCacheKeyNotFound", err)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", 0)
	ok, err := c.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = c.Exists(ctx, "k")
	if err != nil || ok {
		t.Errorf("Exists after delete = %v, %v; want false, nil", ok, err)
	}

	// deleting an absent key is a no-op
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestMemoryCacheIncrement(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Increment(ctx, "counter")
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if n != want {
			t.Errorf("Increment = %d, want %d", n, want)
		}
	}

	_ = c.Set(ctx, "notanumber", "abc", 0)
	if _, err := c.Increment(ctx, "notanumber"); !errors.Is(err, ErrCacheOperationFailed) {
		t.Errorf("Increment non-numeric: err = %v, want ErrCacheOperationFailed", err)
	}
}

func TestMemoryCacheClose(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", 0)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheKeyNotFound) {
		t.Errorf("Get after Close: err = %v, want ErrCacheKeyNotFound", err)
	}
}
