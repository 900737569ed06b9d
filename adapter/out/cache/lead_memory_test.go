package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "msg:abc", []byte(`{"content":"hi"}`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "msg:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte(`{"content":"hi"}`)) {
		t.Errorf("Get() = %q, want %q", got, `{"content":"hi"}`)
	}

	exists, err := c.Exists(ctx, "msg:abc")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false, want true")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "msg:missing")
	if !errors.Is(err, out.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}

	exists, err := c.Exists(context.Background(), "msg:missing")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, out.ErrCacheMiss) {
		t.Errorf("Get(short) error = %v, want ErrCacheMiss", err)
	}
	if _, err := c.Get(ctx, "forever"); err != nil {
		t.Errorf("Get(forever) error = %v, want nil", err)
	}

	// Expired entries are evicted on read.
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, out.ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() on missing key error = %v, want nil", err)
	}
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	original := []byte("immutable")
	if err := c.Set(ctx, "k", original, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	original[0] = 'X'

	first, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(first, []byte("immutable")) {
		t.Errorf("Get() = %q, caller mutation leaked into the store", first)
	}

	first[0] = 'Y'
	second, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(second, []byte("immutable")) {
		t.Errorf("Get() = %q, returned slice aliases the store", second)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	c.Clear()

	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", got)
	}
}
