package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int64, int](2, time.Hour)
	c.Set(1, 10)
	c.Set(2, 20)
	if _, ok := c.Get(1); !ok {
		t.Fatalf("expected 1 to be cached")
	}
	c.Set(3, 30)

	if _, ok := c.Get(2); ok {
		t.Fatalf("expected 2 to be evicted")
	}
	if v, ok := c.Get(1); !ok || v != 10 {
		t.Fatalf("Get(1) = %v, %v; want 10, true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	c := NewLRU[string, string](10, time.Minute).WithClock(func() time.Time { return now })
	c.Set("x", "one")
	c.Set("y", "two")

	now = now.Add(30 * time.Second)
	c.Set("y", "three")

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("x"); ok {
		t.Fatalf("expected x to have expired")
	}
	if v, ok := c.Get("y"); !ok || v != "three" {
		t.Fatalf("Get(y) = %q, %v; want three, true", v, ok)
	}

	now = now.Add(time.Hour)
	if n := c.Prune(); n != 1 {
		t.Fatalf("Prune = %d, want 1", n)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRU[string, bool](4, time.Hour)
	c.Set("k", true)
	c.Delete("k")
	c.Delete("missing")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected k to be deleted")
	}
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0, time.Hour)
	c.Set(1, 1)
	c.Set(2, 2)
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get(2); !ok {
		t.Fatalf("expected newest entry to survive")
	}
}
