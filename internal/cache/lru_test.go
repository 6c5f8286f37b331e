package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite: got %q", v)
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Fatalf("stats = %d/%d", hits, misses)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive")
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("c", "3")
	clock.t = clock.t.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should still be live")
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if c.Size() != 1 {
		t.Fatalf("Size after delete = %d", c.Size())
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size after purge = %d", c.Size())
	}
	c.Set("d", "4")
	if _, ok := c.Get("d"); !ok {
		t.Fatal("cache unusable after purge")
	}
}

func TestManager(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	clock.t = clock.t.Add(2 * time.Minute)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep = %d", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()

	idle := NewManager(nil)
	idle.Stop()
}
