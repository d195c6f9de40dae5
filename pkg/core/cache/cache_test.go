package cache

import (
	"errors"
	"testing"
	"time"
)

func newTestCache(cfg Config) (*Cache[string], *time.Time) {
	c := New[string](cfg)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 4})
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", "eins")
	v, ok := c.Get("a")
	if !ok || v != "eins" {
		t.Fatalf("expected hit with eins, got %q %v", v, ok)
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("unexpected stats: hits=%d misses=%d rate=%.0f", hits, misses, rate)
	}
}

func TestExpiry(t *testing.T) {
	c, now := newTestCache(Config{MaxItems: 4, TTL: time.Minute})
	defer c.Close()

	c.Set("a", "eins")
	*now = now.Add(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}
	*now = now.Add(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry should be removed, size %d", c.Size())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, now := newTestCache(Config{MaxItems: 2})
	defer c.Close()

	c.Set("a", "eins")
	*now = now.Add(time.Second)
	c.Set("b", "zwei")
	*now = now.Add(time.Second)
	c.Get("a")
	*now = now.Add(time.Second)
	c.Set("c", "drei")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a was used recently and should stay")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 2})
	defer c.Close()

	c.Set("a", "eins")
	c.Set("b", "zwei")
	c.Set("b", "zwei!")
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	if v, _ := c.Get("b"); v != "zwei!" {
		t.Errorf("expected overwritten value, got %q", v)
	}
}

func TestGetOrSet(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 4})
	defer c.Close()

	calls := 0
	fn := func() (string, error) {
		calls++
		return "wert", nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("k", fn)
		if err != nil || v != "wert" {
			t.Fatalf("unexpected result %q %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected one computation, got %d", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("x", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("expected error to pass through, got %v", err)
	}
	if _, ok := c.Get("x"); ok {
		t.Error("errors must not be cached")
	}
}

func TestCleanupAndClose(t *testing.T) {
	c, now := newTestCache(Config{MaxItems: 4, TTL: time.Second})
	c.Set("a", "eins")
	c.Set("b", "zwei")
	*now = now.Add(2 * time.Second)
	c.cleanup()
	if c.Size() != 0 {
		t.Errorf("expected cleanup to drop expired entries, size %d", c.Size())
	}
	c.Close()
	c.Close()
}
