package memcache

import (
	"context"
	"testing"
	"time"
)

func TestGetMissingKey(t *testing.T) {
	c := New()

	value, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || value != nil {
		t.Fatalf("expected a miss, got ok=%v value=%q", ok, value)
	}
}

func TestSetThenGet(t *testing.T) {
	c := New()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || string(value) != "v" {
		t.Fatalf("expected hit with %q, got ok=%v value=%q", "v", ok, value)
	}
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := New()
	ctx := context.Background()

	clock := time.Now()
	c.now = func() time.Time { return clock }

	if err := c.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	clock = clock.Add(2 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestFullCacheEvicts(t *testing.T) {
	c := New()
	c.maxEntries = 2
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), time.Minute); err != nil {
			t.Fatalf("set %q failed: %v", key, err)
		}
	}
	if got := len(c.entries); got > 2 {
		t.Fatalf("expected at most 2 entries, got %d", got)
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Fatal("expected the most recent entry to survive eviction")
	}
}
