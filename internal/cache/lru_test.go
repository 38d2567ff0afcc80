package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRU[int64, string](4, time.Minute)

	if _, ok := c.Get(1); ok {
		t.Fatal("Get on empty cache reported a hit")
	}
	c.Set(1, "one")
	v, ok := c.Get(1)
	if !ok || v != "one" {
		t.Fatalf("Get(1) = %q, %v, want \"one\", true", v, ok)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int64, string](2, time.Minute)

	c.Set(1, "one")
	c.Set(2, "two")
	c.Get(1)
	c.Set(3, "three")

	if _, ok := c.Get(2); ok {
		t.Fatal("least recently used entry survived eviction")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("recently used entry was evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestExpiry(t *testing.T) {
	c := NewLRU[int64, string](4, 10*time.Millisecond)

	c.Set(1, "one")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(1); ok {
		t.Fatal("expired entry reported as hit")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := NewLRU[int64, string](4, time.Minute)

	c.Set(1, "one")
	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("deleted entry reported as hit")
	}
}
