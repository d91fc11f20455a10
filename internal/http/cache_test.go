package http

import (
	"testing"
	"time"
)

// TestLRUCacheEviction tests size-based eviction
func TestLRUCacheEviction(t *testing.T) {
	cache := newLRUCache[string](3, time.Hour)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Set("key3", "value3")
	cache.Set("key4", "value4") // Should evict key1

	if _, found := cache.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, key := range []string{"key2", "key3", "key4"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("%s should still exist", key)
		}
	}
}

// TestLRUCacheRecency verifies that a Get refreshes an entry's position
func TestLRUCacheRecency(t *testing.T) {
	cache := newLRUCache[string](3, time.Hour)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Set("key3", "value3")

	// Touch key1 so key2 becomes the LRU victim
	if _, found := cache.Get("key1"); !found {
		t.Fatal("key1 missing before eviction")
	}
	cache.Set("key4", "value4")

	if _, found := cache.Get("key2"); found {
		t.Error("key2 should have been evicted")
	}
	if _, found := cache.Get("key1"); !found {
		t.Error("key1 should have survived")
	}
}

// TestLRUCacheTTL tests time-based expiry
func TestLRUCacheTTL(t *testing.T) {
	cache := newLRUCache[string](10, 20*time.Millisecond)

	cache.Set("key", "value")
	if _, found := cache.Get("key"); !found {
		t.Fatal("entry should exist before TTL")
	}

	time.Sleep(30 * time.Millisecond)
	if _, found := cache.Get("key"); found {
		t.Error("entry should have expired")
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	cache := newLRUCache[int](10, 10*time.Millisecond)

	cache.Set("a", 1)
	cache.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	cache.Set("c", 3)

	if removed := cache.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if _, found := cache.Get("c"); !found {
		t.Error("fresh entry should survive cleanup")
	}
}

func TestLRUCachePurge(t *testing.T) {
	cache := newLRUCache[int](10, time.Hour)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Purge()

	if _, found := cache.Get("a"); found {
		t.Error("purged entry survived")
	}
	if _, found := cache.Get("b"); found {
		t.Error("purged entry survived")
	}
}
