package requestcache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[int](4, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Error("empty cache should miss")
	}

	c.Set("a", 1)
	if value, ok := c.Get("a"); !ok || value != 1 {
		t.Errorf("expected hit with 1, got %d %v", value, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[string](4, 5*time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("a", "fresh")

	current = current.Add(4 * time.Minute)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry should still be live inside the TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired past the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be dropped, len %d", c.Len())
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("entry b should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("entry c should have survived")
	}
	if c.Len() != 2 {
		t.Errorf("cache should hold exactly 2 entries, got %d", c.Len())
	}
}

func TestSetExistingKeyDoesNotEvict(t *testing.T) {
	c := New[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	if value, ok := c.Get("a"); !ok || value != 3 {
		t.Errorf("expected overwritten value 3, got %d %v", value, ok)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwriting a key must not evict others")
	}
}

func TestInvalidateMatching(t *testing.T) {
	c := New[int](8, time.Minute)

	c.Set("recommend:a", 1)
	c.Set("recommend:b", 2)
	c.Set("sweep:a", 3)

	c.InvalidateMatching("recommend:")

	if _, ok := c.Get("recommend:a"); ok {
		t.Error("prefixed entry should have been invalidated")
	}
	if _, ok := c.Get("sweep:a"); !ok {
		t.Error("unrelated entry should have survived")
	}
}

func TestInvalidateMatchingPrunesInsertionOrder(t *testing.T) {
	c := New[int](8, time.Minute)

	// A calibrate-then-recompute cycle invalidates and repopulates the
	// same keys over and over; the bookkeeping must stay bounded.
	for cycle := 0; cycle < 100; cycle++ {
		c.Set("recommend:a", cycle)
		c.Set("recommend:b", cycle)
		c.InvalidateMatching("recommend:")
	}

	if len(c.order) != 0 {
		t.Errorf("invalidated keys should leave no insertion-order residue, got %d", len(c.order))
	}

	// Expiry on access prunes the same way.
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("recommend:a", 1)
	current = current.Add(2 * time.Minute)
	c.Get("recommend:a")

	if len(c.order) != 0 {
		t.Errorf("expired keys should leave no insertion-order residue, got %d", len(c.order))
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New[int](4, time.Minute)

	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrCompute("a", compute)
		if err != nil {
			t.Fatal(err)
		}
		if value != 7 {
			t.Errorf("expected 7, got %d", value)
		}
	}

	if calls != 1 {
		t.Errorf("compute should run once, ran %d times", calls)
	}
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := New[int](4, time.Minute)

	computeErr := errors.New("upstream failed")
	calls := 0

	for i := 0; i < 2; i++ {
		_, err := c.GetOrCompute("a", func() (int, error) {
			calls++
			return 0, computeErr
		})
		if !errors.Is(err, computeErr) {
			t.Fatalf("expected compute error, got %v", err)
		}
	}

	if calls != 2 {
		t.Errorf("errors must not be cached, compute ran %d times", calls)
	}
	if c.Len() != 0 {
		t.Errorf("failed computes must not populate the cache, len %d", c.Len())
	}
}

func TestConcurrentGetOrCompute(t *testing.T) {
	c := New[int](16, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := c.GetOrCompute("shared", func() (int, error) {
				return 42, nil
			})
			if err != nil || value != 42 {
				t.Errorf("got %d, %v", value, err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("expected a single entry, got %d", c.Len())
	}
}
