package container_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/km-arc/go-container"
)

// ── Singleton realization under contention ───────────────────────────────────

func TestSingleton_ConcurrentFirstResolution(t *testing.T) {
	c := container.New()
	var calls atomic.Int32
	c.Singleton("expensive", func(container.Resolver) (any, error) {
		calls.Add(1)
		time.Sleep(2 * time.Millisecond) // widen the race window
		return &widget{id: 1}, nil
	})

	const goroutines = 32
	results := make([]*widget, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			w, err := container.Resolve[*widget](c, "expensive")
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
				return
			}
			results[i] = w
		}(i)
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("producer ran %d times, want exactly 1", n)
	}
	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Errorf("goroutine %d observed a different instance", i)
		}
	}
}

func TestTransient_ConcurrentResolutionsAreIndependent(t *testing.T) {
	c := container.New()
	var calls atomic.Int32
	c.Bind("widget", func(container.Resolver) (any, error) {
		return &widget{id: int(calls.Add(1))}, nil
	})

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.Make("widget"); err != nil {
				t.Errorf("make: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != goroutines {
		t.Errorf("factory ran %d times, want %d", n, goroutines)
	}
}

// ── Registration concurrent with resolution ──────────────────────────────────

func TestContainer_ConcurrentRegisterAndResolve(t *testing.T) {
	c := container.New()

	const services = 8
	var wg sync.WaitGroup
	for i := 0; i < services; i++ {
		key := fmt.Sprintf("service.%d", i)
		want := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Singleton(key, func(container.Resolver) (any, error) { return want, nil })
		}()
		go func() {
			defer wg.Done()
			// May lose the race with registration; must never corrupt state.
			_, _ = c.Make(key)
		}()
	}
	wg.Wait()

	for i := 0; i < services; i++ {
		got, err := c.Make(fmt.Sprintf("service.%d", i))
		if err != nil {
			t.Fatalf("service.%d: %v", i, err)
		}
		if got != i {
			t.Errorf("service.%d: got %v", i, got)
		}
	}
}

func TestSingleton_ConcurrentFailuresAllReported(t *testing.T) {
	c := container.New()
	var calls atomic.Int32
	c.Singleton("broken", func(container.Resolver) (any, error) {
		calls.Add(1)
		return nil, errBoom
	})

	const goroutines = 8
	var failures atomic.Int32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.Make("broken"); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := failures.Load(); n != goroutines {
		t.Errorf("%d of %d resolutions failed, want all", n, goroutines)
	}
	// A failed singleton stays unrealized: every attempt retries the producer.
	if calls.Load() == 0 {
		t.Error("producer never ran")
	}
	if c.Resolved("broken") {
		t.Error("failed singleton reported resolved")
	}
}
