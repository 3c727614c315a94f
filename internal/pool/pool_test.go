package pool

import (
	"sync"
	"testing"
)

func TestPool_Basic(t *testing.T) {
	pool := NewPool(func() *int {
		x := 42
		return &x
	})

	obj := pool.Get()
	if *obj != 42 {
		t.Errorf("Expected 42, got %d", *obj)
	}
	if pool.Created() != 1 {
		t.Errorf("Expected 1 created object, got %d", pool.Created())
	}

	pool.Put(obj)
	pool.Put(nil) // ignored
}

func TestPool_ResetOnPut(t *testing.T) {
	resets := 0
	pool := NewPoolWithReset(
		func() *[]string {
			slice := make([]string, 0, 4)
			return &slice
		},
		func(slice *[]string) {
			clear(*slice)
			*slice = (*slice)[:0]
			resets++
		},
	)

	slice := pool.Get()
	*slice = append(*slice, "a", "b", "c")
	backing := (*slice)[:3]

	pool.Put(slice)

	if resets != 1 {
		t.Fatalf("Expected reset to run once, ran %d times", resets)
	}
	if len(*slice) != 0 {
		t.Errorf("Expected empty slice after reset, got length %d", len(*slice))
	}
	for i, s := range backing {
		if s != "" {
			t.Errorf("Expected cleared element %d, got %q", i, s)
		}
	}

	// Whatever comes back, reused or new, is empty
	if got := pool.Get(); len(*got) != 0 {
		t.Errorf("Expected empty slice from Get, got %v", *got)
	}
}

func TestPool_Concurrent(t *testing.T) {
	pool := NewPoolWithReset(
		func() *[]int {
			slice := make([]int, 0, 8)
			return &slice
		},
		func(slice *[]int) { *slice = (*slice)[:0] },
	)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 100 {
				s := pool.Get()
				if len(*s) != 0 {
					t.Errorf("goroutine %d got dirty slice %v", id, *s)
				}
				*s = append(*s, id, j)
				pool.Put(s)
			}
		}(i)
	}
	wg.Wait()
}
