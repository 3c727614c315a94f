// Package pool provides a typed wrapper around sync.Pool
// Used by the haggis parser to reuse instruction buffers across Parse calls
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool provides a generic, type-safe object pool
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // Optional, called before an object goes back to the pool

	created atomic.Int64
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any {
		p.created.Add(1)
		return factory()
	}
	return p
}

// NewPoolWithReset creates a pool whose objects are reset when returned, so
// pooled objects hold no references between uses
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	return p.pool.Get().(*T)
}

// Put resets obj and returns it to the pool. nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Created returns how many objects the factory has built
func (p *Pool[T]) Created() int64 {
	return p.created.Load()
}
