// Package memo memoizes keyed computations so that concurrent callers share
// one in-flight call and later callers observe the stored result.
package memo

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Policy controls whether failed calls are remembered.
type Policy int

const (
	// CacheErrors stores errors like values; a failed key stays failed until Forget or Clear.
	CacheErrors Policy = iota
	// RetryErrors drops failed results so the next call runs the function again.
	RetryErrors
)

type result[V any] struct {
	val V
	err error
}

// Group memoizes the result of one call per key.
//
// The function passed to Do runs with the context of the caller that started
// the flight; callers joining an in-flight call share its outcome.
type Group[V any] struct {
	policy Policy
	flight singleflight.Group

	mu   sync.RWMutex
	done map[string]result[V]
}

// New creates an empty group.
func New[V any](policy Policy) *Group[V] {
	return &Group[V]{
		policy: policy,
		done:   make(map[string]result[V]),
	}
}

// Do returns the memoized result for key, calling fn at most once per key
// for as long as the result is retained.
func (g *Group[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, error) {
	if r, ok := g.lookup(key); ok {
		return r.val, r.err
	}

	v, err, _ := g.flight.Do(key, func() (any, error) {
		// A flight that completed between lookup and Do has already stored its result.
		if r, ok := g.lookup(key); ok {
			return r.val, r.err
		}
		val, err := fn(ctx)
		if err == nil || g.policy == CacheErrors {
			g.mu.Lock()
			g.done[key] = result[V]{val: val, err: err}
			g.mu.Unlock()
		}
		return val, err
	})

	val, _ := v.(V)
	return val, err
}

func (g *Group[V]) lookup(key string) (result[V], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.done[key]
	return r, ok
}

// Has reports whether key holds a stored result.
func (g *Group[V]) Has(key string) bool {
	_, ok := g.lookup(key)
	return ok
}

// Forget drops the stored result for key.
func (g *Group[V]) Forget(key string) {
	g.mu.Lock()
	delete(g.done, key)
	g.mu.Unlock()
	g.flight.Forget(key)
}

// Clear drops every stored result. Clearing while calls are in flight is the
// caller's responsibility: an in-flight call still stores its result afterwards.
func (g *Group[V]) Clear() {
	g.mu.Lock()
	g.done = make(map[string]result[V])
	g.mu.Unlock()
}

// Len returns the number of stored results.
func (g *Group[V]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.done)
}
