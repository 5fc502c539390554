// loading.go: Get/GetAll load-through with singleflight coalescing
//
// The in-flight call bookkeeping (a map of key to a pending call guarded
// by a mutex, broadcast via a closed channel rather than a goroutine per
// waiter) follows the cache's original GetOrLoad implementation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"context"
	"sync"
)

// loadGroup deduplicates concurrent loads for the same key into a
// single Loader/mappingFunction call; every other concurrent caller for
// that key waits on the first call's result instead of triggering its
// own.
type loadGroup[K comparable, V any] struct {
	cache *cacheImpl[K, V]

	mu    sync.Mutex
	calls map[K]*inflightCall[V]
}

type inflightCall[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newLoadGroup[K comparable, V any](c *cacheImpl[K, V]) *loadGroup[K, V] {
	return &loadGroup[K, V]{cache: c, calls: make(map[K]*inflightCall[V])}
}

// Get implements Cache[K,V].
func (c *cacheImpl[K, V]) Get(ctx context.Context, key K, mappingFunction func(context.Context, K) (V, error)) (V, error) {
	if v, ok := c.GetIfPresent(key); ok {
		return v, nil
	}

	fn := mappingFunction
	if fn == nil {
		fn = c.config.Loader
	}
	if fn == nil {
		var zero V
		return zero, NewErrNoLoader()
	}

	return c.loaders.load(ctx, key, fn)
}

func (g *loadGroup[K, V]) load(ctx context.Context, key K, fn func(context.Context, K) (V, error)) (V, error) {
	g.mu.Lock()
	if call, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-call.done
		return call.value, call.err
	}

	call := &inflightCall[V]{done: make(chan struct{})}
	g.calls[key] = call
	g.mu.Unlock()

	start := g.cache.config.Ticker.Now()
	call.value, call.err = g.runLoader(ctx, key, fn)
	elapsed := g.cache.config.Ticker.Now() - start

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(call.done)

	if call.err == nil {
		g.cache.put(key, call.value)
		g.cache.stats.recordLoadSuccess(elapsed)
	} else {
		g.cache.stats.recordLoadFailure(elapsed)
	}
	g.cache.config.MetricsCollector.RecordLoad(elapsed, call.err == nil)

	return call.value, call.err
}

// runLoader invokes fn, converting a panic into a LoaderPanicked error
// so one misbehaving Loader cannot crash the calling goroutine.
func (g *loadGroup[K, V]) runLoader(ctx context.Context, key K, fn func(context.Context, K) (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			v, err = zero, NewErrLoaderPanicked(r)
		}
	}()
	v, err = fn(ctx, key)
	if err != nil {
		return v, NewErrLoaderFailed(err)
	}
	return v, nil
}

// GetAll implements Cache[K,V].
func (c *cacheImpl[K, V]) GetAll(ctx context.Context, keys []K, bulkLoader func(context.Context, []K) (map[K]V, error)) (map[K]V, error) {
	out := make(map[K]V, len(keys))
	var missing []K

	for _, k := range keys {
		if v, ok := c.GetIfPresent(k); ok {
			out[k] = v
		} else {
			missing = append(missing, k)
		}
	}

	if len(missing) == 0 || bulkLoader == nil {
		return out, nil
	}

	start := c.config.Ticker.Now()
	loaded, err := bulkLoader(ctx, missing)
	elapsed := c.config.Ticker.Now() - start
	if err != nil {
		c.stats.recordLoadFailure(elapsed)
		c.config.MetricsCollector.RecordLoad(elapsed, false)
		return out, NewErrLoaderFailed(err)
	}
	c.stats.recordLoadSuccess(elapsed)
	c.config.MetricsCollector.RecordLoad(elapsed, true)

	for k, v := range loaded {
		c.put(k, v)
		out[k] = v
	}
	return out, nil
}

// maybeRefresh kicks off an asynchronous reload for e once it is past
// RefreshAfterWrite, returning the stale value to the current caller
// immediately (per spec: refresh never blocks a read).
func (c *cacheImpl[K, V]) maybeRefresh(e *entry[K, V], now int64) {
	if c.config.Loader == nil {
		return
	}
	wt := e.writeTime.Load()
	if wt == 0 {
		return
	}
	if now-wt < c.config.RefreshAfterWrite.Nanoseconds() {
		return
	}
	if !e.refreshing.CompareAndSwap(false, true) {
		return
	}
	c.config.Executor(func() {
		defer e.refreshing.Store(false)
		ctx := context.Background()
		v, err := c.loaders.runLoader(ctx, e.key, c.config.Loader)
		if err == nil {
			c.put(e.key, v)
		}
	})
}
