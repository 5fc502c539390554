// cache_test.go: unit tests and benchmarks for the core Cache[K,V]
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestCache(t *testing.T, maximumWeight int64) Cache[string, string] {
	t.Helper()
	cache, err := New[string, string](Config[string, string]{MaximumWeight: maximumWeight})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestNew_Defaults(t *testing.T) {
	cache, err := New[string, string](Config[string, string]{MaximumWeight: 100})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	if cache.EstimatedSize() != 0 {
		t.Errorf("expected empty cache, got size %d", cache.EstimatedSize())
	}
	if cache.Policy().Maximum() != 100 {
		t.Errorf("expected maximum 100, got %d", cache.Policy().Maximum())
	}
}

func TestCache_PutGetIfPresent_Basic(t *testing.T) {
	cache := newTestCache(t, 100)

	cache.Put("key1", "value1")

	value, found := cache.GetIfPresent("key1")
	if !found {
		t.Error("expected to find key1")
	}
	if value != "value1" {
		t.Errorf("expected 'value1', got %v", value)
	}

	if _, found := cache.GetIfPresent("nonexistent"); found {
		t.Error("expected not to find a key that was never put")
	}
}

func TestCache_PutReplacesExistingValue(t *testing.T) {
	cache := newTestCache(t, 100)

	cache.Put("key1", "value1")
	cache.Put("key1", "value2")

	value, found := cache.GetIfPresent("key1")
	if !found || value != "value2" {
		t.Errorf("expected 'value2', got found=%v value=%v", found, value)
	}
	if cache.EstimatedSize() != 1 {
		t.Errorf("expected size 1 after replacing the same key, got %d", cache.EstimatedSize())
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache := newTestCache(t, 100)

	cache.Put("key1", "value1")
	cache.Invalidate("key1")

	if _, found := cache.GetIfPresent("key1"); found {
		t.Error("expected key1 to be gone after Invalidate")
	}

	// Invalidating an absent key must not panic.
	cache.Invalidate("never-existed")
}

func TestCache_InvalidateAll(t *testing.T) {
	cache := newTestCache(t, 100)

	for i := 0; i < 10; i++ {
		cache.Put("key"+strconv.Itoa(i), "value")
	}
	cache.InvalidateAll()

	if cache.EstimatedSize() != 0 {
		t.Errorf("expected size 0 after InvalidateAll, got %d", cache.EstimatedSize())
	}
}

func TestCache_PutAll(t *testing.T) {
	cache := newTestCache(t, 100)

	cache.PutAll(map[string]string{"a": "1", "b": "2", "c": "3"})

	for k, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		if v, found := cache.GetIfPresent(k); !found || v != want {
			t.Errorf("key %q = %q, found=%v, want %q", k, v, found, want)
		}
	}
}

func TestCache_AsMap(t *testing.T) {
	cache := newTestCache(t, 100)

	cache.Put("a", "1")
	cache.Put("b", "2")

	m := cache.AsMap()
	if len(m) != 2 || m["a"] != "1" || m["b"] != "2" {
		t.Errorf("AsMap() = %+v, want map[a:1 b:2]", m)
	}
}

func TestCache_EvictsUnderWeightPressure(t *testing.T) {
	cache := newTestCache(t, 50)

	for i := 0; i < 500; i++ {
		cache.Put("key"+strconv.Itoa(i), "value")
	}
	cache.CleanUp()

	if size := cache.EstimatedSize(); size > 50 {
		t.Errorf("estimated size %d exceeds maximum weight 50", size)
	}
}

func TestCache_ZeroMaximumWeightEvictsOnDrain(t *testing.T) {
	cache := newTestCache(t, 0)

	cache.Put("key1", "value1")
	cache.CleanUp()

	if _, found := cache.GetIfPresent("key1"); found {
		t.Error("a MaximumWeight=0 cache should evict every positive-weight put once drained")
	}
}

func TestCache_ZeroMaximumWeightNeverEvictsZeroWeightEntries(t *testing.T) {
	cache, err := New[string, string](Config[string, string]{
		MaximumWeight: 0,
		Weigher:       func(key string, value string) uint32 { return 0 },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("key1", "value1")
	cache.CleanUp()

	if _, found := cache.GetIfPresent("key1"); !found {
		t.Error("a zero-weight entry must never be evicted for size")
	}
}

func TestCache_PutReplaceDropsPriorFromQueue(t *testing.T) {
	cache, err := New[string, []byte](Config[string, []byte]{
		MaximumWeight: 100,
		Weigher:       func(key string, value []byte) uint32 { return uint32(len(value)) },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("a", make([]byte, 3))
	cache.CleanUp()
	cache.Put("a", make([]byte, 4))
	cache.CleanUp()

	entries := cache.Policy().Coldest(10)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one queued entry after replace, got %d", len(entries))
	}
	if len(entries[0].Value) != 4 {
		t.Errorf("expected the replaced entry's weight 4 to be tracked, got %d", len(entries[0].Value))
	}
}

func TestCache_CustomWeigher(t *testing.T) {
	cache, err := New[string, []byte](Config[string, []byte]{
		MaximumWeight: 10,
		Weigher:       func(key string, value []byte) uint32 { return uint32(len(value)) },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("big", make([]byte, 100))
	cache.CleanUp()

	if _, found := cache.GetIfPresent("big"); found {
		t.Error("a mapping heavier than the whole budget should not survive a drain")
	}
}

func TestCache_RemovalListenerNotifiedOnInvalidate(t *testing.T) {
	var mu sync.Mutex
	var gotCause RemovalCause
	var gotKey string

	cache, err := New[string, string](Config[string, string]{
		MaximumWeight:      100,
		SynchronousRemoval: true,
		RemovalListener: func(key string, value string, cause RemovalCause) {
			mu.Lock()
			defer mu.Unlock()
			gotKey, gotCause = key, cause
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("key1", "value1")
	cache.Invalidate("key1")

	mu.Lock()
	defer mu.Unlock()
	if gotKey != "key1" || gotCause != Explicit {
		t.Errorf("listener saw key=%q cause=%v, want key=key1 cause=Explicit", gotKey, gotCause)
	}
}

func TestCache_RemovalListenerNotifiedOnReplace(t *testing.T) {
	var mu sync.Mutex
	var gotCause RemovalCause

	cache, err := New[string, string](Config[string, string]{
		MaximumWeight:      100,
		SynchronousRemoval: true,
		RemovalListener: func(key string, value string, cause RemovalCause) {
			mu.Lock()
			defer mu.Unlock()
			gotCause = cause
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("key1", "value1")
	cache.Put("key1", "value2")

	mu.Lock()
	defer mu.Unlock()
	if gotCause != Replaced {
		t.Errorf("listener saw cause=%v, want Replaced", gotCause)
	}
}

func TestCache_CacheWriterRejectionAbortsPut(t *testing.T) {
	cache, err := New[string, string](Config[string, string]{
		MaximumWeight: 100,
		CacheWriter:   rejectingWriter{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("key1", "value1")
	if _, found := cache.GetIfPresent("key1"); found {
		t.Error("a Put rejected by CacheWriter should not land in the cache")
	}
}

type rejectingWriter struct{}

func (rejectingWriter) Write(key string, value string) error { return NewErrWriterFailed("put", nil) }
func (rejectingWriter) Delete(key string) error               { return nil }

func TestCache_Stats(t *testing.T) {
	cache, err := New[string, string](Config[string, string]{
		MaximumWeight:     100,
		StatisticsEnabled: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	cache.Put("key1", "value1")
	cache.GetIfPresent("key1")
	cache.GetIfPresent("missing")

	stats := cache.Stats()
	if stats.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", stats.HitCount)
	}
	if stats.HitRatio() <= 0 || stats.HitRatio() > 1 {
		t.Errorf("HitRatio() = %v, want in (0,1]", stats.HitRatio())
	}
}

func TestCache_StatsDisabledByDefault(t *testing.T) {
	cache := newTestCache(t, 100)
	cache.Put("key1", "value1")
	cache.GetIfPresent("key1")

	if stats := cache.Stats(); stats.HitCount != 0 {
		t.Errorf("expected zero-value Stats when StatisticsEnabled is false, got %+v", stats)
	}
}

func TestCache_PolicyColdestAndHottest(t *testing.T) {
	cache := newTestCache(t, 100)

	for i := 0; i < 5; i++ {
		cache.Put("key"+strconv.Itoa(i), "value")
	}
	cache.CleanUp()

	coldest := cache.Policy().Coldest(3)
	hottest := cache.Policy().Hottest(3)

	if len(coldest) == 0 {
		t.Error("expected Coldest to return at least one entry")
	}
	if len(hottest) == 0 {
		t.Error("expected Hottest to return at least one entry")
	}
}

func TestCache_PolicySetMaximum(t *testing.T) {
	cache := newTestCache(t, 100)
	cache.Policy().SetMaximum(10)

	if got := cache.Policy().Maximum(); got != 10 {
		t.Errorf("Maximum() = %d, want 10", got)
	}

	for i := 0; i < 100; i++ {
		cache.Put("key"+strconv.Itoa(i), "value")
	}
	cache.CleanUp()

	if size := cache.EstimatedSize(); size > 10 {
		t.Errorf("estimated size %d exceeds the reduced maximum 10", size)
	}
}

func TestCache_ConcurrentPutGet(t *testing.T) {
	cache := newTestCache(t, 1000)

	const goroutines = 16
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := "g" + strconv.Itoa(g) + "-" + strconv.Itoa(i)
				cache.Put(key, key)
				cache.GetIfPresent(key)
			}
		}(g)
	}
	wg.Wait()
}

func BenchmarkCache_Put(b *testing.B) {
	cache, _ := New[string, int](Config[string, int]{MaximumWeight: 10_000})
	defer cache.Close()

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cache.Put(keys[i%len(keys)], i)
	}
}

func BenchmarkCache_GetIfPresent(b *testing.B) {
	cache, _ := New[string, int](Config[string, int]{MaximumWeight: 10_000})
	defer cache.Close()

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
		cache.Put(keys[i], i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cache.GetIfPresent(keys[i%len(keys)])
	}
}

func BenchmarkCache_GetIfPresent_Parallel(b *testing.B) {
	cache, _ := New[string, int](Config[string, int]{MaximumWeight: 10_000})
	defer cache.Close()

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
		cache.Put(keys[i], i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var i int64
		for pb.Next() {
			n := atomic.AddInt64(&i, 1)
			cache.GetIfPresent(keys[n%int64(len(keys))])
		}
	})
}
