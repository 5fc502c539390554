// store.go: generic entry store
//
// No third-party concurrent map library appears anywhere in the
// surveyed corpus (see DESIGN.md); sync.Map is the stdlib fallback,
// chosen over a hand-rolled shared-map-plus-mutex because the access
// pattern here is read-heavy with a stable key set between resizes,
// exactly sync.Map's documented sweet spot.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync"
	"sync/atomic"
)

// entryStore maps K to *entry[K,V], independent of which access-order
// queue (if any) the entry currently sits in. It is the single source
// of truth for "is this key present"; the queues only order eviction
// candidates.
type entryStore[K comparable, V any] struct {
	m    sync.Map
	size atomic.Int64
}

func newEntryStore[K comparable, V any]() *entryStore[K, V] {
	return &entryStore[K, V]{}
}

func (s *entryStore[K, V]) get(key K) (*entry[K, V], bool) {
	v, ok := s.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*entry[K, V]), true
}

// putIfAbsent stores e unless key is already present, returning the
// winning entry and whether e itself won.
func (s *entryStore[K, V]) putIfAbsent(key K, e *entry[K, V]) (*entry[K, V], bool) {
	actual, loaded := s.m.LoadOrStore(key, e)
	if !loaded {
		s.size.Add(1)
		return e, true
	}
	return actual.(*entry[K, V]), false
}

// put unconditionally installs e, returning the previous entry (if any).
func (s *entryStore[K, V]) put(key K, e *entry[K, V]) (*entry[K, V], bool) {
	prev, loaded := s.m.Swap(key, e)
	if !loaded {
		s.size.Add(1)
		return nil, false
	}
	return prev.(*entry[K, V]), true
}

// removeIfSame deletes key only if the currently stored entry is
// identical to expect (pointer equality), returning whether it removed it.
func (s *entryStore[K, V]) removeIfSame(key K, expect *entry[K, V]) bool {
	if s.m.CompareAndDelete(key, expect) {
		s.size.Add(-1)
		return true
	}
	return false
}

func (s *entryStore[K, V]) remove(key K) (*entry[K, V], bool) {
	v, loaded := s.m.LoadAndDelete(key)
	if !loaded {
		return nil, false
	}
	s.size.Add(-1)
	return v.(*entry[K, V]), true
}

func (s *entryStore[K, V]) count() int64 {
	return s.size.Load()
}

// forEach visits every present entry in an unspecified order. fn must
// not mutate the store.
func (s *entryStore[K, V]) forEach(fn func(K, *entry[K, V]) bool) {
	s.m.Range(func(k, v interface{}) bool {
		return fn(k.(K), v.(*entry[K, V]))
	})
}

func (s *entryStore[K, V]) clear() {
	s.m.Range(func(k, v interface{}) bool {
		s.m.Delete(k)
		return true
	})
	s.size.Store(0)
}
