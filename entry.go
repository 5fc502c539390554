// entry.go: per-mapping state and intrusive queue linkage
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"
	"sync/atomic"
	"weak"
)

// queueID identifies which of the three W-TinyLFU regions an entry
// currently belongs to, or none.
type queueID uint8

const (
	notQueued queueID = iota
	windowQueue
	probationQueue
	protectedQueue
)

// entryState tracks an entry's lifecycle independent of which queue it
// sits in, so a concurrent reader can tell a retired entry from a live
// one without holding the maintenance lock.
type entryState uint8

const (
	stateAlive entryState = iota
	stateRetired
	stateDead
)

// valueHolder stores a mapping's value under the configured reference
// strength. Strong keeps v alive directly; Weak/Soft store only a weak
// pointer plus a cleanup that enqueues a Collected removal once the GC
// reclaims the referent (Soft degrades to Weak, see DESIGN.md).
type valueHolder[V any] struct {
	strength ReferenceStrength
	strong   V
	weak     weak.Pointer[V]
}

func newStrongHolder[V any](v V) valueHolder[V] {
	return valueHolder[V]{strength: StrongReference, strong: v}
}

func newWeakHolder[V any](v V) valueHolder[V] {
	boxed := new(V)
	*boxed = v
	return valueHolder[V]{strength: WeakReference, weak: weak.Make(boxed)}
}

// get returns the held value and whether it is still live. A Weak/Soft
// holder reports false once the garbage collector has reclaimed it.
func (h *valueHolder[V]) get() (V, bool) {
	switch h.strength {
	case StrongReference:
		return h.strong, true
	default:
		if p := h.weak.Value(); p != nil {
			return *p, true
		}
		var zero V
		return zero, false
	}
}

// entry is a single cached mapping together with its queue linkage.
// Fields touched only under the maintenance lock (queue pointers, id,
// state) are plain; fields touched from read/write paths without the
// lock (deadlines, the value holder) are atomics; the value holder is
// swapped as an atomic pointer.
type entry[K comparable, V any] struct {
	key    K
	hash   uint64
	weight uint32

	value atomic.Pointer[valueHolder[V]]

	// accessDeadline/writeDeadline are monotonic nanosecond timestamps,
	// 0 meaning "no deadline". Updated atomically so GetIfPresent can
	// refresh accessDeadline without the maintenance lock.
	accessDeadline atomic.Int64
	writeDeadline  atomic.Int64
	writeTime      atomic.Int64

	// refreshing guards RefreshAfterWrite so only one goroutine per key
	// kicks off an asynchronous reload.
	refreshing atomic.Bool

	state atomic.Uint32 // entryState

	// queue linkage, touched only while holding the maintenance lock.
	id         queueID
	prev, next *entry[K, V]
}

func newEntry[K comparable, V any](key K, hash uint64, value V, weight uint32, strength ReferenceStrength) *entry[K, V] {
	e := &entry[K, V]{key: key, hash: hash, weight: weight, id: notQueued}
	e.state.Store(uint32(stateAlive))
	e.setValue(value, strength)
	return e
}

func (e *entry[K, V]) setValue(v V, strength ReferenceStrength) {
	var h valueHolder[V]
	if strength == StrongReference {
		h = newStrongHolder(v)
	} else {
		h = newWeakHolder(v)
	}
	e.value.Store(&h)
}

func (e *entry[K, V]) getValue() (V, bool) {
	h := e.value.Load()
	if h == nil {
		var zero V
		return zero, false
	}
	return h.get()
}

func (e *entry[K, V]) isAlive() bool {
	return entryState(e.state.Load()) == stateAlive
}

func (e *entry[K, V]) markRetired() {
	e.state.CompareAndSwap(uint32(stateAlive), uint32(stateRetired))
}

func (e *entry[K, V]) markDead() {
	e.state.Store(uint32(stateDead))
}

// scheduleCollection arranges for onCollected to run (removing e and
// notifying with cause Collected) once e's value is no longer
// reachable from anywhere except this entry. Only meaningful for
// Weak/Soft value holders; Strong holders never call this.
func scheduleCollection[K comparable, V any](e *entry[K, V], onCollected func()) {
	h := e.value.Load()
	if h == nil || h.strength == StrongReference {
		return
	}
	if p := h.weak.Value(); p != nil {
		runtime.AddCleanup(p, func(func()) { onCollected() }, onCollected)
	}
}
