// readbuffer.go: striped, lossy multi-producer read buffer
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync/atomic"
	"unsafe"
)

// readBufferSuccess / readBufferFull / readBufferFailed are the outcomes
// of offer. Full and Failed are both non-fatal: the read buffer is a
// hint, not a ledger, and a dropped read event only delays a frequency
// update, never loses correctness.
const (
	readBufferSuccess = iota
	readBufferFull
	readBufferFailed
)

const readBufferStripeCapacity = 16
const readBufferMaxStripes = 64

// readBufferStripe is a single-producer*-at-a-time ring: multiple
// goroutines may land on the same stripe (hash collision), in which case
// a CAS race for the write slot simply fails over to readBufferFailed.
type readBufferStripe[K comparable, V any] struct {
	_       [56]byte // pad away from neighboring stripes' head/tail
	head    atomic.Int64
	tail    atomic.Int64
	buffer  [readBufferStripeCapacity]atomic.Pointer[entry[K, V]]
	_pad    [56]byte
}

// readBuffer stripes offers across Config.ReadBufferStripes shards
// (rounded up to a power of two, at most readBufferMaxStripes) to bound
// contention; each stripe is drained independently by the maintenance
// coordinator under the drain lock.
type readBuffer[K comparable, V any] struct {
	stripes []*readBufferStripe[K, V]
	mask    uint64
}

func newReadBuffer[K comparable, V any](stripeHint int) *readBuffer[K, V] {
	if stripeHint <= 0 {
		stripeHint = DefaultReadBufferStripes
	}
	n := int(nextPowerOf2(int64(stripeHint)))
	if n > readBufferMaxStripes {
		n = readBufferMaxStripes
	}
	if n < 1 {
		n = 1
	}
	stripes := make([]*readBufferStripe[K, V], n)
	for i := range stripes {
		stripes[i] = &readBufferStripe[K, V]{}
	}
	return &readBuffer[K, V]{stripes: stripes, mask: uint64(n - 1)}
}

// offer records that e was read by the current goroutine, returning
// readBufferSuccess/Full/Failed. The stripe is chosen from a cheap
// per-call pseudo-identifier so repeated offers from the same goroutine
// tend to land on the same stripe (temporal locality) without needing
// true goroutine-local storage.
func (b *readBuffer[K, V]) offer(e *entry[K, V]) int {
	stripe := b.stripes[stripeIndex()&b.mask]

	tail := stripe.tail.Load()
	head := stripe.head.Load()
	if tail-head >= readBufferStripeCapacity {
		return readBufferFull
	}

	slot := tail & (readBufferStripeCapacity - 1)
	if !stripe.tail.CompareAndSwap(tail, tail+1) {
		return readBufferFailed
	}
	stripe.buffer[slot].Store(e)
	return readBufferSuccess
}

// drainTo moves every pending event out of every stripe into the visitor
// fn, in arbitrary stripe order. Must be called only while holding the
// maintenance lock.
func (b *readBuffer[K, V]) drainTo(fn func(*entry[K, V])) int {
	drained := 0
	for _, stripe := range b.stripes {
		head := stripe.head.Load()
		tail := stripe.tail.Load()
		for ; head < tail; head++ {
			slot := head & (readBufferStripeCapacity - 1)
			e := stripe.buffer[slot].Swap(nil)
			if e != nil {
				fn(e)
				drained++
			}
		}
		stripe.head.Store(head)
	}
	return drained
}

// stripeIndex returns a cheap, racy-but-good-enough per-goroutine
// identifier, derived from the address of a stack-local variable. Each
// goroutine's stack lives at a distinct base address, so this scatters
// concurrent callers across stripes without true goroutine-local
// storage or any per-call allocation.
func stripeIndex() uint64 {
	var local byte
	v := uint64(uintptr(unsafe.Pointer(&local)))
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	return v
}
