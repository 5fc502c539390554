// writebuffer.go: lossless multi-producer single-consumer write buffer
//
// The slot layout (fetch-and-add tail index, per-slot sequence number)
// follows the SCQ-style MPSC ring described for hayabusa-cloud-lfq's
// queue package, reimplemented here over stdlib sync/atomic only: ring
// capacity is a power of two, each slot carries a sequence number that
// tells a producer whether the slot is free for its turn yet, and a
// full ring makes producers spin (yielding with runtime.Gosched) until
// the maintenance coordinator drains it; producers never drain the ring
// themselves.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"
	"sync/atomic"
)

// writeTaskKind distinguishes the write-buffer's task variants. Unlike
// the read buffer, every write task must eventually be applied: losing
// one would desynchronize the entry store from the access-order queues.
type writeTaskKind uint8

const (
	taskAdd writeTaskKind = iota
	taskUpdate
	taskRemoval
	taskExpireReorder
)

// writeTask describes one pending mutation for the maintenance
// coordinator to apply to the access-order queues and sketch.
type writeTask[K comparable, V any] struct {
	kind  writeTaskKind
	node  *entry[K, V]
	prior *entry[K, V] // taskUpdate: the entry being replaced, if different node
}

type writeBufferSlot[K comparable, V any] struct {
	sequence atomic.Uint64
	task     writeTask[K, V]
}

// writeBuffer is a bounded MPSC ring. Producers (Put/Invalidate/etc.)
// never lose a task: AddTask blocks briefly (busy-spin with Gosched)
// only in the pathological case where the consumer has fallen capacity
// tasks behind, which a responsive maintenance coordinator avoids.
type writeBuffer[K comparable, V any] struct {
	mask uint64
	ring []writeBufferSlot[K, V]

	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64
}

func newWriteBuffer[K comparable, V any](capacityHint int) *writeBuffer[K, V] {
	if capacityHint <= 0 {
		capacityHint = DefaultWriteBufferCapacity
	}
	n := nextPowerOf2(int64(capacityHint))
	ring := make([]writeBufferSlot[K, V], n)
	for i := range ring {
		ring[i].sequence.Store(uint64(i))
	}
	return &writeBuffer[K, V]{mask: uint64(n - 1), ring: ring}
}

// addTask enqueues t, spinning only while the ring is momentarily full.
func (b *writeBuffer[K, V]) addTask(t writeTask[K, V]) {
	for {
		pos := b.enqueuePos.Load()
		slot := &b.ring[pos&b.mask]
		seq := slot.sequence.Load()
		diff := int64(seq) - int64(pos)

		switch {
		case diff == 0:
			if b.enqueuePos.CompareAndSwap(pos, pos+1) {
				slot.task = t
				slot.sequence.Store(pos + 1)
				return
			}
		case diff < 0:
			// ring full: consumer hasn't caught up. Give it a scheduling
			// slice; the coordinator is expected to drain promptly.
			runtime.Gosched()
		default:
			// another producer claimed pos first; retry with the new index.
		}
	}
}

// drainTo applies every currently-available task to fn, in FIFO order,
// stopping when the ring catches up to the last reserved slot. Must be
// called only while holding the maintenance lock.
func (b *writeBuffer[K, V]) drainTo(fn func(writeTask[K, V])) int {
	drained := 0
	for {
		pos := b.dequeuePos.Load()
		slot := &b.ring[pos&b.mask]
		seq := slot.sequence.Load()
		diff := int64(seq) - int64(pos+1)

		if diff != 0 {
			return drained
		}
		t := slot.task
		slot.sequence.Store(pos + b.mask + 1)
		b.dequeuePos.Store(pos + 1)
		fn(t)
		drained++
	}
}
