// cache.go: core Cache[K,V] implementation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"hash/maphash"
	"sync/atomic"
)

// cacheImpl is the concrete Cache[K,V]. Hot paths (GetIfPresent, Put)
// never take a lock: they mutate the entry store directly and offer a
// best-effort event to the read or write buffer, leaving all queue and
// sketch bookkeeping to the maintenance coordinator.
type cacheImpl[K comparable, V any] struct {
	config Config[K, V]
	seed   maphash.Seed

	store       *entryStore[K, V]
	maintenance *maintenanceCoordinator[K, V]
	readBuf     *readBuffer[K, V]
	writeBuf    *writeBuffer[K, V]

	loaders *loadGroup[K, V]

	stats  statCounters
	closed atomic.Bool
}

// New builds a Cache[K,V] from cfg, applying Validate's defaults.
func New[K comparable, V any](cfg Config[K, V]) (Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &cacheImpl[K, V]{
		config:  cfg,
		seed:    maphash.MakeSeed(),
		store:   newEntryStore[K, V](),
		readBuf: newReadBuffer[K, V](cfg.ReadBufferStripes),
		writeBuf: newWriteBuffer[K, V](cfg.WriteBufferCapacity),
	}
	c.maintenance = newMaintenanceCoordinator[K, V](c)
	c.loaders = newLoadGroup[K, V](c)
	return c, nil
}

func (c *cacheImpl[K, V]) hashOf(key K) uint64 {
	return maphash.Comparable(c.seed, key)
}

// GetIfPresent implements Cache[K,V].
func (c *cacheImpl[K, V]) GetIfPresent(key K) (value V, found bool) {
	start := c.config.Ticker.Now()
	e, ok := c.store.get(key)
	if !ok || !e.isAlive() {
		c.stats.recordMiss()
		c.config.MetricsCollector.RecordGet(c.config.Ticker.Now()-start, false)
		var zero V
		return zero, false
	}

	now := c.config.Ticker.Now()
	if c.isExpired(e, now) {
		c.removeExpiredAsync(e, Expired)
		c.stats.recordMiss()
		c.config.MetricsCollector.RecordGet(c.config.Ticker.Now()-start, false)
		var zero V
		return zero, false
	}

	v, live := e.getValue()
	if !live {
		c.removeExpiredAsync(e, Collected)
		c.stats.recordMiss()
		c.config.MetricsCollector.RecordGet(c.config.Ticker.Now()-start, false)
		var zero V
		return zero, false
	}

	c.recordAccess(e, now)
	c.stats.recordHit()
	c.config.MetricsCollector.RecordGet(c.config.Ticker.Now()-start, true)
	return v, true
}

// recordAccess extends the access deadline (if configured) and offers a
// read event to the coordinator, scheduling a drain if the buffer fills.
func (c *cacheImpl[K, V]) recordAccess(e *entry[K, V], now int64) {
	if c.config.ExpireAfterAccess > 0 {
		e.accessDeadline.Store(now + c.config.ExpireAfterAccess.Nanoseconds())
	}
	if c.config.RefreshAfterWrite > 0 {
		c.maybeRefresh(e, now)
	}
	if c.readBuf.offer(e) == readBufferFull {
		c.maintenance.scheduleDrain()
	}
}

func (c *cacheImpl[K, V]) isExpired(e *entry[K, V], now int64) bool {
	if wd := e.writeDeadline.Load(); wd != 0 && now >= wd {
		return true
	}
	if ad := e.accessDeadline.Load(); ad != 0 && now >= ad {
		return true
	}
	return false
}

// removeExpiredAsync retires e, enqueues its removal and notifies the
// listener with cause (Expired, or Collected for a reclaimed value); used
// from read paths and GC cleanups that must not apply the change themselves.
func (c *cacheImpl[K, V]) removeExpiredAsync(e *entry[K, V], cause RemovalCause) {
	if !c.store.removeIfSame(e.key, e) {
		return
	}
	e.markRetired()
	c.writeBuf.addTask(writeTask[K, V]{kind: taskExpireReorder, node: e})
	c.maintenance.scheduleDrain()
	c.notifyRemoval(e, cause)
}

// expireOrRemove is invoked by the maintenance coordinator (lock held)
// for entries it is evicting directly out of a queue.
func (c *cacheImpl[K, V]) expireOrRemove(e *entry[K, V], cause RemovalCause) {
	c.store.removeIfSame(e.key, e)
	e.markDead()
	c.stats.recordEviction(int64(e.weight))
	c.config.MetricsCollector.RecordEviction(cause, e.weight)
	c.notifyRemoval(e, cause)
}

func (c *cacheImpl[K, V]) notifyRemoval(e *entry[K, V], cause RemovalCause) {
	if c.config.RemovalListener == nil {
		return
	}
	v, _ := e.getValue()
	deliver := func() { c.config.RemovalListener(e.key, v, cause) }
	if c.config.SynchronousRemoval {
		deliver()
	} else {
		c.config.Executor(deliver)
	}
}

// Put implements Cache[K,V].
func (c *cacheImpl[K, V]) Put(key K, value V) {
	start := c.config.Ticker.Now()
	c.put(key, value)
	c.config.MetricsCollector.RecordPut(c.config.Ticker.Now() - start)
}

func (c *cacheImpl[K, V]) put(key K, value V) {
	if c.config.CacheWriter != nil {
		if err := c.config.CacheWriter.Write(key, value); err != nil {
			c.config.Logger.Warn("cache writer rejected put", "key", key, "error", err)
			return
		}
	}

	now := c.config.Ticker.Now()
	weight := c.config.Weigher(key, value)
	hash := c.hashOf(key)

	e := newEntry[K, V](key, hash, value, weight, c.config.ValueReferenceStrength)
	e.writeTime.Store(now)
	if c.config.ExpireAfterWrite > 0 {
		e.writeDeadline.Store(now + c.config.ExpireAfterWrite.Nanoseconds())
	}
	if c.config.ValueReferenceStrength != StrongReference {
		scheduleCollection(e, func() {
			c.removeExpiredAsync(e, Collected)
		})
	}

	if winner, inserted := c.store.putIfAbsent(key, e); inserted {
		_ = winner
		c.writeBuf.addTask(writeTask[K, V]{kind: taskAdd, node: e})
	} else {
		prev, _ := c.store.put(key, e)
		c.writeBuf.addTask(writeTask[K, V]{kind: taskUpdate, node: e, prior: prev})
		if prev != nil {
			prev.markDead()
			c.notifyRemoval(prev, Replaced)
		}
	}

	c.maintenance.scheduleDrain()
}

// PutAll implements Cache[K,V].
func (c *cacheImpl[K, V]) PutAll(m map[K]V) {
	for k, v := range m {
		c.Put(k, v)
	}
}

// Invalidate implements Cache[K,V].
func (c *cacheImpl[K, V]) Invalidate(key K) {
	start := c.config.Ticker.Now()
	if c.config.CacheWriter != nil {
		if _, present := c.store.get(key); present {
			if err := c.config.CacheWriter.Delete(key); err != nil {
				c.config.Logger.Warn("cache writer rejected invalidate", "key", key, "error", err)
				c.config.MetricsCollector.RecordInvalidate(c.config.Ticker.Now() - start)
				return
			}
		}
	}
	if e, ok := c.store.remove(key); ok {
		e.markRetired()
		c.writeBuf.addTask(writeTask[K, V]{kind: taskRemoval, node: e})
		c.maintenance.scheduleDrain()
		c.notifyRemoval(e, Explicit)
	}
	c.config.MetricsCollector.RecordInvalidate(c.config.Ticker.Now() - start)
}

// InvalidateAll implements Cache[K,V].
func (c *cacheImpl[K, V]) InvalidateAll() {
	c.store.forEach(func(k K, e *entry[K, V]) bool {
		c.Invalidate(k)
		return true
	})
}

// EstimatedSize implements Cache[K,V].
func (c *cacheImpl[K, V]) EstimatedSize() int64 {
	return c.store.count()
}

// Stats implements Cache[K,V].
func (c *cacheImpl[K, V]) Stats() Stats {
	if !c.config.StatisticsEnabled {
		return Stats{}
	}
	return c.stats.snapshot()
}

// CleanUp implements Cache[K,V].
func (c *cacheImpl[K, V]) CleanUp() {
	c.maintenance.drain()
}

// AsMap implements Cache[K,V].
func (c *cacheImpl[K, V]) AsMap() map[K]V {
	now := c.config.Ticker.Now()
	out := make(map[K]V)
	c.store.forEach(func(k K, e *entry[K, V]) bool {
		if !e.isAlive() || c.isExpired(e, now) {
			return true
		}
		if v, ok := e.getValue(); ok {
			out[k] = v
		}
		return true
	})
	return out
}

// Policy implements Cache[K,V].
func (c *cacheImpl[K, V]) Policy() Policy[K, V] {
	return (*cachePolicy[K, V])(c)
}

// Close implements Cache[K,V].
func (c *cacheImpl[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}
