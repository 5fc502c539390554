// config.go: builder configuration for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Default configuration values, applied by Validate when the
// corresponding field is left at its zero value.
const (
	// DefaultMaximumWeight is the MaximumWeight set by DefaultConfig.
	// Validate never applies it: a MaximumWeight of exactly 0 is a legal,
	// deliberate "disabled but observable" cache, and a negative value is
	// an error.
	DefaultMaximumWeight = 10_000

	// DefaultWindowRatio reserves ~1% of capacity for the Window region,
	// matching the W-TinyLFU paper's recommendation.
	DefaultWindowRatio = 0.01

	// DefaultReadBufferStripes is the read-buffer stripe count fallback
	// when Config.ReadBufferStripes is 0, before rounding to the next
	// power of two bounded by readBufferMaxStripes.
	DefaultReadBufferStripes = 4

	// DefaultWriteBufferCapacity is the write-buffer ring size fallback
	// when Config.WriteBufferCapacity is 0.
	DefaultWriteBufferCapacity = 128
)

// Config holds every builder parameter for a Cache[K,V]. Zero-valued
// fields receive the defaults documented per-field; Validate normalizes
// a Config in place and is called automatically by New.
type Config[K comparable, V any] struct {
	// MaximumWeight is the capacity budget in weight units. 0 means the
	// cache is disabled but observable: every positive-weight Put is
	// evicted with cause Size on the next drain (Stats/Policy still
	// function); a zero-weight mapping is never evicted for size and
	// persists like any other weight-0 entry. Must be >= 0.
	MaximumWeight int64

	// WindowRatio is the fraction of MaximumWeight reserved for the
	// Window region. Must be in (0,1); otherwise DefaultWindowRatio.
	WindowRatio float64

	// Weigher computes a mapping's weight. Nil means every mapping has
	// weight 1 (unweighted, entry-count capacity).
	Weigher Weigher[K, V]

	// ExpireAfterAccess resets the access deadline on every read. Zero
	// disables access-based expiration.
	ExpireAfterAccess time.Duration

	// ExpireAfterWrite sets the write deadline on insertion and
	// replacement; reads do not extend it. Zero disables it.
	ExpireAfterWrite time.Duration

	// RefreshAfterWrite triggers an asynchronous reload via Loader the
	// first time a stale entry is read past this deadline, returning the
	// current value immediately. Zero disables refreshing. Requires Loader.
	RefreshAfterWrite time.Duration

	// KeyReferenceStrength is accepted but not applied: keys are always
	// held strongly, whatever this field is set to.
	KeyReferenceStrength ReferenceStrength

	// ValueReferenceStrength selects Strong, Weak, or Soft value retention.
	ValueReferenceStrength ReferenceStrength

	// RemovalListener, if non-nil, is invoked once per present-to-absent
	// transition, dispatched through Executor unless SynchronousRemoval is set.
	RemovalListener RemovalListener[K, V]

	// SynchronousRemoval delivers RemovalListener on the committing
	// goroutine (after the state change lands) instead of via Executor.
	SynchronousRemoval bool

	// CacheWriter, if non-nil, is invoked before a Put or Invalidate
	// commits; a returned error aborts the operation.
	CacheWriter CacheWriter[K, V]

	// Loader computes values for Get's load-through path and for
	// RefreshAfterWrite. May be nil if every Get call supplies its own
	// mappingFunction.
	Loader Loader[K, V]

	// Executor runs deferred work. Nil selects the internal default
	// pool (see executor.go).
	Executor Executor

	// Ticker supplies monotonic time. Nil selects go-timecache.
	Ticker Ticker

	// StatisticsEnabled turns on Stats() counters. When false, Stats()
	// returns a zero value at negligible extra cost on the hot path.
	StatisticsEnabled bool

	// Logger receives diagnostic output (CacheWriter rejections). Nil
	// selects NoOpLogger. Panics recovered by the default executor are
	// discarded, not logged.
	Logger Logger

	// MetricsCollector receives latency/count observations. Nil selects
	// NoOpMetricsCollector (zero overhead).
	MetricsCollector MetricsCollector

	// ReadBufferStripes overrides the read-buffer stripe count. 0 selects
	// DefaultReadBufferStripes.
	ReadBufferStripes int

	// WriteBufferCapacity overrides the write-buffer ring capacity. 0
	// selects DefaultWriteBufferCapacity.
	WriteBufferCapacity int
}

// Validate normalizes c in place, applying defaults documented per-field,
// and returns an argument error (see errors.go) for parameters that have
// no sensible default, per spec: negative capacity is rejected rather
// than silently clamped.
func (c *Config[K, V]) Validate() error {
	if c.MaximumWeight < 0 {
		return NewErrInvalidMaximumWeight(c.MaximumWeight)
	}
	if c.MaximumWeight == 0 {
		c.MaximumWeight = 0 // explicit: disabled-but-observable is legal, not defaulted
	}

	if c.WindowRatio <= 0 || c.WindowRatio >= 1 {
		c.WindowRatio = DefaultWindowRatio
	}

	if c.Weigher == nil {
		c.Weigher = func(K, V) uint32 { return 1 }
	}

	if c.ExpireAfterAccess < 0 || c.ExpireAfterWrite < 0 || c.RefreshAfterWrite < 0 {
		return NewErrInvalidTTL(map[string]time.Duration{
			"expire_after_access": c.ExpireAfterAccess,
			"expire_after_write":  c.ExpireAfterWrite,
			"refresh_after_write": c.RefreshAfterWrite,
		})
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.Ticker == nil {
		c.Ticker = &systemTicker{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	if c.Executor == nil {
		c.Executor = defaultExecutor()
	}
	if c.ReadBufferStripes <= 0 {
		c.ReadBufferStripes = DefaultReadBufferStripes
	}
	if c.WriteBufferCapacity <= 0 {
		c.WriteBufferCapacity = DefaultWriteBufferCapacity
	}

	return nil
}

// DefaultConfig returns a Config with every field at its documented
// default: an unweighted, unbounded-TTL, strongly-referenced cache of
// DefaultMaximumWeight entries.
func DefaultConfig[K comparable, V any]() Config[K, V] {
	cfg := Config[K, V]{
		MaximumWeight: DefaultMaximumWeight,
		WindowRatio:   DefaultWindowRatio,
	}
	_ = cfg.Validate()
	return cfg
}

// systemTicker is the default Ticker, backed by go-timecache's
// background-refreshed clock (nanosecond resolution, no syscall on the
// hot path).
type systemTicker struct{}

func (systemTicker) Now() int64 {
	return timecache.CachedTimeNano()
}
