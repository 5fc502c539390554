// stats.go: cache statistics counters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// Stats is an immutable snapshot of a cache's counters, per spec §6.
type Stats struct {
	HitCount         int64
	MissCount        int64
	LoadSuccessCount int64
	LoadFailureCount int64
	TotalLoadNanos   int64
	EvictionCount    int64
	EvictionWeight   int64
}

// HitRatio returns HitCount/(HitCount+MissCount), or 1.0 if no requests
// have been recorded yet.
func (s Stats) HitRatio() float64 {
	total := s.HitCount + s.MissCount
	if total == 0 {
		return 1.0
	}
	return float64(s.HitCount) / float64(total)
}

// AverageLoadPenalty returns TotalLoadNanos/(LoadSuccessCount+LoadFailureCount),
// or 0 if no loads have been recorded.
func (s Stats) AverageLoadPenalty() float64 {
	total := s.LoadSuccessCount + s.LoadFailureCount
	if total == 0 {
		return 0
	}
	return float64(s.TotalLoadNanos) / float64(total)
}

// statCounters is the live, mutable counter set backing Stats(). All
// fields are updated with plain atomics and are always incremented;
// StatisticsEnabled only gates whether Stats() reports them.
type statCounters struct {
	hitCount         atomic.Int64
	missCount        atomic.Int64
	loadSuccessCount atomic.Int64
	loadFailureCount atomic.Int64
	totalLoadNanos   atomic.Int64
	evictionCount    atomic.Int64
	evictionWeight   atomic.Int64
}

func (s *statCounters) recordHit()  { s.hitCount.Add(1) }
func (s *statCounters) recordMiss() { s.missCount.Add(1) }

func (s *statCounters) recordLoadSuccess(nanos int64) {
	s.loadSuccessCount.Add(1)
	s.totalLoadNanos.Add(nanos)
}

func (s *statCounters) recordLoadFailure(nanos int64) {
	s.loadFailureCount.Add(1)
	s.totalLoadNanos.Add(nanos)
}

func (s *statCounters) recordEviction(weight int64) {
	s.evictionCount.Add(1)
	s.evictionWeight.Add(weight)
}

func (s *statCounters) snapshot() Stats {
	return Stats{
		HitCount:         s.hitCount.Load(),
		MissCount:        s.missCount.Load(),
		LoadSuccessCount: s.loadSuccessCount.Load(),
		LoadFailureCount: s.loadFailureCount.Load(),
		TotalLoadNanos:   s.totalLoadNanos.Load(),
		EvictionCount:    s.evictionCount.Load(),
		EvictionWeight:   s.evictionWeight.Load(),
	}
}
