// Command xanthos-bench replays a synthetic Zipf-distributed access trace
// against a xanthos cache and reports the resulting hit ratio and
// throughput. It is a small operational tool for sizing a cache before
// committing a MaximumWeight in production.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	flashflags "github.com/agilira/flash-flags"
	"github.com/agilira/xanthos"
)

// zipfGenerator produces keys following a Zipf distribution, simulating
// realistic access patterns where a small set of keys is far hotter than
// the rest of the key space.
type zipfGenerator struct {
	zipf *rand.Zipf
}

func newZipfGenerator(s, v float64, keySpace uint64) *zipfGenerator {
	if keySpace < 1 {
		keySpace = 1
	}
	if s <= 1.0 {
		s = 1.01
	}
	if v < 1.0 {
		v = 1.0
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	z := rand.NewZipf(r, s, v, keySpace-1)
	if z == nil {
		panic(fmt.Sprintf("failed to create zipf generator: s=%f v=%f keySpace=%d", s, v, keySpace))
	}
	return &zipfGenerator{zipf: z}
}

func (z *zipfGenerator) next() string {
	return strconv.FormatUint(z.zipf.Uint64(), 10)
}

func main() {
	fs := flashflags.New("xanthos-bench")
	maximumWeight := fs.Int64("max-weight", 10_000, "maximum weight of the cache under test")
	keySpace := fs.Int("key-space", 100_000, "number of distinct keys in the trace")
	operations := fs.Int("ops", 1_000_000, "number of get/put operations to replay")
	readRatio := fs.Float64("read-ratio", 0.9, "fraction of operations that are reads (0.0-1.0)")
	zipfSkew := fs.Float64("zipf-skew", 1.1, "Zipf exponent; higher means hotter head keys")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "xanthos-bench:", err)
		os.Exit(1)
	}

	cache, err := xanthos.New[string, string](xanthos.Config[string, string]{
		MaximumWeight:     maximumWeight.Value(),
		StatisticsEnabled: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "xanthos-bench: failed to build cache:", err)
		os.Exit(1)
	}
	defer cache.Close()

	gen := newZipfGenerator(zipfSkew.Value(), 1.0, uint64(keySpace.Value()))

	start := time.Now()
	for i := 0; i < operations.Value(); i++ {
		key := gen.next()
		if rand.Float64() < readRatio.Value() {
			if _, found := cache.GetIfPresent(key); !found {
				cache.Put(key, key)
			}
		} else {
			cache.Put(key, key)
		}
	}
	elapsed := time.Since(start)

	stats := cache.Stats()
	fmt.Printf("xanthos-bench: replayed %d operations over %d keys in %s (%.0f ops/sec)\n",
		operations.Value(), keySpace.Value(), elapsed, float64(operations.Value())/elapsed.Seconds())
	fmt.Printf("  maximum weight:  %d\n", maximumWeight.Value())
	fmt.Printf("  estimated size:  %d\n", cache.EstimatedSize())
	fmt.Printf("  hit ratio:       %.4f\n", stats.HitRatio())
	fmt.Printf("  hits/misses:     %d/%d\n", stats.HitCount, stats.MissCount)
	fmt.Printf("  evictions:       %d (weight %d)\n", stats.EvictionCount, stats.EvictionWeight)
}
