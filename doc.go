// Package xanthos provides a bounded, thread-safe, in-process cache
// using the W-TinyLFU (Window-TinyLFU) admission and eviction policy.
//
// # Overview
//
// Xanthos is designed around three ideas:
//
//   - Admission over pure recency: a compact frequency sketch decides
//     whether a newly-seen key is worth keeping, not just whether it was
//     used recently.
//   - Hot paths never block on policy bookkeeping: Get and Put record
//     their effect on the entry store immediately and hand a lightweight
//     event to a buffer; a single maintenance coordinator drains those
//     buffers and updates the eviction policy out of line.
//   - Type-safe generics: Cache[K comparable, V any] with no interface{}
//     on the call path.
//
// # Quick Start
//
//	import "github.com/agilira/xanthos"
//
//	type User struct {
//	    ID   int
//	    Name string
//	}
//
//	func main() {
//	    cache, err := xanthos.New[string, User](xanthos.Config[string, User]{
//	        MaximumWeight: 10_000,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer cache.Close()
//
//	    cache.Put("user:123", User{ID: 123, Name: "Alice"})
//
//	    if user, found := cache.GetIfPresent("user:123"); found {
//	        fmt.Printf("User: %s\n", user.Name)
//	    }
//
//	    fmt.Printf("Hit ratio: %.2f%%\n", cache.Stats().HitRatio()*100)
//	}
//
// # Cache Stampede Prevention
//
// Get coalesces concurrent misses for the same key into a single call
// to the configured Loader (or a per-call mappingFunction): whichever
// goroutine arrives first runs the loader, every other concurrent
// caller for that key waits on its result instead of triggering its own.
//
//	user, err := cache.Get(ctx, "user:123", func(ctx context.Context, key string) (User, error) {
//	    return fetchUserFromDB(ctx, key) // runs once even under concurrent load
//	})
//
// # W-TinyLFU Algorithm
//
// The replacement policy partitions capacity into three regions:
//
//   - Window (≈1% of capacity): every new mapping enters here, as plain LRU.
//   - Probation: mappings evicted from the Window land here as admission
//     candidates; mappings demoted from Protected land here too.
//   - Protected (≈80% of the remaining capacity): mappings accessed a
//     second time while in Probation are promoted here.
//
// When the Window overflows, its coldest entry competes for a slot
// against the coldest Probation entry. A 4-bit Count-Min Sketch
// estimates each key's reference frequency in O(1) space; the entry
// with the higher estimate wins, with a low-frequency floor and a
// deterministic tie-break so a single cold miss can't dislodge
// established keys. This combination tracks both recency (via the
// Window/LRU ordering) and frequency (via the sketch), which plain LRU
// cannot.
//
// # Concurrency Model
//
//   - GetIfPresent/Get: no coordinator lock. The entry store lookup and
//     value read are lock-free; the read event offered to the read
//     buffer is also lock-free, and may be silently dropped under
//     contention (it is a hint, not a ledger).
//   - Put/Invalidate: the entry store mutation is immediate; the
//     corresponding write event is never dropped — the write buffer is
//     a lossless MPSC ring.
//   - Maintenance: a single non-reentrant drain applies buffered events
//     to the access-order queues and the sketch, then evicts until the
//     cache is within its weight budget. Drains are scheduled
//     opportunistically through the configured Executor, never on the
//     calling goroutine, except via the synchronous CleanUp method.
//
// # Expiration
//
// ExpireAfterAccess and ExpireAfterWrite are both optional and may be
// combined; a mapping expires at the earlier deadline. Expired entries
// are detected lazily on read and removed by the next drain; there is
// no background timer goroutine scanning for expiration independent of
// traffic.
//
// RefreshAfterWrite triggers at most one asynchronous reload per key
// once a read observes a stale mapping; the stale value is returned to
// that caller immediately rather than blocking on the reload.
//
// # Reference Strength
//
// Values may be held Strong (default), Weak, or Soft. Go exposes no
// memory-pressure-aware reference class, so Soft is treated as Weak
// (see DESIGN.md). A Weak/Soft value becomes eligible for removal as
// soon as the garbage collector reclaims it, independent of the
// replacement policy.
//
// # Observability
//
//	stats := cache.Stats()
//	fmt.Printf("hits=%d misses=%d ratio=%.2f%% evictions=%d\n",
//	    stats.HitCount, stats.MissCount, stats.HitRatio()*100, stats.EvictionCount)
//
// Enterprise observability with OpenTelemetry is available as a
// separate module:
//
//	import xanthosotel "github.com/agilira/xanthos/otel"
//
//	collector, _ := xanthosotel.NewCollector(meterProvider)
//	cache, _ := xanthos.New[string, User](xanthos.Config[string, User]{
//	    MaximumWeight:    10_000,
//	    MetricsCollector: collector, // optional, zero overhead if nil
//	})
//
// The core xanthos package has no OpenTelemetry dependency; xanthos/otel
// is its own module with its own go.mod.
//
// # Error Handling
//
// Xanthos uses structured errors (see errors.go) carrying an error code,
// optional context, and a retryable flag:
//
//	if _, err := cache.Get(ctx, key, loader); err != nil {
//	    switch {
//	    case xanthos.IsLoaderError(err):
//	        log.Printf("loader failed: %v (retryable=%v)", err, xanthos.IsRetryable(err))
//	    default:
//	        log.Printf("cache error: %v", err)
//	    }
//	}
//
// # Dynamic Configuration
//
// HotConfig watches a configuration file via Argus and applies the
// subset of parameters that can change without rebuilding the cache
// (currently: MaximumWeight, via Policy.SetMaximum). Capacity-shape
// parameters such as WindowRatio require reconstruction.
//
// # Policy Introspection
//
//	policy := cache.Policy()
//	coldest := policy.Coldest(10) // next candidates for eviction
//	hottest := policy.Hottest(10) // least likely to be evicted
//
// # Thread Safety
//
// Every Cache[K,V] method is safe for concurrent use by multiple
// goroutines. Loader, RemovalListener, and CacheWriter callbacks must
// themselves be safe for concurrent invocation, since the coordinator
// and load-group may call them from different goroutines.
//
// # Packages
//
//   - github.com/agilira/xanthos: core cache implementation
//   - github.com/agilira/xanthos/otel: OpenTelemetry MetricsCollector (separate module)
//
// # License
//
// See LICENSE file in the repository.
package xanthos
