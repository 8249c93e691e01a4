// Package metrics implements component C3: a per-CPU counter array and a
// bounded event ring, as spec.md §4.3 and §5 describe. Counter updates are
// lock-free atomic adds; the event ring is a single-producer/multi-consumer
// bounded structure that drops silently when full (spec.md §7,
// "EventRingFull: silent").
package metrics

import (
	"runtime"
	"sync/atomic"
)

// Metric identifies one of the fixed counters spec.md §4.3 names.
type Metric int

const (
	InterestsRecv Metric = iota
	DataRecv
	NacksRecv
	CacheHits
	CacheMisses
	CacheInserts
	Redirects
	Drops
	Errors

	metricMax
)

func (m Metric) String() string {
	switch m {
	case InterestsRecv:
		return "interests_recv"
	case DataRecv:
		return "data_recv"
	case NacksRecv:
		return "nacks_recv"
	case CacheHits:
		return "cache_hits"
	case CacheMisses:
		return "cache_misses"
	case CacheInserts:
		return "cache_inserts"
	case Redirects:
		return "redirects"
	case Drops:
		return "drops"
	case Errors:
		return "errors"
	default:
		return "unknown"
	}
}

// Counters is a per-CPU array of monotonic counters. Each logical counter
// has one slot per CPU to avoid cache-line contention between worker
// threads (spec.md §4.3, "Each counter is logically per-CPU; aggregation is
// the reader's responsibility").
type Counters struct {
	// slots[metric*ncpu+cpu], padded to a cache line each to avoid false
	// sharing between worker threads pinned to different CPUs.
	slots []paddedCounter
	ncpu  int
}

type paddedCounter struct {
	v   atomic.Uint64
	_   [7]uint64 // pad to 64 bytes alongside the 8-byte atomic
}

// NewCounters allocates a counter array sized for runtime.NumCPU() CPUs.
func NewCounters() *Counters {
	return NewCountersForCPUs(runtime.NumCPU())
}

// NewCountersForCPUs allocates a counter array for an explicit CPU count,
// used by tests that want a deterministic, small array.
func NewCountersForCPUs(ncpu int) *Counters {
	if ncpu < 1 {
		ncpu = 1
	}
	return &Counters{
		slots: make([]paddedCounter, int(metricMax)*ncpu),
		ncpu:  ncpu,
	}
}

func (c *Counters) index(m Metric, cpu int) int {
	return int(m)*c.ncpu + (cpu % c.ncpu)
}

// Incr bumps metric m on the calling CPU's slot by one. Lock-free.
func (c *Counters) Incr(m Metric, cpu int) {
	c.slots[c.index(m, cpu)].v.Add(1)
}

// Snapshot sums every CPU's slot for each metric into a map, the
// aggregation spec.md §4.3 assigns to the reader (the control plane).
func (c *Counters) Snapshot() map[Metric]uint64 {
	out := make(map[Metric]uint64, int(metricMax))
	for m := Metric(0); m < metricMax; m++ {
		var total uint64
		for cpu := 0; cpu < c.ncpu; cpu++ {
			total += c.slots[c.index(m, cpu)].v.Load()
		}
		out[m] = total
	}
	return out
}

// HitRatio computes hits / (hits + misses) from a snapshot, as spec.md §7's
// control-plane logging describes ("hit ratio hits / (hits + misses)").
// Returns 0 when there have been no lookups at all.
func HitRatio(snap map[Metric]uint64) float64 {
	hits, misses := snap[CacheHits], snap[CacheMisses]
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
