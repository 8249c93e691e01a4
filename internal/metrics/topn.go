package metrics

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// item and minHeap are a minimum-priority heap adapted from
// std/types/priority_queue's generic container/heap wrapper, re-specialised
// here for picking the top N events by an arbitrary orderable key (packet
// size, processing time) instead of a generic priority queue used for
// scheduling.
type item[V any, P constraints.Ordered] struct {
	value    V
	priority P
}

type minHeap[V any, P constraints.Ordered] []item[V, P]

func (h minHeap[V, P]) Len() int            { return len(h) }
func (h minHeap[V, P]) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h minHeap[V, P]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap[V, P]) Push(x any)         { *h = append(*h, x.(item[V, P])) }
func (h *minHeap[V, P]) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// TopNEvents returns the n events from events with the largest key(ev),
// ordered from largest to smallest. It keeps only a size-n min-heap while
// scanning, so it costs O(len(events) log n) rather than a full sort —
// useful for the management API's "biggest packets" / "slowest to process"
// views over a potentially large Poll() batch.
func TopNEvents(events []Event, n int, key func(Event) int64) []Event {
	if n <= 0 || len(events) == 0 {
		return nil
	}

	h := &minHeap[Event, int64]{}
	heap.Init(h)

	for _, ev := range events {
		k := key(ev)
		if h.Len() < n {
			heap.Push(h, item[Event, int64]{value: ev, priority: k})
			continue
		}
		if k > (*h)[0].priority {
			heap.Pop(h)
			heap.Push(h, item[Event, int64]{value: ev, priority: k})
		}
	}

	out := make([]Event, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(item[Event, int64]).value
	}
	return out
}
