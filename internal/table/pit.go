package table

import "time"

// PITEntry is the pending-interest entry from spec.md §3: arrival time,
// lifetime, ingress face, nonce, and hop count.
type PITEntry struct {
	ArrivalTimeNS   int64
	LifetimeMS      int64
	IngressIfindex  uint32
	Nonce           uint32
	HopCount        int
}

// Live reports whether the entry is still within its lifetime at nowNS
// (spec.md §3: "live iff now_ns < arrival_time_ns + lifetime_ms*1e6").
func (e PITEntry) Live(nowNS int64) bool {
	return nowNS < e.ArrivalTimeNS+e.LifetimeMS*int64(time.Millisecond)
}

// PIT is the pending interest table (C5): LRU map of name-hash → pending
// entry, as spec.md §4.5 specifies.
type PIT struct {
	lru *lru[uint64, PITEntry]
}

// NewPIT builds a PIT with the given entry capacity.
func NewPIT(capacity int) *PIT {
	return &PIT{lru: newLRU[uint64, PITEntry](capacity)}
}

// InsertOrRefresh inserts a new pending entry or refreshes an existing one
// for hash, LRU-evicting if the table is full (spec.md §4.5).
func (p *PIT) InsertOrRefresh(hash uint64, entry PITEntry) {
	p.lru.put(hash, entry)
}

// Take resolves and deletes the pending entry for hash, as Data handling
// requires (spec.md §4.5, invariant I4: "After handle_data resolves a PIT
// entry, that entry no longer exists"). A stale entry (lifetime expired) is
// treated as absent and is still deleted, matching spec.md's "take must
// treat a stale entry as absent and delete it".
func (p *PIT) Take(hash uint64, nowNS int64) (PITEntry, bool) {
	e, ok := p.lru.take(hash)
	if !ok {
		return PITEntry{}, false
	}
	if !e.Live(nowNS) {
		return PITEntry{}, false
	}
	return e, true
}

// Len returns the current number of pending entries.
func (p *PIT) Len() int {
	return p.lru.len()
}

// PITStatusEntry is the read-only view used by control-plane inspection.
type PITStatusEntry struct {
	NameHash       uint64
	IngressIfindex uint32
	Nonce          uint32
	ExpirationTime int64
}

// Inspect returns a snapshot of every pending entry, most-recent first.
func (p *PIT) Inspect() []PITStatusEntry {
	var out []PITStatusEntry
	p.lru.forEach(func(hash uint64, e PITEntry) {
		out = append(out, PITStatusEntry{
			NameHash:       hash,
			IngressIfindex: e.IngressIfindex,
			Nonce:          e.Nonce,
			ExpirationTime: e.ArrivalTimeNS + e.LifetimeMS*int64(time.Millisecond),
		})
	})
	return out
}
