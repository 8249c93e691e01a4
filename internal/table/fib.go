package table

import "sync"

// FIB is the forwarding information base (C7): a plain hash map of
// name-hash → egress ifindex, written by the control plane and read by the
// pipeline. Unlike CS/PIT/nonce it is not LRU — entries persist until the
// control plane rewrites them (spec.md §3, §4.7).
type FIB struct {
	mu      sync.RWMutex
	entries map[uint64]uint32
}

// NewFIB builds an empty FIB.
func NewFIB() *FIB {
	return &FIB{entries: make(map[uint64]uint32)}
}

// Lookup returns the egress ifindex for hash, if any entry exists. Callers
// must still apply the loopback guard (spec.md §4.7): an ifindex of 0 or
// equal to the ingress ifindex must be ignored. Lookup itself does not
// apply that guard so callers can distinguish "no route" from "routed back
// where it came from" for diagnostics.
func (f *FIB) Lookup(hash uint64) (uint32, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ifindex, ok := f.entries[hash]
	return ifindex, ok
}

// Usable applies spec.md §4.7's loopback guard: an entry is honoured only
// if its ifindex is nonzero and differs from the ingress ifindex.
func Usable(ifindex, ingressIfindex uint32) bool {
	return ifindex != 0 && ifindex != ingressIfindex
}

// Upsert installs or updates a route. Per spec.md §6 ("FIB write —
// (name_hash, egress_ifindex) upsert; egress_ifindex = 0 deletes"), writing
// ifindex 0 removes the entry instead of storing a useless route.
func (f *FIB) Upsert(hash uint64, ifindex uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ifindex == 0 {
		delete(f.entries, hash)
		return
	}
	f.entries[hash] = ifindex
}

// Len returns the number of installed routes.
func (f *FIB) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// FIBStatusEntry is the read-only view for control-plane FIB listing.
type FIBStatusEntry struct {
	NameHash uint64
	Ifindex  uint32
}

// Inspect returns a snapshot of every installed route.
func (f *FIB) Inspect() []FIBStatusEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]FIBStatusEntry, 0, len(f.entries))
	for h, i := range f.entries {
		out = append(out, FIBStatusEntry{NameHash: h, Ifindex: i})
	}
	return out
}
