package table

import "time"

// NonceCache is the coarse duplicate-suppression table (C6): LRU map of
// nonce → last-seen timestamp, used within a sliding 1-second window
// (spec.md §3, §4.6).
type NonceCache struct {
	lru    *lru[uint32, int64]
	window time.Duration
}

// NewNonceCache builds a nonce cache with the given entry capacity and
// duplicate-suppression window (spec.md default: 1 second).
func NewNonceCache(capacity int, window time.Duration) *NonceCache {
	return &NonceCache{lru: newLRU[uint32, int64](capacity), window: window}
}

// SeenRecentlyAndRefresh reports whether nonce was already seen within the
// configured window as of nowNS. Regardless of the outcome, nowNS is
// written back as the nonce's last-seen time, refreshing its LRU position
// (spec.md §4.6: "After the check, now_ns is written back (LRU refresh)").
func (n *NonceCache) SeenRecentlyAndRefresh(nonce uint32, nowNS int64) bool {
	last, ok := n.lru.peek(nonce)
	duplicate := ok && nowNS-last < int64(n.window)
	n.lru.put(nonce, nowNS)
	return duplicate
}

// Len returns the current number of tracked nonces.
func (n *NonceCache) Len() int {
	return n.lru.len()
}
