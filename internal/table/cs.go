package table

import "time"

// CSEntry is the content-store entry from spec.md §3: insertion time, TTL,
// the cached payload, and the bookkeeping fields a control plane needs to
// reconstruct a Data packet (content type, flags) without re-decoding it.
type CSEntry struct {
	InsertionTimeSec int64
	TTLSec           int64
	ContentType      uint64
	Flags            uint32
	Content          []byte
}

// Expired reports whether the entry is no longer valid at now (spec.md §3:
// "valid iff now_sec < insertion_time_sec + ttl_sec").
func (e CSEntry) Expired(nowSec int64) bool {
	return nowSec >= e.InsertionTimeSec+e.TTLSec
}

// ContentStore is the LRU content cache (C4): name-hash → cached Data
// payload with insertion time and TTL, as spec.md §4.4 specifies.
type ContentStore struct {
	lru        *lru[uint64, CSEntry]
	maxContent int
}

// NewContentStore builds a content store with the given entry capacity and
// per-entry maximum payload size (spec.md: "content_len ≤
// CS_MAX_CONTENT_SIZE").
func NewContentStore(capacity, maxContentSize int) *ContentStore {
	return &ContentStore{
		lru:        newLRU[uint64, CSEntry](capacity),
		maxContent: maxContentSize,
	}
}

// Lookup returns the entry for hash if present and not expired as of nowSec.
// An expired entry is treated as a miss, per spec.md §4.4 and invariant I3,
// but the lookup itself still counts as an access for LRU purposes (the
// teacher's comparable stores always treat reads as access too).
func (cs *ContentStore) Lookup(hash uint64, nowSec int64) (CSEntry, bool) {
	e, ok := cs.lru.get(hash)
	if !ok {
		return CSEntry{}, false
	}
	if e.Expired(nowSec) {
		return CSEntry{}, false
	}
	return e, true
}

// Insert stores content under hash with the given TTL, evicting the LRU
// entry if the store is full. Content longer than the configured maximum is
// rejected (ResourceFull-style: spec.md §4.4, "rejects content_bytes.len >
// cs_max_size"); this is a silent no-op, not a DROP (spec.md §4.8.4).
func (cs *ContentStore) Insert(hash uint64, content []byte, contentType uint64, flags uint32, ttlSec, nowSec int64) bool {
	if len(content) > cs.maxContent {
		return false
	}
	cs.lru.put(hash, CSEntry{
		InsertionTimeSec: nowSec,
		TTLSec:           ttlSec,
		ContentType:      contentType,
		Flags:            flags,
		Content:          content,
	})
	return true
}

// Len returns the current number of stored entries (may include expired
// entries not yet evicted by access, per spec.md's lazy-expiry design).
func (cs *ContentStore) Len() int {
	return cs.lru.len()
}

// CSStatusEntry is the read-only view the control plane's inspection API
// (§6 "CS inspection") iterates over: "(name_hash, insertion_time,
// expiry_time, content_size); raw content bytes optional".
type CSStatusEntry struct {
	NameHash      uint64
	InsertionTime int64
	ExpiryTime    int64
	ContentSize   int
	Content       []byte
}

// Inspect returns a snapshot of every entry for the control-plane CS
// listing, most-recently-used first. includeContent controls whether raw
// payload bytes are copied into the snapshot (spec.md: "raw content bytes
// optional").
func (cs *ContentStore) Inspect(includeContent bool) []CSStatusEntry {
	var out []CSStatusEntry
	cs.lru.forEach(func(hash uint64, e CSEntry) {
		se := CSStatusEntry{
			NameHash:      hash,
			InsertionTime: e.InsertionTimeSec,
			ExpiryTime:    e.InsertionTimeSec + e.TTLSec,
			ContentSize:   len(e.Content),
		}
		if includeContent {
			se.Content = e.Content
		}
		out = append(out, se)
	})
	return out
}

// NowSec returns the current wall-clock time in Unix seconds. cmd/fastfwd
// uses it as the reference time when replaying a persisted CS snapshot; the
// pipeline's own expiry checks read the pipeline package's clock instead.
func NowSec() int64 {
	return time.Now().Unix()
}
