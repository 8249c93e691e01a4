// Package storage holds optional durable backing stores for the forwarding
// tables: a write-behind content store snapshot (Badger) and a restart-
// surviving FIB (SQLite). Neither is on the per-packet fast path — both are
// populated and drained by the control plane, grounded on
// std/object/storage/store_badger.go and std/security/pib/sqlite-pib.go.
package storage

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/table"
)

// CSStore is a Badger-backed write-behind mirror of the in-memory content
// store, used only to survive process restarts: on startup the router can
// call LoadAll to repopulate table.ContentStore before accepting traffic.
// cmd/fastfwd writes it only through SnapshotAll at shutdown; Put and Delete
// are available for per-entry updates. It is never touched from the
// packet-processing goroutines themselves.
type CSStore struct {
	db *badger.DB
}

// OpenCSStore opens (or creates) a Badger database at dir for content-store
// persistence, mirroring NewBadgerStore's badger.Open(badger.DefaultOptions(path)) shape.
func OpenCSStore(dir string) (*CSStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, err
	}
	return &CSStore{db: db}, nil
}

// Close closes the underlying Badger handle.
func (s *CSStore) Close() error {
	return s.db.Close()
}

// encodeCSRecord is the on-disk encoding of one table.CSEntry, keyed by name hash.
func encodeCSRecord(e table.CSEntry) []byte {
	buf := make([]byte, 8+8+8+4+len(e.Content))
	binary.BigEndian.PutUint64(buf[0:8], uint64(e.InsertionTimeSec))
	binary.BigEndian.PutUint64(buf[8:16], uint64(e.TTLSec))
	binary.BigEndian.PutUint64(buf[16:24], e.ContentType)
	binary.BigEndian.PutUint32(buf[24:28], e.Flags)
	copy(buf[28:], e.Content)
	return buf
}

func decodeCSRecord(buf []byte) (table.CSEntry, error) {
	if len(buf) < 28 {
		return table.CSEntry{}, errors.New("storage: truncated CS record")
	}
	content := make([]byte, len(buf)-28)
	copy(content, buf[28:])
	return table.CSEntry{
		InsertionTimeSec: int64(binary.BigEndian.Uint64(buf[0:8])),
		TTLSec:           int64(binary.BigEndian.Uint64(buf[8:16])),
		ContentType:      binary.BigEndian.Uint64(buf[16:24]),
		Flags:            binary.BigEndian.Uint32(buf[24:28]),
		Content:          content,
	}, nil
}

func csKey(nameHash uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, nameHash)
	return key
}

// Put persists one content-store entry under its name hash, overwriting any
// earlier snapshot for the same hash.
func (s *CSStore) Put(nameHash uint64, entry table.CSEntry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(csKey(nameHash), encodeCSRecord(entry))
	})
}

// Delete removes the persisted snapshot for nameHash, if any.
func (s *CSStore) Delete(nameHash uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(csKey(nameHash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// LoadAll replays every persisted, still-unexpired entry into cs, dropping
// any whose TTL has already elapsed by nowSec — a persisted entry must never
// resurrect as live content past its own expiry (spec.md's CS invariant I3
// applies equally to entries loaded from disk).
func (s *CSStore) LoadAll(cs *table.ContentStore, nowSec int64) (loaded int, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var nameHash uint64
			key := item.KeyCopy(nil)
			if len(key) != 8 {
				continue
			}
			nameHash = binary.BigEndian.Uint64(key)

			val, err := item.ValueCopy(nil)
			if err != nil {
				continue
			}
			rec, err := decodeCSRecord(val)
			if err != nil {
				continue
			}
			if rec.Expired(nowSec) {
				continue
			}
			if cs.Insert(nameHash, rec.Content, rec.ContentType, rec.Flags, rec.TTLSec, rec.InsertionTimeSec) {
				loaded++
			}
		}
		return nil
	})
	return loaded, err
}

// DrainCallback is the signature of a per-entry visitor over CS entries.
// Nothing in this package invokes it; SnapshotAll writes entries directly.
type DrainCallback func(nameHash uint64, entry table.CSEntry)

// SnapshotAll writes every entry cs currently holds (expired ones included;
// LoadAll drops those on reload) into the store, overwriting the stored
// record for the same name hash. Records for hashes no longer in cs are left
// in place. Content type and flags are written as zero, since cs.Inspect
// does not report them. Intended to run on a timer or at shutdown, never on
// the packet path.
func SnapshotAll(s *CSStore, cs *table.ContentStore) error {
	for _, e := range cs.Inspect(true) {
		entry := table.CSEntry{
			InsertionTimeSec: e.InsertionTime,
			TTLSec:           e.ExpiryTime - e.InsertionTime,
			ContentType:      0,
			Content:          e.Content,
		}
		if err := s.Put(e.NameHash, entry); err != nil {
			return err
		}
	}
	return nil
}

// DefaultCSStoreDir returns the directory a CSStore should open under a
// given core.Config's base directory, matching the teacher's convention of
// nesting persistent stores under one base-dir (see fw/cmd/cmd.go).
func DefaultCSStoreDir(cfg *core.Config) string {
	if cfg.Core.BaseDir == "" {
		return "cs-snapshot"
	}
	return cfg.Core.BaseDir + "/cs-snapshot"
}
