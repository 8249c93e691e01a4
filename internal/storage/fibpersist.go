package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/table"
)

// FIBStore is a SQLite-backed durable mirror of table.FIB, grounded on
// std/security/pib/sqlite-pib.go's sql.Open("sqlite3", path) plus
// Query/Scan shape. The fast path never touches it directly; the control
// plane loads it once at startup and writes through to it on every FIB
// mutation the operator makes via the management API.
type FIBStore struct {
	db *sql.DB
}

const fibSchema = `
CREATE TABLE IF NOT EXISTS fib_routes (
	name_hash INTEGER PRIMARY KEY,
	ifindex   INTEGER NOT NULL
);
`

// OpenFIBStore opens (creating if necessary) a SQLite database at dsn and
// ensures the fib_routes table exists.
func OpenFIBStore(dsn string) (*FIBStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(fibSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &FIBStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *FIBStore) Close() error {
	return s.db.Close()
}

// Upsert writes through a single FIB route. ifindex 0 is a withdrawal,
// matching table.FIB.Upsert's own convention.
func (s *FIBStore) Upsert(nameHash uint64, ifindex uint32) error {
	if ifindex == 0 {
		_, err := s.db.Exec("DELETE FROM fib_routes WHERE name_hash = ?", int64(nameHash))
		return err
	}
	_, err := s.db.Exec(
		"INSERT INTO fib_routes (name_hash, ifindex) VALUES (?, ?) ON CONFLICT(name_hash) DO UPDATE SET ifindex = excluded.ifindex",
		int64(nameHash), int64(ifindex),
	)
	return err
}

// LoadAll replays every persisted route into fib, returning how many rows
// were applied. Called once at startup, before the router accepts traffic.
func (s *FIBStore) LoadAll(fib *table.FIB) (loaded int, err error) {
	rows, err := s.db.Query("SELECT name_hash, ifindex FROM fib_routes")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var nameHash, ifindex int64
		if err := rows.Scan(&nameHash, &ifindex); err != nil {
			continue
		}
		fib.Upsert(uint64(nameHash), uint32(ifindex))
		loaded++
	}
	return loaded, rows.Err()
}

// DefaultFIBStoreDSN returns the sqlite DSN a FIBStore should open under a
// given core.Config, honouring an explicit override and otherwise nesting
// under the config's base directory like DefaultCSStoreDir.
func DefaultFIBStoreDSN(cfg *core.Config) string {
	if cfg.Mgmt.SqliteDSN != "" {
		return cfg.Mgmt.SqliteDSN
	}
	if cfg.Core.BaseDir == "" {
		return "fib.sqlite3"
	}
	return cfg.Core.BaseDir + "/fib.sqlite3"
}
