// Package runcache memoizes internal/infer.Run results keyed by a hash
// of the builtin table's version string and the submitted term, backed
// by modernc.org/sqlite (pure Go, no cgo). The cache sits outside the
// core: infer.Run itself never touches it, and a miss is never treated
// as an error — only as "run inference and populate".
package runcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS inferences (
	key        TEXT PRIMARY KEY,
	scheme     TEXT NOT NULL,
	elaborated TEXT NOT NULL,
	hits       INTEGER NOT NULL DEFAULT 0
);
`

// Cache wraps a *sql.DB holding one table of memoized results.
type Cache struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite database at path. Use ":memory:"
// for a process-local cache that never touches disk.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runcache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runcache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes a builtin-table version tag together with the term's wire
// encoding, so cache entries automatically invalidate when either the
// signature table or the submitted term changes.
func Key(builtinsVersion string, termJSON []byte) string {
	h := sha256.New()
	h.Write([]byte(builtinsVersion))
	h.Write([]byte{0})
	h.Write(termJSON)
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is a memoized inference result.
type Entry struct {
	Scheme     string
	Elaborated string
}

// Lookup returns the cached entry for key, or ok=false on a miss. On a
// hit it increments the entry's hit counter, which Stats totals.
func (c *Cache) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	var e Entry
	row := c.db.QueryRowContext(ctx, `SELECT scheme, elaborated FROM inferences WHERE key = ?`, key)
	if err := row.Scan(&e.Scheme, &e.Elaborated); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("runcache: lookup: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `UPDATE inferences SET hits = hits + 1 WHERE key = ?`, key); err != nil {
		return Entry{}, false, fmt.Errorf("runcache: recording hit: %w", err)
	}
	return e, true, nil
}

// Store memoizes a freshly computed result under key, overwriting any
// existing entry (a builtin-table edit can legitimately change the
// result for an otherwise-identical term hash only if the version tag
// fed into Key also changed, so overwrite is always safe here).
func (c *Cache) Store(ctx context.Context, key string, e Entry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO inferences (key, scheme, elaborated, hits)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET scheme = excluded.scheme, elaborated = excluded.elaborated
	`, key, e.Scheme, e.Elaborated)
	if err != nil {
		return fmt.Errorf("runcache: store: %w", err)
	}
	return nil
}

// Stats reports the cache's current number of entries and the total of
// their recorded hits. cmd/typeinfer does not call it; its summary line
// counts hits and misses itself.
func (c *Cache) Stats(ctx context.Context) (entries int64, totalHits int64, err error) {
	row := c.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM inferences`)
	if err := row.Scan(&entries, &totalHits); err != nil {
		return 0, 0, fmt.Errorf("runcache: stats: %w", err)
	}
	return entries, totalHits, nil
}
