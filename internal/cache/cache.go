// Package cache is a local, SQLite-backed record of previously-seen
// file state, so repeated runs against the same root can tell whether
// a file's content changed since it was last recorded. Answering that
// needs the current checksum, so callers still read and hash the file;
// the cache does not let them skip either step. Grounded on the pack's
// hatlesswizard-inputtracer, which uses SQLite the same way: a single
// table keyed by path, storing the last-seen mtime/size/checksum.
package cache

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/support"
)

const schema = `
CREATE TABLE IF NOT EXISTS file_state (
	path TEXT PRIMARY KEY,
	mtime_unix INTEGER NOT NULL,
	size INTEGER NOT NULL,
	checksum TEXT NOT NULL
);
`

// Cache wraps a *sql.DB open against a SQLite file.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.Io, "opening cache database", err).At(path, 0)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.Io, "initializing cache schema", err).At(path, 0)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Unchanged reports whether a file with the given path, mtime, and
// size was already recorded with the same checksum. A cache miss
// (unseen path, or any field differing) reports false.
func (c *Cache) Unchanged(path string, mtimeUnix int64, size int64, checksum string) (bool, error) {
	var storedChecksum string
	var storedMtime, storedSize int64
	row := c.db.QueryRow(`SELECT mtime_unix, size, checksum FROM file_state WHERE path = ?`, path)
	switch err := row.Scan(&storedMtime, &storedSize, &storedChecksum); err {
	case sql.ErrNoRows:
		return false, nil
	case nil:
		return storedMtime == mtimeUnix && storedSize == size && storedChecksum == checksum, nil
	default:
		return false, errors.Wrap(errors.Io, "querying cache", err).At(path, 0)
	}
}

// Record upserts the current (mtime, size, checksum) for path.
func (c *Cache) Record(path string, mtimeUnix int64, size int64, checksum string) error {
	_, err := c.db.Exec(
		`INSERT INTO file_state (path, mtime_unix, size, checksum) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mtime_unix = excluded.mtime_unix, size = excluded.size, checksum = excluded.checksum`,
		path, mtimeUnix, size, checksum,
	)
	if err != nil {
		return errors.Wrap(errors.Io, "recording cache entry", err).At(path, 0)
	}
	return nil
}

// ChecksumMatches is a convenience wrapper combining support.SHA256Checksum
// with Unchanged, for callers that already have the file content in memory.
func (c *Cache) ChecksumMatches(path string, mtimeUnix int64, size int64, content []byte) (bool, string, error) {
	checksum := support.SHA256Checksum(content)
	unchanged, err := c.Unchanged(path, mtimeUnix, size, checksum)
	return unchanged, checksum, err
}
