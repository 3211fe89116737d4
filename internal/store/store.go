// Package store is the local persistent reference cache: a SQLite
// database of citing papers and their reference lists, keyed by DOI where
// one is known and by (authors, year) or title otherwise. It backs
// duplicate checks during batch adds, DOI back-fill updates, and
// forward-citation queries.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the reference-cache database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path and ensures
// the schema exists. The parent directory is created when missing.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			doi TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'unknown',
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			citing_doi TEXT NOT NULL,
			ref_label TEXT,
			title TEXT,
			authors TEXT,
			year TEXT,
			publication TEXT,
			doi TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			series TEXT,
			status TEXT NOT NULL DEFAULT 'unknown'
		);

		CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi);
		CREATE INDEX IF NOT EXISTS idx_refs_citing ON refs(citing_doi);
		CREATE INDEX IF NOT EXISTS idx_refs_title ON refs(title);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// nullable maps "" to NULL so optional fields stay queryable as absent.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// stringOrEmpty maps a NULL column back to "".
func stringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
