// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cache stores compiled shader objects keyed by a content hash of
// everything that influenced the compilation.
//
// Entries live in a single SQLite database. Object data is xz-compressed at
// rest and keys are BLAKE3 digests. Each entry may record the include files
// the compilation read, so callers can detect entries made stale by edits
// to those files.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the cache directory.
const FileName = "dxc-cache.db"

// ErrMiss is returned by Get when no entry exists for a key.
var ErrMiss = errors.New("cache: miss")

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	size       INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS dependencies (
	key  TEXT NOT NULL,
	name TEXT NOT NULL,
	hash TEXT NOT NULL,
	PRIMARY KEY (key, name)
);
`

// Key identifies an entry.
type Key [32]byte

// String returns the key in hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// NewKey hashes parts into a key. Each part is length-delimited, so
// ("ab", "c") and ("a", "bc") differ.
func NewKey(parts ...string) Key {
	h := blake3.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	var k Key
	h.Sum(k[:0])
	return k
}

// Hash returns the hex BLAKE3 digest of data, used for dependency hashes.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Dependency is a file read while producing an entry.
type Dependency struct {
	Name string
	Hash string
}

// Entry is a cached compilation output.
type Entry struct {
	Data []byte
	Deps []Dependency
}

// Cache is an open cache database. It is safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache inside dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: failed to create directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: failed to initialize %s: %w", path, err)
	}
	return &Cache{db: db, path: path}, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the entry stored under key, or ErrMiss.
func (c *Cache) Get(key Key) (*Entry, error) {
	var packed []byte
	err := c.db.QueryRow(`SELECT data FROM entries WHERE key = ?`, key.String()).Scan(&packed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: failed to read entry: %w", err)
	}

	data, err := decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("cache: corrupt entry %s: %w", key, err)
	}

	rows, err := c.db.Query(`SELECT name, hash FROM dependencies WHERE key = ? ORDER BY name`, key.String())
	if err != nil {
		return nil, fmt.Errorf("cache: failed to read dependencies: %w", err)
	}
	defer rows.Close()

	e := &Entry{Data: data}
	for rows.Next() {
		var d Dependency
		if err := rows.Scan(&d.Name, &d.Hash); err != nil {
			return nil, fmt.Errorf("cache: failed to read dependencies: %w", err)
		}
		e.Deps = append(e.Deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to read dependencies: %w", err)
	}
	return e, nil
}

// Put stores e under key, replacing any previous entry.
func (c *Cache) Put(key Key, e *Entry) error {
	packed, err := compress(e.Data)
	if err != nil {
		return fmt.Errorf("cache: failed to compress entry: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	k := key.String()
	if _, err := tx.Exec(`DELETE FROM dependencies WHERE key = ?`, k); err != nil {
		return fmt.Errorf("cache: failed to write entry: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO entries (key, data, size, created_at) VALUES (?, ?, ?, ?)`,
		k, packed, len(e.Data), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("cache: failed to write entry: %w", err)
	}
	for _, d := range e.Deps {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO dependencies (key, name, hash) VALUES (?, ?, ?)`,
			k, d.Name, d.Hash,
		); err != nil {
			return fmt.Errorf("cache: failed to write dependency %s: %w", d.Name, err)
		}
	}
	return tx.Commit()
}

// Delete removes the entry stored under key. Deleting a missing entry is
// not an error.
func (c *Cache) Delete(key Key) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	k := key.String()
	if _, err := tx.Exec(`DELETE FROM dependencies WHERE key = ?`, k); err != nil {
		return fmt.Errorf("cache: failed to delete entry: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE key = ?`, k); err != nil {
		return fmt.Errorf("cache: failed to delete entry: %w", err)
	}
	return tx.Commit()
}

// Len returns the number of entries.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: failed to count entries: %w", err)
	}
	return n, nil
}

// Purge removes every entry and returns how many were removed.
func (c *Cache) Purge() (int, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("cache: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM dependencies`); err != nil {
		return 0, fmt.Errorf("cache: failed to purge: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("cache: failed to purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), tx.Commit()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(packed []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
