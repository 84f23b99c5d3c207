// Package store provides the SQLite-backed deck persistence engine.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS decks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT,
	card_count  INTEGER NOT NULL DEFAULT 0,
	category_id INTEGER REFERENCES categories(id),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	deck_id INTEGER NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
	front   TEXT NOT NULL,
	back    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deck_progress (
	deck_id  INTEGER NOT NULL UNIQUE REFERENCES decks(id) ON DELETE CASCADE,
	progress INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id, id);
CREATE INDEX IF NOT EXISTS idx_decks_created ON decks(created_at);
`

// Write transactions take the SQLite write lock at BEGIN so that a
// read-then-write inside one transaction cannot interleave with another writer.
const driverParams = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"

// DB wraps the shared connection pool with deck operations.
type DB struct {
	conn *sql.DB
	log  *slog.Logger
}

// ParseURL converts a connection string into a go-sqlite3 DSN.
// Accepted forms are sqlite://path, sqlite:path, file:path and a bare path.
// In-memory databases are opened with a shared cache so that every pooled
// connection sees the same schema and rows. All opens of the unnamed
// :memory: form in one process share a single database.
func ParseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("store: empty database url")
	}

	var path string
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		path = strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "sqlite:"):
		path = strings.TrimPrefix(raw, "sqlite:")
	case strings.HasPrefix(raw, "file:"):
		path = raw
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", fmt.Errorf("store: unsupported database scheme %q", scheme)
	default:
		path = raw
	}
	if path == "" || strings.HasPrefix(path, "?") {
		return "", fmt.Errorf("store: database url %q has no path", raw)
	}
	path = sharedMemory(path)

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + driverParams, nil
}

// sharedMemory rewrites an in-memory path to a shared-cache URI. Other
// paths are returned unchanged.
func sharedMemory(path string) string {
	name, query, _ := strings.Cut(path, "?")
	switch {
	case name == ":memory:" || name == "file::memory:":
		name = "file::memory:"
	case strings.HasPrefix(name, "file:") && strings.Contains(query, "mode=memory"):
	default:
		return path
	}
	if strings.Contains(query, "cache=shared") {
		return name + "?" + query
	}
	if query == "" {
		return name + "?cache=shared"
	}
	return name + "?" + query + "&cache=shared"
}

// Open opens (or creates) the database named by url and applies the schema.
func Open(url string, logger *slog.Logger) (*DB, error) {
	dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn, log: logger}, nil
}

// SetMaxOpenConns caps the pool size. Values below 1 leave the pool unbounded.
func (db *DB) SetMaxOpenConns(n int) {
	if n > 0 {
		db.conn.SetMaxOpenConns(n)
	}
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
