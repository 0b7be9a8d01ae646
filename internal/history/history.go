// Package history persists REPL input lines in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// SchemaVersion of the history database.
const SchemaVersion = "1"

// Store is a SQLite-backed history of REPL lines.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Entry is one stored line.
type Entry struct {
	ID     int64
	Line   string
	Failed bool
	At     time.Time
}

// Open creates (or reuses) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	// one connection: the REPL is the only writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line TEXT NOT NULL,
			failed INTEGER NOT NULL DEFAULT 0,
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS lines_line ON lines(line);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	s := &Store{db: db}
	version, err := s.metadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if _, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('schema_version', ?)`, SchemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %w", err)
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("history: unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}
	return s, nil
}

func (s *Store) metadata(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	return v, nil
}

// Add appends a line. Blank lines and immediate repeats are skipped.
func (s *Store) Add(line string, failed bool) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var last string
	err := s.db.QueryRow(`SELECT line FROM lines ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("history: %w", err)
	}
	if last == line {
		return nil
	}
	_, err = s.db.Exec(`INSERT INTO lines(line, failed, at) VALUES (?, ?, ?)`, line, failed, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, oldest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`
		SELECT id, line, failed, at FROM (
			SELECT id, line, failed, at FROM lines ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()
	return scan(rows)
}

// Search returns entries containing needle, newest first.
func (s *Store) Search(needle string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pattern := "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(needle) + "%"
	rows, err := s.db.Query(`
		SELECT id, line, failed, at FROM lines
		WHERE line LIKE ? ESCAPE '\'
		ORDER BY id DESC LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()
	return scan(rows)
}

func scan(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Line, &e.Failed, &at); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		e.At = time.Unix(0, at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return out, nil
}

// Clear deletes every stored line.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM lines`); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lines flattens entries to their text, in order.
func Lines(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Line
	}
	return out
}
