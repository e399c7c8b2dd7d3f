// Package workspace manages the directory of SQLite database files the tool
// operates on. A Session identifies one database file; it replaces any notion
// of a global "current database" and opens a fresh connection per operation.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"sqlitepad/internal/db"
)

// DefaultDatabase is the database file created when the workspace is empty.
const DefaultDatabase = "database.db"

// ItemsDDL seeds every new database with the default items table.
const ItemsDDL = `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		created TEXT DEFAULT (datetime('now','localtime'))
	)
`

var safeName = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.db$`)

// ValidName reports whether name is an acceptable database file name:
// alphanumerics, underscore and hyphen, ending in .db.
func ValidName(name string) bool {
	return safeName.MatchString(name)
}

// Workspace is a directory holding .db files.
type Workspace struct {
	dir string
}

// New creates a workspace rooted at dir. The directory is created lazily by
// the first Create call.
func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// List returns the database file names in the workspace, sorted. A missing
// workspace directory yields an empty list, not an error.
func (w *Workspace) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Session returns a session for the named database file. The name is
// validated but the file is not required to exist yet.
func (w *Workspace) Session(name string) (*Session, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid database name %q (allowed: a-z, A-Z, 0-9, _, -, ending in .db)", name)
	}
	return &Session{path: filepath.Join(w.dir, name)}, nil
}

// Create makes a new database seeded with the default items table and returns
// its session. Creating an existing database is not an error; the seed DDL is
// idempotent.
func (w *Workspace) Create(ctx context.Context, name string) (*Session, error) {
	sess, err := w.Session(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	client, err := db.NewSQLiteClient(ctx, sess.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	defer func() { _ = client.Close() }()

	if _, err := client.DB().ExecContext(ctx, ItemsDDL); err != nil {
		return nil, fmt.Errorf("failed to seed items table: %w", err)
	}
	return sess, nil
}

// Ensure guarantees the default database exists and returns its session.
func (w *Workspace) Ensure(ctx context.Context) (*Session, error) {
	path := filepath.Join(w.dir, DefaultDatabase)
	if _, err := os.Stat(path); err == nil {
		return &Session{path: path}, nil
	}
	return w.Create(ctx, DefaultDatabase)
}

// Session identifies one database file. Every operation takes a Session and
// opens its own short-lived connection through Open.
type Session struct {
	path string
}

// SessionForPath returns a session for a database file outside the workspace
// directory, e.g. one named on the command line by full path.
func SessionForPath(path string) *Session {
	return &Session{path: path}
}

// Path returns the database file path.
func (s *Session) Path() string {
	return s.path
}

// Open opens a connection to the session's database file. The file must
// already exist; operations that create databases go through Workspace.Create.
func (s *Session) Open(ctx context.Context) (*db.SQLiteClient, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("database %s is not accessible: %w", s.path, err)
	}
	return db.NewSQLiteClient(ctx, s.path)
}
