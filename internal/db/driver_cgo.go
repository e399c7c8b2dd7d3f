//go:build cgo_sqlite

package db

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

// sqliteDriverName selects the database/sql driver for SQLite files.
// Build with CGO_ENABLED=1 -tags cgo_sqlite to use mattn/go-sqlite3.
const sqliteDriverName = "sqlite3"
