//go:build !cgo_sqlite

package db

import (
	_ "modernc.org/sqlite" // pure Go SQLite driver, default build
)

// sqliteDriverName selects the database/sql driver for SQLite files.
// The default build uses modernc.org/sqlite and needs no CGO.
const sqliteDriverName = "sqlite"
