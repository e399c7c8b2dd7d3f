package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteClient manages the connection to a SQLite database file.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens a SQLite database file and enables foreign-key
// enforcement on the connection.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database handle
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}
