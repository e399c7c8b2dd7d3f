//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"sqlitepad/internal/schema"
	"sqlitepad/internal/workspace"
)

// newSession creates a fresh workspace in a temp dir and a seeded database.
func newSession(t *testing.T, name string) *workspace.Session {
	t.Helper()

	ws := workspace.New(t.TempDir())
	sess, err := ws.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	return sess
}

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("expected %d tables, got %d (%v)", len(expectedTables), len(s.Tables), s.TableNames())
	}

	tableMap := make(map[string]bool)
	for _, table := range s.Tables {
		tableMap[table.Name] = true
	}

	for _, tableName := range expectedTables {
		if !tableMap[tableName] {
			t.Errorf("expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	pk := table.PrimaryKey()
	if len(pk) != len(expectedPK) {
		t.Errorf("expected primary key %v, got %v", expectedPK, pk)
		return
	}
	for i := range pk {
		if pk[i] != expectedPK[i] {
			t.Errorf("expected primary key %v, got %v", expectedPK, pk)
			return
		}
	}
}
