// Package store implements the row-level operations of the workbench:
// browsing table contents, deleting rows by primary key, the default items
// table, ad-hoc SQL scripts and CSV export.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"sqlitepad/internal/db"
	"sqlitepad/internal/workspace"
)

// Store runs row-level operations against one workspace session. Each call
// opens and closes its own connection.
type Store struct {
	session *workspace.Session
}

// New creates a store bound to the given session.
func New(session *workspace.Session) *Store {
	return &Store{session: session}
}

// Result holds the columns and stringified rows of one query, plus the number
// of rows changed by non-query statements.
type Result struct {
	Columns  []string
	Rows     [][]string
	Affected int64
}

// Browse returns all rows of a table, optionally filtered by a raw WHERE
// expression. The table name is validated against the catalog before it is
// interpolated into the query.
func (s *Store) Browse(ctx context.Context, table, whereExpr string) (*Result, error) {
	client, err := s.session.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	if err := requireTable(ctx, client, table); err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + quoteIdent(table)
	if strings.TrimSpace(whereExpr) != "" {
		query += " WHERE " + whereExpr
	}
	slog.Debug("browse", "table", table, "filter", whereExpr)
	return queryResult(ctx, client.DB(), query)
}

// DeleteRow removes the row whose primary key equals pkValue and returns the
// number of rows deleted. The primary key column is "id" when the table has
// one, otherwise the table's first declared primary key column.
func (s *Store) DeleteRow(ctx context.Context, table, pkValue string) (int64, error) {
	client, err := s.session.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = client.Close() }()

	if err := requireTable(ctx, client, table); err != nil {
		return 0, err
	}

	sch, err := db.NewSQLiteExtractor(client).ExtractSchema(ctx, []string{table})
	if err != nil {
		return 0, err
	}
	t := sch.Lookup(table)

	pkCol := ""
	for _, c := range t.Columns {
		if c.Name == "id" {
			pkCol = "id"
			break
		}
	}
	if pkCol == "" {
		if pk := t.PrimaryKey(); len(pk) > 0 {
			pkCol = pk[0]
		}
	}
	if pkCol == "" {
		return 0, fmt.Errorf("table %s has no primary key column to delete by", table)
	}

	res, err := client.DB().ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(table), quoteIdent(pkCol)), pkValue)
	if err != nil {
		return 0, fmt.Errorf("failed to delete row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	slog.Debug("deleted row", "table", table, "pk", pkCol, "value", pkValue, "rows", n)
	return n, nil
}

// AddItem inserts a row into the default items table, creating the table if
// the database predates it.
func (s *Store) AddItem(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("item name is required")
	}

	client, err := s.session.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if _, err := client.DB().ExecContext(ctx, workspace.ItemsDDL); err != nil {
		return fmt.Errorf("failed to ensure items table: %w", err)
	}
	if _, err := client.DB().ExecContext(ctx,
		"INSERT INTO items (name, description) VALUES (?, ?)", name, description); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// ListItems returns the items table ordered by creation time, newest first.
func (s *Store) ListItems(ctx context.Context) (*Result, error) {
	client, err := s.session.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	return queryResult(ctx, client.DB(), "SELECT * FROM items ORDER BY created DESC")
}

// ddlMarkers flag scripts that should run as a single block instead of
// statement by statement.
var ddlMarkers = []string{
	"create trigger", "create view", "begin", "end",
	"create table", "drop table", "drop view", "alter table",
}

// RunScript executes an ad-hoc SQL script. Scripts containing DDL and no
// select/pragma statements run as one block. Otherwise statements run in
// order, split on semicolons; the last select/pragma result set is returned
// and affected row counts of the other statements are accumulated.
func (s *Store) RunScript(ctx context.Context, script string) (*Result, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return &Result{}, nil
	}

	client, err := s.session.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	lower := strings.ToLower(script)
	if containsDDL(lower) && !strings.Contains(lower, "select") && !strings.Contains(lower, "pragma") {
		res, err := client.DB().ExecContext(ctx, script)
		if err != nil {
			return nil, fmt.Errorf("sql error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = 0
		}
		return &Result{Affected: n}, nil
	}

	var out *Result
	var affected int64
	for _, stmt := range SplitStatements(script) {
		low := strings.ToLower(stmt)
		if strings.HasPrefix(low, "select") || strings.HasPrefix(low, "pragma") {
			r, err := queryResult(ctx, client.DB(), stmt)
			if err != nil {
				return nil, fmt.Errorf("sql error: %w", err)
			}
			out = r
		} else {
			r, err := client.DB().ExecContext(ctx, stmt)
			if err != nil {
				return nil, fmt.Errorf("sql error: %w", err)
			}
			if n, err := r.RowsAffected(); err == nil {
				affected += n
			}
		}
	}

	if out == nil {
		out = &Result{}
	}
	out.Affected = affected
	return out, nil
}

// SplitStatements splits a script on semicolons and drops empty fragments.
func SplitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func containsDDL(lowerScript string) bool {
	for _, marker := range ddlMarkers {
		if strings.Contains(lowerScript, marker) {
			return true
		}
	}
	return false
}

// requireTable resolves a user-supplied table name against the catalog before
// it may be interpolated into a statement.
func requireTable(ctx context.Context, client *db.SQLiteClient, table string) error {
	names, err := db.NewSQLiteExtractor(client).TableNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	for _, name := range names {
		if name == table {
			return nil
		}
	}
	return fmt.Errorf("no such table: %s", table)
}

// quoteIdent wraps an already-validated identifier in double quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// queryResult runs a query and stringifies every value for display and CSV
// output.
func queryResult(ctx context.Context, dbh *sql.DB, query string, args ...any) (*Result, error) {
	rows, err := dbh.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make([]string, len(cols))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, record)
	}

	return res, rows.Err()
}

// formatValue renders a scanned value as text. NULL becomes the empty string,
// matching the CSV export behavior.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
