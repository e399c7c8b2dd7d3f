package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sqlitepad/internal/schema"
)

// SQLiteExtractor reads schema metadata through SQLite's introspection
// pragmas. Nothing is cached; every call re-queries the catalog.
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts the complete schema for the specified tables.
// If tables is empty, all user tables in the database are extracted.
// Requested names that do not exist in the catalog are an error.
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	catalog, err := e.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	tableNames, err := resolveTables(tables, catalog)
	if err != nil {
		return nil, err
	}

	var extractedTables []schema.Table
	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Tables: extractedTables}, nil
}

// TableNames returns the sorted list of user tables, excluding SQLite's own
// system tables.
func (e *SQLiteExtractor) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// extractTable extracts all information for a single table. The name has
// already been resolved against the catalog.
func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	fks, err := e.extractForeignKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	table.ForeignKeys = fks

	indexes, err := e.extractIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes

	// A single-column unique index marks the column itself as unique.
	for i := range table.Columns {
		if table.Columns[i].PrimaryKey {
			continue
		}
		for _, idx := range indexes {
			if idx.Unique && len(idx.Columns) == 1 && idx.Columns[0] == table.Columns[i].Name {
				table.Columns[i].Unique = true
			}
		}
	}

	return table, nil
}

// extractColumns extracts column information via PRAGMA table_info.
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quotePragmaArg(tableName))

	rows, err := e.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col := schema.Column{
			Name:       name,
			Type:       colType,
			Nullable:   notNull == 0,
			PrimaryKey: pk > 0,
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractForeignKeys extracts foreign-key rows via PRAGMA foreign_key_list,
// one schema.ForeignKey per referencing column.
func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quotePragmaArg(tableName))

	rows, err := e.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk := schema.ForeignKey{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			// "to" is NULL when the reference implicitly targets the
			// other table's primary key.
			TargetColumn: toCol.String,
			OnDelete:     onDelete,
			OnUpdate:     onUpdate,
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}

// extractIndexes extracts index information via PRAGMA index_list.
func (e *SQLiteExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quotePragmaArg(tableName))

	rows, err := e.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type indexRow struct {
		name   string
		unique bool
	}
	var indexRows []indexRow

	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}

		// Skip auto-generated primary key indexes
		if strings.HasPrefix(name, "sqlite_autoindex") {
			continue
		}

		indexRows = append(indexRows, indexRow{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for _, ir := range indexRows {
		columns, err := e.indexColumns(ctx, ir.name)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}
		indexes = append(indexes, schema.Index{
			Name:    ir.name,
			Columns: columns,
			Unique:  ir.unique,
		})
	}

	return indexes, nil
}

// indexColumns returns the column names of one index via PRAGMA index_info.
func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", quotePragmaArg(indexName))

	rows, err := e.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}

	return columns, rows.Err()
}

// quotePragmaArg wraps an identifier for use inside a pragma call. Names have
// been resolved against the catalog by the time they get here; the quoting
// only guards against names that themselves contain quotes.
func quotePragmaArg(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
