//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"sqlitepad"
	"sqlitepad/internal/diagram"
	"sqlitepad/internal/store"
	"sqlitepad/internal/workspace"
)

// shopDDL is the teaching example schema: a customer table and an order
// table referencing it.
const shopDDL = `
CREATE TABLE kunden (
  kunden_id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);
CREATE TABLE bestellungen (
  bestellung_id INTEGER PRIMARY KEY AUTOINCREMENT,
  kunden_id INTEGER NOT NULL,
  FOREIGN KEY (kunden_id) REFERENCES kunden(kunden_id)
);`

func TestWorkspaceCreateAndList(t *testing.T) {
	ctx := context.Background()
	ws := workspace.New(t.TempDir())

	if _, err := ws.Create(ctx, "first.db"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := ws.Create(ctx, "second.db"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := ws.Create(ctx, "bad name.db"); err == nil {
		t.Error("expected error for invalid database name")
	}

	names, err := ws.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 || names[0] != "first.db" || names[1] != "second.db" {
		t.Errorf("List() = %v", names)
	}
}

func TestCreateSeedsItemsTable(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t, "seeded.db")

	s, err := sqlitepad.ExtractSchema(ctx, "sqlite://"+sess.Path(), nil)
	if err != nil {
		t.Fatalf("ExtractSchema() error: %v", err)
	}

	verifyTablesExist(t, s, []string{"items"})
	items := s.Lookup("items")
	verifyColumns(t, items, []string{"id", "name", "description", "created"})
	verifyPrimaryKey(t, items, []string{"id"})
}

func TestItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.New(newSession(t, "items.db"))

	if err := st.AddItem(ctx, "first", "a description"); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := st.AddItem(ctx, "second", ""); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := st.AddItem(ctx, "   ", "blank name"); err == nil {
		t.Error("expected error for blank item name")
	}

	res, err := st.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Rows))
	}
	if res.Columns[0] != "id" || res.Columns[1] != "name" {
		t.Errorf("unexpected columns: %v", res.Columns)
	}
}

func TestBrowseWithFilterAndDelete(t *testing.T) {
	ctx := context.Background()
	st := store.New(newSession(t, "browse.db"))

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := st.AddItem(ctx, name, ""); err != nil {
			t.Fatalf("AddItem() error: %v", err)
		}
	}

	res, err := st.Browse(ctx, "items", "name LIKE 'b%'")
	if err != nil {
		t.Fatalf("Browse() error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 filtered row, got %d", len(res.Rows))
	}

	if _, err := st.Browse(ctx, "no_such_table", ""); err == nil {
		t.Error("expected error for unknown table")
	}
	if _, err := st.Browse(ctx, "items; DROP TABLE items", ""); err == nil {
		t.Error("expected error for malicious table name")
	}

	n, err := st.DeleteRow(ctx, "items", "1")
	if err != nil {
		t.Fatalf("DeleteRow() error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}

	res, err = st.Browse(ctx, "items", "")
	if err != nil {
		t.Fatalf("Browse() error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 remaining rows, got %d", len(res.Rows))
	}
}

func TestRunScriptDDLAndQueries(t *testing.T) {
	ctx := context.Background()
	st := store.New(newSession(t, "script.db"))

	// Pure DDL runs as one block.
	if _, err := st.RunScript(ctx, shopDDL); err != nil {
		t.Fatalf("RunScript(DDL) error: %v", err)
	}

	// DML accumulates affected rows.
	res, err := st.RunScript(ctx, `
		INSERT INTO kunden (name) VALUES ('Alice'), ('Bob');
		INSERT INTO bestellungen (kunden_id) VALUES (1), (1), (2);
	`)
	if err != nil {
		t.Fatalf("RunScript(DML) error: %v", err)
	}
	if res.Affected != 5 {
		t.Errorf("expected 5 affected rows, got %d", res.Affected)
	}

	// The last select wins.
	res, err = st.RunScript(ctx, "SELECT name FROM kunden ORDER BY name; SELECT COUNT(*) AS n FROM bestellungen;")
	if err != nil {
		t.Fatalf("RunScript(select) error: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "n" {
		t.Errorf("unexpected columns: %v", res.Columns)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != "3" {
		t.Errorf("unexpected rows: %v", res.Rows)
	}

	// Malformed SQL surfaces as an error.
	if _, err := st.RunScript(ctx, "SELEKT broken"); err == nil {
		t.Error("expected error for malformed SQL")
	}
}

func TestForeignKeyExtractionAndDiagram(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t, "shop.db")
	st := store.New(sess)

	if _, err := st.RunScript(ctx, shopDDL); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}

	// Leave only the example tables in the diagram.
	s, err := sqlitepad.ExtractSchema(ctx, "sqlite://"+sess.Path(), &sqlitepad.Options{
		ExcludeTables: []string{"items"},
	})
	if err != nil {
		t.Fatalf("ExtractSchema() error: %v", err)
	}

	verifyTablesExist(t, s, []string{"bestellungen", "kunden"})
	bestellungen := s.Lookup("bestellungen")
	if len(bestellungen.ForeignKeys) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(bestellungen.ForeignKeys))
	}
	fk := bestellungen.ForeignKeys[0]
	if fk.SourceColumn != "kunden_id" || fk.TargetTable != "kunden" || fk.TargetColumn != "kunden_id" {
		t.Errorf("unexpected foreign key: %+v", fk)
	}

	d := diagram.Build(s, diagram.DefaultGeometry())
	if len(d.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(d.Boxes))
	}
	if len(d.Edges) != 1 {
		t.Fatalf("expected exactly 1 edge, got %d", len(d.Edges))
	}
	if d.Edges[0].Label != "kunden_id → kunden_id" {
		t.Errorf("edge label = %q", d.Edges[0].Label)
	}

	var buf bytes.Buffer
	if err := sqlitepad.RenderDiagram(s, &sqlitepad.DiagramOptions{Writer: &buf, Format: "svg"}); err != nil {
		t.Fatalf("RenderDiagram() error: %v", err)
	}
	if !strings.Contains(buf.String(), "kunden_id → kunden_id") {
		t.Error("SVG output missing edge label")
	}
}

func TestCSVExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.New(newSession(t, "export.db"))

	if err := st.AddItem(ctx, "Käse; extra", "semicolons and unicode"); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := st.AddItem(ctx, "plain", ""); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}

	var buf bytes.Buffer
	n, err := st.ExportCSV(ctx, "items", &buf)
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 exported rows, got %d", n)
	}

	// Re-read what was written: same row count, same column names.
	r := csv.NewReader(&buf)
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse exported CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	wantHeader := []string{"id", "name", "description", "created"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	names := map[string]bool{records[1][1]: true, records[2][1]: true}
	if !names["Käse; extra"] || !names["plain"] {
		t.Errorf("exported names corrupted: %v", names)
	}
}

func TestDeleteRowWithoutPrimaryKey(t *testing.T) {
	ctx := context.Background()
	st := store.New(newSession(t, "nopk.db"))

	if _, err := st.RunScript(ctx, "CREATE TABLE loose (a TEXT, b TEXT)"); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}
	if _, err := st.DeleteRow(ctx, "loose", "x"); err == nil {
		t.Error("expected error deleting from a table without a primary key")
	}
}
