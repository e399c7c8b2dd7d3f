package diagram

import (
	"fmt"
	"testing"

	"sqlitepad/internal/schema"
)

func TestTilesPerRow(t *testing.T) {
	tests := []struct {
		name        string
		canvasWidth int
		want        int
	}{
		{name: "default width", canvasWidth: 1000, want: 3},
		{name: "wide canvas", canvasWidth: 2000, want: 6},
		{name: "narrower than one box", canvasWidth: 200, want: 1},
		{name: "exactly one tile", canvasWidth: 324, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGeometry()
			g.CanvasWidth = tt.canvasWidth
			if got := g.TilesPerRow(); got != tt.want {
				t.Errorf("TilesPerRow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildPlacesEveryTable(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 7, 12} {
		t.Run(fmt.Sprintf("%d tables", n), func(t *testing.T) {
			s := &schema.Schema{}
			for i := 0; i < n; i++ {
				s.Tables = append(s.Tables, schema.Table{
					Name:    fmt.Sprintf("t%02d", i),
					Columns: makeColumns(i % 5),
				})
			}

			d := Build(s, DefaultGeometry())

			if len(d.Boxes) != n {
				t.Fatalf("expected %d boxes, got %d", n, len(d.Boxes))
			}
			for _, b := range d.Boxes {
				if b.X1 < 0 || b.Y1 < 0 {
					t.Errorf("box %s has negative coordinates (%d,%d)", b.Table, b.X1, b.Y1)
				}
				if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
					t.Errorf("box %s is degenerate: (%d,%d)-(%d,%d)", b.Table, b.X1, b.Y1, b.X2, b.Y2)
				}
			}
		})
	}
}

func TestBuildBoxesNeverOverlap(t *testing.T) {
	// Column counts vary within each row so the per-row maximum matters:
	// a per-box row advance would make row two collide with the tall box
	// in row one.
	s := &schema.Schema{}
	for i, cols := range []int{1, 12, 2, 3, 1, 8} {
		s.Tables = append(s.Tables, schema.Table{
			Name:    fmt.Sprintf("t%02d", i),
			Columns: makeColumns(cols),
		})
	}

	d := Build(s, DefaultGeometry())

	for i := 0; i < len(d.Boxes); i++ {
		for j := i + 1; j < len(d.Boxes); j++ {
			a, b := d.Boxes[i], d.Boxes[j]
			if a.X1 < b.X2 && b.X1 < a.X2 && a.Y1 < b.Y2 && b.Y1 < a.Y2 {
				t.Errorf("boxes %s and %s overlap: (%d,%d)-(%d,%d) vs (%d,%d)-(%d,%d)",
					a.Table, b.Table, a.X1, a.Y1, a.X2, a.Y2, b.X1, b.Y1, b.X2, b.Y2)
			}
		}
	}
}

func TestBuildRowAdvanceUsesTallestBox(t *testing.T) {
	g := DefaultGeometry() // 3 tiles per row
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "a", Columns: makeColumns(2)},
			{Name: "b", Columns: makeColumns(10)},
			{Name: "c", Columns: makeColumns(1)},
			{Name: "d", Columns: makeColumns(1)},
		},
	}

	d := Build(s, g)

	tallest := g.boxHeight(10)
	wantY := g.Padding + tallest + g.GapY
	if got := d.Boxes[3].Y1; got != wantY {
		t.Errorf("second row starts at y=%d, want %d (tallest first-row box + gap)", got, wantY)
	}
}

func TestBuildBoxHeightFromColumnCount(t *testing.T) {
	g := DefaultGeometry()

	tests := []struct {
		columns int
		want    int
	}{
		{columns: 0, want: g.TitleHeight + 8 + 1*g.LineHeight + 12},
		{columns: 1, want: g.TitleHeight + 8 + 1*g.LineHeight + 12},
		{columns: 4, want: g.TitleHeight + 8 + 4*g.LineHeight + 12},
	}

	for _, tt := range tests {
		s := &schema.Schema{Tables: []schema.Table{{Name: "t", Columns: makeColumns(tt.columns)}}}
		d := Build(s, g)
		if got := d.Boxes[0].Y2 - d.Boxes[0].Y1; got != tt.want {
			t.Errorf("%d columns: box height = %d, want %d", tt.columns, got, tt.want)
		}
	}
}

func TestBuildEdges(t *testing.T) {
	s := customersOrdersSchema()

	d := Build(s, DefaultGeometry())

	if len(d.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(d.Boxes))
	}
	if len(d.Edges) != 1 {
		t.Fatalf("expected exactly 1 edge, got %d", len(d.Edges))
	}

	e := d.Edges[0]
	if e.FromTable != "bestellungen" || e.ToTable != "kunden" {
		t.Errorf("edge runs %s → %s, want bestellungen → kunden", e.FromTable, e.ToTable)
	}
	if e.Label != "kunden_id → kunden_id" {
		t.Errorf("edge label = %q, want %q", e.Label, "kunden_id → kunden_id")
	}

	src := findBox(t, d, "bestellungen")
	dst := findBox(t, d, "kunden")
	if e.X1 != src.X2 || e.Y1 != (src.Y1+src.Y2)/2 {
		t.Errorf("edge starts at (%d,%d), want right-edge midpoint of source (%d,%d)",
			e.X1, e.Y1, src.X2, (src.Y1+src.Y2)/2)
	}
	if e.X2 != dst.X1 || e.Y2 != (dst.Y1+dst.Y2)/2 {
		t.Errorf("edge ends at (%d,%d), want left-edge midpoint of target (%d,%d)",
			e.X2, e.Y2, dst.X1, (dst.Y1+dst.Y2)/2)
	}
}

func TestBuildSkipsEdgesToMissingTables(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{
				Name:    "orders",
				Columns: makeColumns(2),
				ForeignKeys: []schema.ForeignKey{
					{SourceColumn: "user_id", TargetTable: "users", TargetColumn: "id"},
				},
			},
		},
	}

	d := Build(s, DefaultGeometry())

	if len(d.Edges) != 0 {
		t.Errorf("expected no edges when the target table is absent, got %d", len(d.Edges))
	}
}

func TestBuildOneEdgePerForeignKeyRow(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "a", Columns: makeColumns(3), ForeignKeys: []schema.ForeignKey{
				{SourceColumn: "b1", TargetTable: "b", TargetColumn: "id"},
				{SourceColumn: "b2", TargetTable: "b", TargetColumn: "id"},
			}},
			{Name: "b", Columns: makeColumns(1)},
		},
	}

	d := Build(s, DefaultGeometry())

	if len(d.Edges) != 2 {
		t.Fatalf("expected 2 edges for 2 foreign keys, got %d", len(d.Edges))
	}
	// No bundling or offset: both edges share the same endpoints.
	if d.Edges[0].X1 != d.Edges[1].X1 || d.Edges[0].Y1 != d.Edges[1].Y1 {
		t.Errorf("parallel edges should overlap, got (%d,%d) and (%d,%d)",
			d.Edges[0].X1, d.Edges[0].Y1, d.Edges[1].X1, d.Edges[1].Y1)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	s := customersOrdersSchema()

	d1 := Build(s, DefaultGeometry())
	d2 := Build(s, DefaultGeometry())

	if len(d1.Boxes) != len(d2.Boxes) || len(d1.Edges) != len(d2.Edges) {
		t.Fatal("rebuild changed the diagram shape")
	}
	for i := range d1.Boxes {
		if d1.Boxes[i].X1 != d2.Boxes[i].X1 || d1.Boxes[i].Y1 != d2.Boxes[i].Y1 {
			t.Errorf("box %s moved between builds", d1.Boxes[i].Table)
		}
	}
}

func TestColumnLines(t *testing.T) {
	s := customersOrdersSchema()
	d := Build(s, DefaultGeometry())

	kunden := findBox(t, d, "kunden")
	if len(kunden.Lines) != 2 {
		t.Fatalf("expected 2 column lines, got %d", len(kunden.Lines))
	}
	if kunden.Lines[0] != "kunden_id: INTEGER [PK]" {
		t.Errorf("line = %q, want %q", kunden.Lines[0], "kunden_id: INTEGER [PK]")
	}
	if kunden.Lines[1] != "name: TEXT" {
		t.Errorf("line = %q, want %q", kunden.Lines[1], "name: TEXT")
	}
}

// customersOrdersSchema is the canonical two-table example: kunden with a
// primary key, bestellungen referencing it. Tables arrive sorted by name, as
// the extractors deliver them.
func customersOrdersSchema() *schema.Schema {
	return &schema.Schema{
		Tables: []schema.Table{
			{
				Name: "bestellungen",
				Columns: []schema.Column{
					{Name: "bestellung_id", Type: "INTEGER", PrimaryKey: true},
					{Name: "kunden_id", Type: "INTEGER"},
				},
				ForeignKeys: []schema.ForeignKey{
					{SourceColumn: "kunden_id", TargetTable: "kunden", TargetColumn: "kunden_id"},
				},
			},
			{
				Name: "kunden",
				Columns: []schema.Column{
					{Name: "kunden_id", Type: "INTEGER", PrimaryKey: true},
					{Name: "name", Type: "TEXT"},
				},
			},
		},
	}
}

func makeColumns(n int) []schema.Column {
	cols := make([]schema.Column, n)
	for i := range cols {
		cols[i] = schema.Column{Name: fmt.Sprintf("c%d", i), Type: "TEXT"}
	}
	return cols
}

func findBox(t *testing.T, d *Diagram, table string) Box {
	t.Helper()
	for _, b := range d.Boxes {
		if b.Table == table {
			return b
		}
	}
	t.Fatalf("box for table %s not found", table)
	return Box{}
}
