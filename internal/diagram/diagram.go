// Package diagram computes and renders the ER diagram of a schema: one box
// per table placed on a fixed grid, one directed edge per foreign-key row.
// Box positions are a pure function of table order and geometry; no layout
// state is persisted between builds.
package diagram

import "sqlitepad/internal/schema"

// Geometry controls the grid layout. Non-positive fields fall back to the
// defaults.
type Geometry struct {
	CanvasWidth int
	BoxWidth    int
	Padding     int
	LineHeight  int
	TitleHeight int
	GapX        int
	GapY        int
}

// DefaultGeometry returns the standard canvas constants.
func DefaultGeometry() Geometry {
	return Geometry{
		CanvasWidth: 1000,
		BoxWidth:    260,
		Padding:     24,
		LineHeight:  18,
		TitleHeight: 26,
		GapX:        40,
		GapY:        40,
	}
}

func (g Geometry) withDefaults() Geometry {
	def := DefaultGeometry()
	if g.CanvasWidth <= 0 {
		g.CanvasWidth = def.CanvasWidth
	}
	if g.BoxWidth <= 0 {
		g.BoxWidth = def.BoxWidth
	}
	if g.Padding <= 0 {
		g.Padding = def.Padding
	}
	if g.LineHeight <= 0 {
		g.LineHeight = def.LineHeight
	}
	if g.TitleHeight <= 0 {
		g.TitleHeight = def.TitleHeight
	}
	if g.GapX <= 0 {
		g.GapX = def.GapX
	}
	if g.GapY <= 0 {
		g.GapY = def.GapY
	}
	return g
}

// TilesPerRow returns how many boxes fit in one grid row. Always at least 1.
func (g Geometry) TilesPerRow() int {
	per := (g.CanvasWidth - g.Padding) / (g.BoxWidth + g.GapX)
	if per < 1 {
		per = 1
	}
	return per
}

// boxHeight derives a box's height from its column count.
func (g Geometry) boxHeight(columns int) int {
	lines := columns
	if lines < 1 {
		lines = 1
	}
	return g.TitleHeight + 8 + lines*g.LineHeight + 12
}

// Box is one table tile on the canvas.
type Box struct {
	Table          string
	Lines          []string // one label per column, e.g. "id: INTEGER [PK]"
	X1, Y1, X2, Y2 int
}

// Edge is one foreign-key arrow. It runs from the vertical midpoint of the
// source box's right edge to the vertical midpoint of the target box's left
// edge.
type Edge struct {
	FromTable      string
	ToTable        string
	Label          string // "sourceColumn → targetColumn"
	X1, Y1, X2, Y2 int
}

// Diagram is a fully laid-out schema ready for rendering.
type Diagram struct {
	Boxes    []Box
	Edges    []Edge
	Width    int
	Height   int
	Geometry Geometry
}

// Build lays out the schema's tables on the grid and connects the foreign
// keys. Tables arrive in catalog order (sorted by name); a table's position
// depends only on its index, the table count and the canvas width.
//
// Each row advances by the height of its tallest box plus the vertical gap,
// so boxes never overlap regardless of how column counts vary within a row.
func Build(s *schema.Schema, g Geometry) *Diagram {
	g = g.withDefaults()
	per := g.TilesPerRow()
	d := &Diagram{Width: g.CanvasWidth, Height: g.Padding, Geometry: g}

	boxIndex := make(map[string]int, len(s.Tables))
	y := g.Padding
	rowMax := 0
	for i, t := range s.Tables {
		col := i % per
		if col == 0 && i > 0 {
			y += rowMax + g.GapY
			rowMax = 0
		}

		h := g.boxHeight(len(t.Columns))
		x1 := g.Padding + col*(g.BoxWidth+g.GapX)
		box := Box{
			Table: t.Name,
			Lines: columnLines(&t),
			X1:    x1,
			Y1:    y,
			X2:    x1 + g.BoxWidth,
			Y2:    y + h,
		}
		if h > rowMax {
			rowMax = h
		}
		if box.Y2+g.Padding > d.Height {
			d.Height = box.Y2 + g.Padding
		}

		boxIndex[t.Name] = len(d.Boxes)
		d.Boxes = append(d.Boxes, box)
	}

	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			si, ok := boxIndex[t.Name]
			ti, ok2 := boxIndex[fk.TargetTable]
			if !ok || !ok2 {
				// Endpoint table filtered out of the layout.
				continue
			}
			src, dst := d.Boxes[si], d.Boxes[ti]
			d.Edges = append(d.Edges, Edge{
				FromTable: t.Name,
				ToTable:   fk.TargetTable,
				Label:     fk.SourceColumn + " → " + fk.TargetColumn,
				X1:        src.X2,
				Y1:        (src.Y1 + src.Y2) / 2,
				X2:        dst.X1,
				Y2:        (dst.Y1 + dst.Y2) / 2,
			})
		}
	}

	return d
}

// columnLines renders the text lines shown inside a table box.
func columnLines(t *schema.Table) []string {
	lines := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		line := c.Name
		if c.Type != "" {
			line += ": " + c.Type
		}
		if c.PrimaryKey {
			line += " [PK]"
		}
		lines = append(lines, line)
	}
	return lines
}
