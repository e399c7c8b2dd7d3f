package diagram

import (
	"fmt"
	"io"
)

// TextRenderer writes a plain-text listing of the diagram, one line per box
// column and one line per edge.
type TextRenderer struct {
	writer io.Writer
}

// NewTextRenderer creates a new text renderer
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{writer: w}
}

// Render writes the diagram as text.
func (r *TextRenderer) Render(d *Diagram) error {
	_, _ = fmt.Fprintf(r.writer, "DIAGRAM %dx%d: %d tables, %d relations\n",
		d.Width, d.Height, len(d.Boxes), len(d.Edges))

	for _, b := range d.Boxes {
		_, _ = fmt.Fprintf(r.writer, "\nBOX %s (%d,%d)-(%d,%d)\n", b.Table, b.X1, b.Y1, b.X2, b.Y2)
		for _, line := range b.Lines {
			_, _ = fmt.Fprintf(r.writer, "  %s\n", line)
		}
	}

	if len(d.Edges) > 0 {
		_, _ = fmt.Fprintln(r.writer)
		for _, e := range d.Edges {
			_, _ = fmt.Fprintf(r.writer, "EDGE %s → %s [%s]\n", e.FromTable, e.ToTable, e.Label)
		}
	}

	return nil
}
