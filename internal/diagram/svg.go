package diagram

import (
	"fmt"
	"io"
	"strings"
)

// SVGRenderer draws a diagram as a standalone SVG document.
type SVGRenderer struct {
	writer io.Writer
}

// NewSVGRenderer creates a new SVG renderer
func NewSVGRenderer(w io.Writer) *SVGRenderer {
	return &SVGRenderer{writer: w}
}

// Render writes the diagram as SVG.
func (r *SVGRenderer) Render(d *Diagram) error {
	_, _ = fmt.Fprintf(r.writer,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	_, _ = fmt.Fprintln(r.writer, `  <defs>`)
	_, _ = fmt.Fprintln(r.writer, `    <marker id="arrow" markerWidth="10" markerHeight="8" refX="9" refY="4" orient="auto">`)
	_, _ = fmt.Fprintln(r.writer, `      <path d="M0,0 L10,4 L0,8 z" fill="#444"/>`)
	_, _ = fmt.Fprintln(r.writer, `    </marker>`)
	_, _ = fmt.Fprintln(r.writer, `  </defs>`)
	_, _ = fmt.Fprintf(r.writer, `  <rect x="0" y="0" width="%d" height="%d" fill="#fafafa"/>`+"\n", d.Width, d.Height)

	for i := range d.Boxes {
		r.renderBox(&d.Boxes[i], d.Geometry)
	}
	for i := range d.Edges {
		r.renderEdge(&d.Edges[i])
	}

	_, _ = fmt.Fprintln(r.writer, `</svg>`)
	return nil
}

func (r *SVGRenderer) renderBox(b *Box, g Geometry) {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1

	_, _ = fmt.Fprintf(r.writer, `  <rect x="%d" y="%d" width="%d" height="%d" fill="#ffffff" stroke="#888"/>`+"\n",
		b.X1, b.Y1, w, h)
	_, _ = fmt.Fprintf(r.writer, `  <rect x="%d" y="%d" width="%d" height="24" fill="#f0f0f0" stroke="#666"/>`+"\n",
		b.X1, b.Y1, w)
	_, _ = fmt.Fprintf(r.writer, `  <text x="%d" y="%d" font-size="13" font-weight="bold" font-family="sans-serif">%s</text>`+"\n",
		b.X1+8, b.Y1+16, escapeText(b.Table))

	y := b.Y1 + g.TitleHeight + 10
	for _, line := range b.Lines {
		_, _ = fmt.Fprintf(r.writer, `  <text x="%d" y="%d" font-size="11" font-family="monospace">%s</text>`+"\n",
			b.X1+10, y, escapeText(line))
		y += g.LineHeight
	}
}

func (r *SVGRenderer) renderEdge(e *Edge) {
	_, _ = fmt.Fprintf(r.writer, `  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#444" marker-end="url(#arrow)"/>`+"\n",
		e.X1, e.Y1, e.X2, e.Y2)
	if e.Label != "" {
		mx := (e.X1 + e.X2) / 2
		my := (e.Y1 + e.Y2) / 2
		_, _ = fmt.Fprintf(r.writer, `  <text x="%d" y="%d" font-size="10" fill="#444" text-anchor="middle" font-family="sans-serif">%s</text>`+"\n",
			mx, my-8, escapeText(e.Label))
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
