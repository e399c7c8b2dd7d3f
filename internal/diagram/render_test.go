package diagram

import (
	"bytes"
	"strings"
	"testing"

	"sqlitepad/internal/schema"
)

func TestSVGRenderer(t *testing.T) {
	d := Build(customersOrdersSchema(), DefaultGeometry())

	var buf bytes.Buffer
	if err := NewSVGRenderer(&buf).Render(d); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<svg ") {
		t.Errorf("output does not start with an svg element")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Errorf("output is not closed")
	}

	for _, want := range []string{
		">kunden</text>",
		">bestellungen</text>",
		"kunden_id: INTEGER [PK]",
		"kunden_id → kunden_id",
		`marker-end="url(#arrow)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if got := strings.Count(out, `marker-end="url(#arrow)"`); got != 1 {
		t.Errorf("expected 1 edge line, got %d", got)
	}
}

func TestSVGRendererEscapesText(t *testing.T) {
	d := &Diagram{
		Width:    100,
		Height:   100,
		Geometry: DefaultGeometry(),
		Boxes: []Box{
			{Table: "a<b>&c", Lines: []string{`x "quoted"`}, X1: 0, Y1: 0, X2: 50, Y2: 50},
		},
	}

	var buf bytes.Buffer
	if err := NewSVGRenderer(&buf).Render(d); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "a<b>&c") {
		t.Error("table name was not escaped")
	}
	if !strings.Contains(out, "a&lt;b&gt;&amp;c") {
		t.Error("escaped table name missing from output")
	}
}

func TestTextRenderer(t *testing.T) {
	d := Build(customersOrdersSchema(), DefaultGeometry())

	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(d); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"2 tables, 1 relations",
		"BOX kunden ",
		"BOX bestellungen ",
		"EDGE bestellungen → kunden [kunden_id → kunden_id]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestTextRendererEmptySchema(t *testing.T) {
	d := Build(&schema.Schema{}, DefaultGeometry())

	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(d); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "0 tables, 0 relations") {
		t.Errorf("unexpected output for empty schema: %q", buf.String())
	}
}
