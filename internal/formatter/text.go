package formatter

import (
	"fmt"
	"io"
	"strings"

	"sqlitepad/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.formatTable(&table); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatTable(table *schema.Table) error {
	pkStr := ""
	if pk := table.PrimaryKey(); len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(pk, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(col))
	}

	if len(table.ForeignKeys) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  FOREIGN KEYS:")
		for _, fk := range table.ForeignKeys {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s%s\n",
				fk.SourceColumn, fk.TargetTable, fk.TargetColumn, formatActions(fk))
		}
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.Unique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}

	return nil
}

func (f *TextFormatter) formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":"}

	typeStr := col.Type
	if typeStr == "" {
		typeStr = "ANY"
	}
	parts = append(parts, typeStr)

	if col.Unique {
		parts = append(parts, "UNIQUE")
	}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.DefaultValue != nil {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *col.DefaultValue))
	}

	return strings.Join(parts, " ")
}

// formatActions renders the referential actions of a foreign key, omitting
// the clause entirely when both are the engine default.
func formatActions(fk schema.ForeignKey) string {
	if isDefaultAction(fk.OnDelete) && isDefaultAction(fk.OnUpdate) {
		return ""
	}
	return fmt.Sprintf(" (ON DELETE %s, ON UPDATE %s)", fk.OnDelete, fk.OnUpdate)
}

func isDefaultAction(action string) bool {
	return action == "" || strings.EqualFold(action, "NO ACTION")
}
