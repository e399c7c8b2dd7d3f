package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

// ExportCSV writes a table as semicolon-delimited CSV: a header row of column
// names followed by one row per record. Returns the number of data rows
// written.
func (s *Store) ExportCSV(ctx context.Context, table string, w io.Writer) (int, error) {
	res, err := s.Browse(ctx, table, "")
	if err != nil {
		return 0, err
	}
	return WriteCSV(w, res)
}

// WriteCSV writes a result as semicolon-delimited CSV. NULL values were
// stringified to empty fields when the result was built.
func WriteCSV(w io.Writer, res *Result) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(res.Columns); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range res.Rows {
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(res.Rows), nil
}
