package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// CSVWriter writes comma-separated output with a header row.
type CSVWriter struct{}

// Format returns the writer name.
func (c *CSVWriter) Format() string { return "csv" }

// Write writes the header and every row.
func (c *CSVWriter) Write(w io.Writer, table model.EnrichedTable) error {
	cw := csv.NewWriter(w)
	cols := Columns(table.Columns)

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range table.Rows {
		if err := cw.Write(MarshalRow(row, cols)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
