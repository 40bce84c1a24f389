package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/txnenrich/internal/model"
)

const sheetName = "Enriched"

// XLSXWriter writes an Excel workbook with a bold header row.
type XLSXWriter struct{}

// Format returns the writer name.
func (x *XLSXWriter) Format() string { return "xlsx" }

// Write writes the workbook. All cells are strings so passthrough values
// keep their original text.
func (x *XLSXWriter) Write(w io.Writer, table model.EnrichedTable) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	cols := Columns(table.Columns)
	if err := writeRow(f, 1, cols); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range table.Rows {
		if err := writeRow(f, i+2, MarshalRow(row, cols)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}
