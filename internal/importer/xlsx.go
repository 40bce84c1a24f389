package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// XLSXReader reads transactions from an Excel workbook.
type XLSXReader struct {
	// Sheet to read; empty means the first sheet.
	Sheet string
}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read parses the sheet. The first row is the header.
func (x *XLSXReader) Read(r io.Reader) (model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Table{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Table{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.Table{}, nil
	}
	return tableFromRecords(rows[0], rows[1:]), nil
}
