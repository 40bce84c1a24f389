package brandmodel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Training CSV columns.
const (
	ColText  = "cleaned"
	ColLabel = "BRAND"
)

// ErrMissingTrainingColumn is returned when the training CSV lacks a column.
var ErrMissingTrainingColumn = errors.New("training data must contain 'cleaned' and 'BRAND' columns")

// ReadTrainingCSV reads labeled examples from a CSV with cleaned and BRAND
// columns. Column order does not matter; other columns are ignored.
func ReadTrainingCSV(r io.Reader) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingTrainingColumn
	}
	if err != nil {
		return nil, fmt.Errorf("reading training header: %w", err)
	}

	textCol, labelCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case ColText:
			textCol = i
		case ColLabel:
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, ErrMissingTrainingColumn
	}

	var examples []Example
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if textCol >= len(rec) || labelCol >= len(rec) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", line, max(textCol, labelCol)+1, len(rec))
		}
		examples = append(examples, Example{Text: rec[textCol], Label: rec[labelCol]})
	}
	return examples, nil
}

// WriteTrainingCSV writes examples with a cleaned,BRAND header.
func WriteTrainingCSV(w io.Writer, examples []Example) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{ColText, ColLabel}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, ex := range examples {
		if err := cw.Write([]string{ex.Text, ex.Label}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadTrainingFile reads a training CSV from disk.
func LoadTrainingFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening training data: %w", err)
	}
	defer f.Close()

	examples, err := ReadTrainingCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading training data %s: %w", path, err)
	}
	return examples, nil
}
