// Package export writes enriched transactions in the documented column order.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// Writer serializes an enriched table.
type Writer interface {
	Write(w io.Writer, table model.EnrichedTable) error
	Format() string
}

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ForFormat returns the writer for a format name ("csv" or "xlsx").
func ForFormat(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "xlsx":
		return &XLSXWriter{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Columns returns the output header: model.OutputColumns minus passthrough
// columns absent from the input. Derived columns are always present.
func Columns(inputColumns []string) []string {
	present := make(map[string]bool, len(inputColumns))
	for _, c := range inputColumns {
		present[c] = true
	}
	cols := make([]string, 0, len(model.OutputColumns))
	for _, c := range model.OutputColumns {
		if model.IsDerivedColumn(c) || present[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

// MarshalRow converts an enriched row to values in cols order.
func MarshalRow(row model.EnrichedTransaction, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = row.Get(c)
	}
	return out
}

// WriteFile writes table to path, creating parent directories. An empty
// format is inferred from the extension.
func WriteFile(path, format string, table model.EnrichedTable) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	w, err := ForFormat(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := w.Write(f, table); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
