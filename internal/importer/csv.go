package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// ErrUnknownEncoding is returned for unsupported CSV encodings.
var ErrUnknownEncoding = errors.New("unknown encoding")

// CSVReader reads comma-separated transaction exports with a header row.
type CSVReader struct {
	// Encoding of the input: "" or "utf-8" (a leading BOM is stripped),
	// "windows-1252", "iso-8859-1", "windows-1251".
	Encoding string
}

// Format returns the reader name.
func (c *CSVReader) Format() string { return "csv" }

// Read parses the CSV. Rows may have fewer fields than the header.
func (c *CSVReader) Read(r io.Reader) (model.Table, error) {
	enc, err := LookupEncoding(c.Encoding)
	if err != nil {
		return model.Table{}, err
	}

	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return model.Table{}, nil
	}
	return tableFromRecords(records[0], records[1:]), nil
}

// LookupEncoding resolves an encoding name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}
