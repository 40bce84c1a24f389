// Package runlog records one CSV row per enrichment run.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     uuid.UUID
	Input     string
	Output    string
	Rows      int
	Predicted int
	Other     int
	Unknown   int
	Threshold float64
}

// Header is the CSV header for enrich-log.csv.
const Header = "timestamp,run_id,input,output,rows,predicted,other,unknown,threshold"

const (
	numFields    = 9
	logDir       = "logs"
	logFile      = "logs/enrich-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colInput     = 2
	colOutput    = 3
	colRows      = 4
	colPredicted = 5
	colOther     = 6
	colUnknown   = 7
	colThreshold = 8
)

// NewEntry returns an Entry stamped with the current time and a fresh run id.
func NewEntry(input, output string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		RunID:     uuid.New(),
		Input:     input,
		Output:    output,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colInput] = e.Input
	row[colOutput] = e.Output
	row[colRows] = strconv.Itoa(e.Rows)
	row[colPredicted] = strconv.Itoa(e.Predicted)
	row[colOther] = strconv.Itoa(e.Other)
	row[colUnknown] = strconv.Itoa(e.Unknown)
	row[colThreshold] = strconv.FormatFloat(e.Threshold, 'f', -1, 64)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	id, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run id %q: %w", record[colRunID], err)
	}

	e := Entry{
		Timestamp: ts,
		RunID:     id,
		Input:     record[colInput],
		Output:    record[colOutput],
	}
	counts := []struct {
		col int
		dst *int
	}{
		{colRows, &e.Rows},
		{colPredicted, &e.Predicted},
		{colOther, &e.Other},
		{colUnknown, &e.Unknown},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[c.col], err)
		}
		*c.dst = n
	}
	e.Threshold, err = strconv.ParseFloat(record[colThreshold], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing threshold %q: %w", record[colThreshold], err)
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/enrich-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/enrich-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
