package industry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	numFields = 3
	colKey    = 0
	colTier1  = 1
	colTier2  = 2
)

// ReadBrandTable reads brands.csv (brand,tier1,tier2). Duplicate brands,
// compared case-insensitively, are an error.
func ReadBrandTable(r io.Reader) ([]BrandEntry, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var entries []BrandEntry
	for i, rec := range records {
		key := brandKey(rec[colKey])
		if key == "" {
			return nil, fmt.Errorf("row %d: empty brand", i+2)
		}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("row %d: duplicate brand %q (first on row %d)", i+2, key, prev)
		}
		seen[key] = i + 2
		entries = append(entries, BrandEntry{Brand: key, Tier1: rec[colTier1], Tier2: rec[colTier2]})
	}
	return entries, nil
}

// ReadMCCTable reads mcc.csv (mcc,tier1,tier2).
func ReadMCCTable(r io.Reader) ([]MCCEntry, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]int)
	var entries []MCCEntry
	for i, rec := range records {
		code, err := strconv.Atoi(strings.TrimSpace(rec[colKey]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing mcc %q: %w", i+2, rec[colKey], err)
		}
		if prev, ok := seen[code]; ok {
			return nil, fmt.Errorf("row %d: duplicate mcc %d (first on row %d)", i+2, code, prev)
		}
		seen[code] = i + 2
		entries = append(entries, MCCEntry{Code: code, Tier1: rec[colTier1], Tier2: rec[colTier2]})
	}
	return entries, nil
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading industry CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// WriteBrandTable writes brands.csv.
func WriteBrandTable(w io.Writer, entries []BrandEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"brand", "industry_t1", "industry_t2"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write([]string{e.Brand, e.Tier1, e.Tier2}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMCCTable writes mcc.csv.
func WriteMCCTable(w io.Writer, entries []MCCEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"mcc", "industry_t1", "industry_t2"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(e.Code), e.Tier1, e.Tier2}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
