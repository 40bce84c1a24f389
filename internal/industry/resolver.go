// Package industry resolves two-tier industry labels from a brand and an MCC
// using static lookup tables.
package industry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// Table file locations relative to a project root.
const (
	tableDir  = "industry"
	brandFile = "brands.csv"
	mccFile   = "mcc.csv"
)

// Resolver maps brands and MCCs to industries. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	brands  []BrandEntry
	mccs    []MCCEntry
	byBrand map[string]model.Industry
	byMCC   map[int]model.Industry
}

// NewResolver builds a Resolver. Brand keys are trimmed and lowercased.
// Later entries win on duplicate keys; use the CSV readers to reject them.
func NewResolver(brands []BrandEntry, mccs []MCCEntry) *Resolver {
	r := &Resolver{
		brands:  append([]BrandEntry(nil), brands...),
		mccs:    append([]MCCEntry(nil), mccs...),
		byBrand: make(map[string]model.Industry, len(brands)),
		byMCC:   make(map[int]model.Industry, len(mccs)),
	}
	for _, b := range brands {
		r.byBrand[brandKey(b.Brand)] = b.industry()
	}
	for _, m := range mccs {
		r.byMCC[m.Code] = m.industry()
	}
	return r
}

// Default returns a Resolver over the built-in tables.
func Default() *Resolver {
	return NewResolver(DefaultBrandTable(), DefaultMCCTable())
}

func brandKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve returns the industry for an assigned brand and MCC. A known brand
// label wins, except the "other" sentinel; otherwise the MCC is looked up.
// ok is false when neither matches.
func (r *Resolver) Resolve(b model.Brand, mcc model.MCC) (model.Industry, bool) {
	if b.Known() {
		return r.ResolveLabel(b.Label, mcc)
	}
	return r.lookupMCC(mcc)
}

// ResolveLabel is Resolve for a bare label. An empty label means no brand.
func (r *Resolver) ResolveLabel(label string, mcc model.MCC) (model.Industry, bool) {
	if key := brandKey(label); key != "" && key != strings.ToLower(model.OtherLabel) {
		if ind, ok := r.byBrand[key]; ok {
			return ind, true
		}
	}
	return r.lookupMCC(mcc)
}

func (r *Resolver) lookupMCC(mcc model.MCC) (model.Industry, bool) {
	if !mcc.Valid {
		return model.Industry{}, false
	}
	ind, ok := r.byMCC[mcc.Code]
	return ind, ok
}

// Brands returns the brand table.
func (r *Resolver) Brands() []BrandEntry {
	return r.brands
}

// MCCs returns the MCC table.
func (r *Resolver) MCCs() []MCCEntry {
	return r.mccs
}

// Load reads industry/brands.csv and industry/mcc.csv from a project root.
// A missing file falls back to the built-in table for that file.
func Load(repoRoot string) (*Resolver, error) {
	return LoadFiles(
		filepath.Join(repoRoot, tableDir, brandFile),
		filepath.Join(repoRoot, tableDir, mccFile),
	)
}

// LoadFiles reads the two tables from explicit paths. An empty or missing
// path falls back to the built-in table.
func LoadFiles(brandPath, mccPath string) (*Resolver, error) {
	brands := DefaultBrandTable()
	if brandPath != "" {
		f, err := os.Open(brandPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("opening brand table: %w", err)
		default:
			brands, err = ReadBrandTable(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("reading brand table %s: %w", brandPath, err)
			}
		}
	}

	mccs := DefaultMCCTable()
	if mccPath != "" {
		f, err := os.Open(mccPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("opening MCC table: %w", err)
		default:
			mccs, err = ReadMCCTable(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("reading MCC table %s: %w", mccPath, err)
			}
		}
	}

	return NewResolver(brands, mccs), nil
}

// Save writes both tables to industry/ under a project root.
func (r *Resolver) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, tableDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating industry dir: %w", err)
	}

	bf, err := os.Create(filepath.Join(dir, brandFile))
	if err != nil {
		return fmt.Errorf("creating brand table file: %w", err)
	}
	defer bf.Close()
	if err := WriteBrandTable(bf, r.brands); err != nil {
		return fmt.Errorf("writing brand table: %w", err)
	}

	mf, err := os.Create(filepath.Join(dir, mccFile))
	if err != nil {
		return fmt.Errorf("creating MCC table file: %w", err)
	}
	defer mf.Close()
	if err := WriteMCCTable(mf, r.mccs); err != nil {
		return fmt.Errorf("writing MCC table: %w", err)
	}
	return nil
}
