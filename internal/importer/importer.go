package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/txnenrich/internal/model"
)

// Reader converts a tabular transaction file into a model.Table.
type Reader interface {
	Read(r io.Reader) (model.Table, error)
	Format() string
}

// ErrUnknownFormat is returned when no reader handles a file.
var ErrUnknownFormat = errors.New("unknown input format")

// Registry holds named readers.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes an input file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the CSV and XLSX readers. encoding
// applies to CSV input; empty means UTF-8.
func DefaultRegistry(encoding string) *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{Encoding: encoding})
	r.Register(&XLSXReader{})
	return r
}

// FormatFor returns the format name implied by a file extension.
func FormatFor(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ReadFile reads path with the reader registered for its extension.
func (r *Registry) ReadFile(path string) (model.Table, error) {
	rd := r.Get(FormatFor(path))
	if rd == nil {
		return model.Table{}, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	table, err := rd.Read(f)
	if err != nil {
		return model.Table{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// importDir is the subdirectory for input files.
const importDir = "import"

// processedDir is the subdirectory for processed input files.
const processedDir = "import/processed"

// Scan returns importable files (.csv, .xlsx) in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch FormatFor(e.Name()) {
		case "csv", "xlsx":
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// tableFromRecords maps a header row plus data rows onto a model.Table.
// Unrecognized columns are dropped, short rows are padded and fully blank
// rows are skipped.
func tableFromRecords(header []string, records [][]string) model.Table {
	var table model.Table
	colIndex := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if !model.IsInputColumn(name) {
			continue
		}
		if _, dup := colIndex[name]; dup {
			continue
		}
		colIndex[name] = i
		table.Columns = append(table.Columns, name)
	}

	for _, rec := range records {
		if blank(rec) {
			continue
		}
		var txn model.Transaction
		for name, i := range colIndex {
			if i < len(rec) {
				txn.Set(name, rec[i])
			}
		}
		table.Rows = append(table.Rows, txn)
	}
	return table
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
