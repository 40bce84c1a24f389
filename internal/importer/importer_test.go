package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/txnenrich/internal/model"
)

const sampleCSV = `TXN_ID,RAW_MERCHANT,MCC_CODE,AMOUNT,CURRENCY,TIMESTAMP,CITY,COUNTRY
1,STARBUCKS #123,5814,4.50,SGD,2025-01-03 08:15:00,Singapore,SG
2,McDonalds TST,5814,12.00,HKD,2025-01-04 12:30:00,Hong Kong,HK
3,"SHELL, HQ",,80.10,MYR,2025-01-05 09:00:00,Kuala Lumpur,MY
`

func TestCSVReader_Read(t *testing.T) {
	table, err := (&CSVReader{}).Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, model.InputColumns, table.Columns)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "STARBUCKS #123", first.RawMerchant)
	assert.Equal(t, "5814", first.MCCCode)
	assert.Equal(t, "4.50", first.Amount)
	assert.Equal(t, "Singapore", first.City)

	assert.Equal(t, "SHELL, HQ", table.Rows[2].RawMerchant)
	assert.Empty(t, table.Rows[2].MCCCode)
}

func TestCSVReader_ColumnOrderAndUnknownColumns(t *testing.T) {
	in := "NOTES,MCC_CODE, RAW_MERCHANT \nhello,5411,FAIRPRICE\n"
	table, err := (&CSVReader{}).Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{model.ColMCCCode, model.ColRawMerchant}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "FAIRPRICE", table.Rows[0].RawMerchant)
	assert.Equal(t, "5411", table.Rows[0].MCCCode)
	assert.False(t, table.HasColumn(model.ColTxnID))
}

func TestCSVReader_BOMAndRaggedRows(t *testing.T) {
	in := "\ufeffTXN_ID,RAW_MERCHANT,MCC_CODE\n1,GRAB\n\n,,\n2,SHELL,5541\n"
	table, err := (&CSVReader{}).Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.True(t, table.HasColumn(model.ColTxnID))
	require.Len(t, table.Rows, 2, "blank rows are skipped")
	assert.Equal(t, "GRAB", table.Rows[0].RawMerchant)
	assert.Empty(t, table.Rows[0].MCCCode)
	assert.Equal(t, "5541", table.Rows[1].MCCCode)
}

func TestCSVReader_Windows1252(t *testing.T) {
	utf8 := "RAW_MERCHANT,MCC_CODE\nCAFÉ RÉUNION,5814\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(utf8)
	require.NoError(t, err)

	table, err := (&CSVReader{Encoding: "windows-1252"}).Read(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "CAFÉ RÉUNION", table.Rows[0].RawMerchant)
}

func TestCSVReader_UnknownEncoding(t *testing.T) {
	_, err := (&CSVReader{Encoding: "ebcdic"}).Read(strings.NewReader("a\n"))
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestCSVReader_Empty(t *testing.T) {
	table, err := (&CSVReader{}).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestXLSXReader_Read(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"TXN_ID", "RAW_MERCHANT", "MCC_CODE"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1", "STARBUCKS #123", "5814"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"2", "GRAB", "4121"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table, err := (&XLSXReader{}).Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{model.ColTxnID, model.ColRawMerchant, model.ColMCCCode}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "GRAB", table.Rows[1].RawMerchant)
	assert.Equal(t, "4121", table.Rows[1].MCCCode)
}

func TestXLSXReader_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXReader{}).Read(strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry("")
	assert.NotNil(t, r.Get("CSV"))
	assert.NotNil(t, r.Get("Xlsx"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVReader{})
	assert.Panics(t, func() { r.Register(&CSVReader{}) })
}

func TestRegistry_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txns.CSV")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := DefaultRegistry("").ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)

	_, err = DefaultRegistry("").ReadFile(filepath.Join(dir, "txns.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "csv", FormatFor("a/b/c.CSV"))
	assert.Equal(t, "xlsx", FormatFor("book.xlsx"))
	assert.Empty(t, FormatFor("noext"))
}

func TestScan_FindsInputs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(importDir, "processed"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "card.xlsx"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "bank.csv", files[0].Name)
	assert.Equal(t, "card.xlsx", files[1].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}
