package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     uuid.MustParse("6f1c2d9e-8a41-4b4e-9a55-0f3b2b8d7c11"),
		Input:     "import/bank.csv",
		Output:    "output/bank-enriched.csv",
		Rows:      120,
		Predicted: 97,
		Other:     15,
		Unknown:   8,
		Threshold: 0.25,
	}
}

func TestNewEntry(t *testing.T) {
	a := NewEntry("in.csv", "out.csv")
	b := NewEntry("in.csv", "out.csv")
	assert.NotEqual(t, uuid.Nil, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.WithinDuration(t, time.Now(), a.Timestamp, time.Minute)
	assert.Equal(t, "in.csv", a.Input)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.RunID = uuid.New()
	e2.Input = "import/card.xlsx"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "import/bank.csv", entries[0].Input)
	assert.Equal(t, "import/card.xlsx", entries[1].Input)
	assert.Equal(t, e2.RunID, entries[1].RunID)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "enrich-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, []string{
		"2025-01-15T10:30:00Z",
		"6f1c2d9e-8a41-4b4e-9a55-0f3b2b8d7c11",
		"import/bank.csv",
		"output/bank-enriched.csv",
		"120", "97", "15", "8", "0.25",
	}, row)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 9 fields")

	row := MarshalEntry(testEntry())
	row[colRunID] = "not-a-uuid"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing run id")

	row = MarshalEntry(testEntry())
	row[colOther] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing count")

	row = MarshalEntry(testEntry())
	row[colThreshold] = "high"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing threshold")
}
