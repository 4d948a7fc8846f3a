package alertlog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 9, 2, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "run-1",
		Source:    "statement.csv",
		Message:   "Large Transaction: $800.00 on 2025-09-03 at Transfer from Unknown",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "timestamp,run_id,source,message\n"))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.RunID = "run-2"
	e2.Message = "Suspicious Merchant: matched 'cash app' in 'Cash App Payment' on 2025-09-04"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "run-2", entries[1].RunID)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,run_id"), "header written once")

	assert.Len(t, ForRun(entries, "run-2"), 1)
	assert.Empty(t, ForRun(entries, "run-3"))
}

func TestAppend_NothingCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, nil))

	_, err := os.Stat(Path(dir))
	assert.True(t, os.IsNotExist(err))
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestReadEntries_BadTimestamp(t *testing.T) {
	_, err := readEntries(strings.NewReader("timestamp,run_id,source,message\nyesterday,r,s,m\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestMessageWithCommasSurvives(t *testing.T) {
	dir := t.TempDir()
	e := testEntry()
	e.Message = `Dining per-transaction limit exceeded: $1,200.00 on 2025-09-01 ("Fancy, Inc")`
	require.NoError(t, Append(dir, []Entry{e}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.Message, entries[0].Message)
}
