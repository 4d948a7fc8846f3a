package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/alertlog"
)

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runFintrack(t, "init", dir)
	require.NoError(t, err, out)
	return dir
}

func TestIngest_ExplicitFile(t *testing.T) {
	dir := initWorkspace(t)
	statement := filepath.Join(dir, "statement.csv")
	copyFixture(t, "statement.csv", statement)

	out, err := runFintrack(t, "ingest", "--repo", dir, statement)
	require.NoError(t, err, out)

	assert.Contains(t, out, "=== ALERTS ===")
	assert.Contains(t, out, "UNKNOWN MONEY TRANSFER")
	assert.Contains(t, out, "- Checking (ACC_CHECK): balance=$614.90")
	assert.Contains(t, out, "Checking has the most: $614.90")
	assert.Contains(t, out, "- Income: $2,500.00")

	entries, err := alertlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "statement.csv", entries[0].Source)
	assert.Equal(t, entries[0].RunID, entries[4].RunID)
}

func TestIngest_ScansImportDir(t *testing.T) {
	dir := initWorkspace(t)
	copyFixture(t, "chase_checking.csv", filepath.Join(dir, "import", "chase_checking.csv"))

	out, err := runFintrack(t, "ingest", "--repo", dir, "--format", "chase", "--mark-processed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ACME CONSULTING INVOICE")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "chase_checking.csv"))
	assert.NoError(t, err, "file should be moved to processed")
	_, err = os.Stat(filepath.Join(dir, "import", "chase_checking.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestIngest_NothingToDo(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runFintrack(t, "ingest", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No files to ingest.")
}

func TestIngest_UnknownFormat(t *testing.T) {
	dir := initWorkspace(t)
	statement := filepath.Join(dir, "statement.csv")
	copyFixture(t, "statement.csv", statement)

	out, err := runFintrack(t, "ingest", "--repo", dir, "--format", "ofx", statement)
	require.Error(t, err)
	assert.Contains(t, out, `unknown format "ofx" (available: chase, statement)`)
}

func TestIngest_FailFastAndSkipInvalid(t *testing.T) {
	dir := initWorkspace(t)
	bad := filepath.Join(dir, "bad.csv")
	csv := "Date,Amount,Description,Category,Account\n" +
		"2025-09-01,-50.00,ATM Withdrawal,Other,Savings\n" +
		"2025-09-02,25.00,Refund,Other,Checking\n"
	require.NoError(t, os.WriteFile(bad, []byte(csv), 0o644))

	out, err := runFintrack(t, "ingest", "--repo", dir, bad)
	require.Error(t, err)
	assert.Contains(t, out, "posting row 1")

	out, err = runFintrack(t, "ingest", "--repo", dir, "--skip-invalid", bad)
	require.NoError(t, err, out)
	assert.Contains(t, out, "SKIPPED ROWS (1)")
	assert.Contains(t, out, "Insufficient funds")
}

func TestIngest_ExportAndMetrics(t *testing.T) {
	dir := initWorkspace(t)
	statement := filepath.Join(dir, "statement.csv")
	copyFixture(t, "statement.csv", statement)
	export := filepath.Join(dir, "posted.csv")
	metricsFile := filepath.Join(dir, "fintrack.prom")

	out, err := runFintrack(t, "ingest", "--repo", dir, "--export", export, "--metrics-file", metricsFile, statement)
	require.NoError(t, err, out)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "txn_id,date,account_id,type,amount,signed_amount,category,description", lines[0])
	assert.Len(t, lines, 8)

	data, err = os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fintrack_records_loaded_total 8")
	assert.Contains(t, string(data), "fintrack_duplicates_removed_total 1")
	assert.Contains(t, string(data), `fintrack_account_balance{account="ACC_CHECK"} 614.9`)
}

func TestIngest_EnvFileSetsLogLevel(t *testing.T) {
	dir := initWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINTRACK_LOG_LEVEL=debug\n"), 0o644))
	statement := filepath.Join(dir, "statement.csv")
	copyFixture(t, "statement.csv", statement)

	out, err := runFintrack(t, "ingest", "--repo", dir, statement)
	require.NoError(t, err, out)
	assert.Contains(t, out, "records cleaned", "debug logging enabled through .env")
}
