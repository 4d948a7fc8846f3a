package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func TestChaseParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	recs, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, recs, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", recs[0]["Description"])
	assert.Equal(t, "-4.00", recs[0]["Amount"])
	assert.Equal(t, "01/03/2025", recs[0]["Date"])
	assert.Equal(t, "ACH_DEBIT", recs[0]["Type"])
	assert.Equal(t, "Other", recs[0]["Category"])
	assert.Equal(t, "Checking", recs[0]["Account"])

	// Fourth: ACME income (positive)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", recs[3]["Description"])
	assert.Equal(t, "3500.00", recs[3]["Amount"])
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	recs, err := p.Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestChaseParser_BadDate(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestChaseParser_BadAmount(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestChaseParser_Reference(t *testing.T) {
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	recs, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	// Reference format: chase_YYYYMMDD_<prefix>
	assert.Equal(t, "chase_20250103_GITHUBPROS", recs[0]["Reference"])
}

func TestStatementParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/statement.csv")
	require.NoError(t, err)
	defer f.Close()

	recs, err := (&StatementParser{}).Parse(f)
	require.NoError(t, err)
	require.Len(t, recs, 8)

	assert.Equal(t, model.Record{
		"Date":        "2025-09-01",
		"Amount":      "2500.00",
		"Description": "Paycheck - School District",
		"Category":    "Income",
		"Account":     "Checking",
	}, recs[0])
	assert.Equal(t, "9/3/2025", recs[2]["Date"])
}

func TestStatementParser_HeaderOnlyAndEmpty(t *testing.T) {
	p := &StatementParser{}

	recs, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, recs)

	recs, err = p.Parse(strings.NewReader("\ufeffDate, Amount\n"))
	require.NoError(t, err)
	assert.Nil(t, recs)

	recs, err = p.Parse(strings.NewReader("\ufeffDate, Amount\n2025-01-01, 5\n"))
	require.NoError(t, err)
	assert.Equal(t, []model.Record{{"Date": "2025-01-01", "Amount": "5"}}, recs)
}

func TestStatementParser_RaggedRow(t *testing.T) {
	_, err := (&StatementParser{}).Parse(strings.NewReader("Date,Amount\n2025-01-01\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	p := r.Get("CHASE")
	require.NotNil(t, p)
	assert.Equal(t, "chase", p.Format())
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"chase", "statement"}, r.Formats())
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	importPath := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(importPath, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importPath, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "BANK2.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "readme.txt"), []byte("ignore"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(importPath, "processed"), 0o755))

	files, err := Scan(root)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	names := make(map[string]bool)
	for _, f := range files {
		names[f.Name] = true
	}
	assert.True(t, names["bank.csv"])
	assert.True(t, names["BANK2.CSV"])
}

func TestScan_NoDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	root := t.TempDir()
	importPath := filepath.Join(root, "import")
	require.NoError(t, os.MkdirAll(importPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "bank.csv"), []byte("data"), 0o644))

	err := MarkProcessed(root, "bank.csv")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(importPath, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(root, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestLoadAll_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, body := range []string{
		"Date,Amount\n2025-01-01,1\n2025-01-02,2\n",
		"Date,Amount\n2025-02-01,3\n",
		"Date,Amount\n",
		"Date,Amount\n2025-03-01,4\n",
	} {
		path := filepath.Join(dir, model.Text(i)+".csv")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		paths = append(paths, path)
	}

	recs, err := LoadAll(context.Background(), &StatementParser{}, paths)
	require.NoError(t, err)

	var dates []string
	for _, r := range recs {
		dates = append(dates, r.Text("Date"))
	}
	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-02-01", "2025-03-01"}, dates)
}

func TestLoadAll_MissingFile(t *testing.T) {
	_, err := LoadAll(context.Background(), &StatementParser{}, []string{"../../testdata/statement.csv", filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, &StatementParser{}, []string{"../../testdata/statement.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}
