// Package alertlog keeps an append-only CSV history of the alerts raised by
// each ingest run.
package alertlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Entry is one alert raised during a run.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Source    string // input file the alert came from, or "-" when unknown
	Message   string
}

// Header is the first row of alert-log.csv.
var Header = []string{"timestamp", "run_id", "source", "message"}

const (
	numFields  = 4
	logDir     = "logs"
	logFile    = "alert-log.csv"
	colTime    = 0
	colRunID   = 1
	colSource  = 2
	colMessage = 3
)

// Path returns the alert log location under repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(row []string) (Entry, error) {
	if len(row) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}
	ts, err := time.Parse(time.RFC3339, row[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", row[colTime], err)
	}
	return Entry{
		Timestamp: ts,
		RunID:     row[colRunID],
		Source:    row[colSource],
		Message:   row[colMessage],
	}, nil
}

// Append adds entries to <repoRoot>/logs/alert-log.csv, writing the header
// when the file is new. Appending nothing is a no-op.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(repoRoot)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
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

// Read returns every entry in the alert log, or nil if there is none yet.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading alert log CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		e, err := UnmarshalEntry(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ForRun keeps only the entries written by runID.
func ForRun(entries []Entry, runID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out
}
