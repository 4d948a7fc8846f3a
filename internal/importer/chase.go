package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Chase does not
// categorize rows, so every record starts as "Other" on "Checking".
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns raw records.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var recs []model.Record
	for i, row := range records[1:] {
		rec, err := parseChaseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseChaseRow(row []string) (model.Record, error) {
	date, err := time.Parse(chaseDateFormat, row[chaseColDate])
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", row[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(row[chaseColAmount])
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", row[chaseColAmount], err)
	}

	desc := row[chaseColDesc]
	return model.Record{
		"Date":        row[chaseColDate],
		"Amount":      amount.StringFixed(2),
		"Description": desc,
		"Category":    "Other",
		"Account":     "Checking",
		"Type":        row[chaseColType],
		"Reference":   makeChaseRef(date, desc),
	}, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
