package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/fintrack/internal/model"
)

// StatementParser reads a generic statement CSV whose header row names the
// fields (for example Date,Amount,Description,Category,Account). Values are
// kept as strings under their header names.
type StatementParser struct{}

func (p *StatementParser) Format() string { return "statement" }

func (p *StatementParser) Parse(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var recs []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statement row %d: %w", line, err)
		}
		rec := make(model.Record, len(header))
		for i, name := range header {
			if name != "" {
				rec[name] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
