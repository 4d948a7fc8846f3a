// Package cleaner normalizes raw statement records into a canonical shape
// and removes duplicate events.
package cleaner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/fintrack/internal/model"
)

var (
	ErrNotIterable = errors.New("rows must be a list of records")
	ErrNotRecord   = errors.New("row is not a record")
)

// Cleaner holds a batch of records and applies the normalizers to all of them.
// It is not safe for concurrent use.
type Cleaner struct {
	rows []model.Record
}

// New copies rows into a new Cleaner.
func New(rows []model.Record) *Cleaner {
	c := &Cleaner{rows: make([]model.Record, 0, len(rows))}
	for _, r := range rows {
		c.rows = append(c.rows, r.Clone())
	}
	return c
}

// FromValues builds a Cleaner from loosely typed input such as decoded JSON.
// nil yields an empty Cleaner.
func FromValues(v any) (*Cleaner, error) {
	switch rows := v.(type) {
	case nil:
		return New(nil), nil
	case []model.Record:
		return New(rows), nil
	case []map[string]any:
		out := make([]model.Record, len(rows))
		for i, r := range rows {
			out[i] = model.Record(r)
		}
		return New(out), nil
	case []any:
		out := make([]model.Record, len(rows))
		for i, r := range rows {
			switch rec := r.(type) {
			case model.Record:
				out[i] = rec
			case map[string]any:
				out[i] = model.Record(rec)
			default:
				return nil, fmt.Errorf("rows[%d] (%T): %w", i, r, ErrNotRecord)
			}
		}
		return New(out), nil
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrNotIterable)
	}
}

// apply runs fn over every row and swaps the result in only when all rows
// succeed.
func (c *Cleaner) apply(fn func(model.Record) (model.Record, error)) (int, error) {
	next := make([]model.Record, 0, len(c.rows))
	for i, r := range c.rows {
		n, err := fn(r)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		next = append(next, n)
	}
	c.rows = next
	return len(next), nil
}

// NormalizeDates rewrites every row's date. It returns the number of rows
// processed.
func (c *Cleaner) NormalizeDates() (int, error) { return c.apply(NormalizeDate) }

// CleanDescriptions cleans every row's description.
func (c *Cleaner) CleanDescriptions() (int, error) { return c.apply(CleanDescription) }

// StandardizeCategories maps every row's category.
func (c *Cleaner) StandardizeCategories() (int, error) { return c.apply(StandardizeCategory) }

// Deduplicate drops repeated events and returns how many were removed.
func (c *Cleaner) Deduplicate() int {
	before := len(c.rows)
	c.rows = RemoveDuplicates(c.rows)
	return before - len(c.rows)
}

// CleanAll runs dates, descriptions, categories and dedup in that order,
// stopping at the first failure. It returns the number of duplicates removed.
func (c *Cleaner) CleanAll() (int, error) {
	if _, err := c.NormalizeDates(); err != nil {
		return 0, fmt.Errorf("normalizing dates: %w", err)
	}
	if _, err := c.CleanDescriptions(); err != nil {
		return 0, fmt.Errorf("cleaning descriptions: %w", err)
	}
	if _, err := c.StandardizeCategories(); err != nil {
		return 0, fmt.Errorf("standardizing categories: %w", err)
	}
	return c.Deduplicate(), nil
}

// Transactions returns a copy of the current rows.
func (c *Cleaner) Transactions() []model.Record {
	out := make([]model.Record, len(c.rows))
	for i, r := range c.rows {
		out[i] = r.Clone()
	}
	return out
}

// Size returns the number of rows held.
func (c *Cleaner) Size() int { return len(c.rows) }

func (c *Cleaner) String() string {
	n := min(3, len(c.rows))
	dates := make([]string, n)
	for i := range n {
		dates[i] = c.rows[i].Text(dateKeys...)
	}
	return fmt.Sprintf("Cleaner(size=%d, sample_dates=[%s])", len(c.rows), strings.Join(dates, ", "))
}
