package cleaner

import (
	"strings"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Key identifies one economic event. Two records with equal keys are
// duplicates.
type Key struct {
	Date        string
	Cents       int64
	Description string
	Category    string
	Account     string
}

// DedupKey derives r's key from its canonical view without modifying r.
// A field that fails to normalize falls back to its trimmed raw value so
// partially malformed batches can still be deduplicated.
func DedupKey(r model.Record) Key {
	var k Key

	if n, err := NormalizeDate(r); err == nil {
		k.Date = n.Text("date")
	} else {
		k.Date = strings.TrimSpace(r.Text(dateKeys...))
	}

	if n, err := CleanDescription(r); err == nil {
		k.Description = n.Text("description")
	} else {
		k.Description = strings.TrimSpace(r.Text(descriptionKeys...))
	}
	k.Description = strings.ToLower(k.Description)

	if n, err := StandardizeCategory(r); err == nil {
		k.Category = n.Text("category")
	} else {
		k.Category = strings.TrimSpace(r.Text(categoryKeys...))
	}

	if v, ok := r.Lookup(amountKeys...); ok {
		if amt, err := model.ParseAmount(v); err == nil {
			k.Cents = amt.Shift(2).Round(0).IntPart()
		}
	}

	k.Account = strings.ToLower(strings.TrimSpace(r.Text(accountKeys...)))
	return k
}

// RemoveDuplicates returns the records whose key has not been seen earlier in
// the slice, in input order. The kept records are the originals, not their
// cleaned forms.
func RemoveDuplicates(records []model.Record) []model.Record {
	seen := make(map[Key]struct{}, len(records))
	unique := make([]model.Record, 0, len(records))
	for _, r := range records {
		k := DedupKey(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
