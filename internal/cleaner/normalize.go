package cleaner

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleared-dev/fintrack/internal/model"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrEmptyValue      = errors.New("empty value")
	ErrUnparseableDate = errors.New("unsupported date format")
)

// FieldError reports which normalizer failed on which field.
type FieldError struct {
	Op    string
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", e.Op, e.Field, model.Text(e.Value), e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var (
	dateKeys        = []string{"date", "Date"}
	descriptionKeys = []string{"description", "Description", "source"}
	categoryKeys    = []string{"category", "Category"}
	amountKeys      = []string{"amount", "Amount"}
	accountKeys     = []string{"account", "Account"}
)

// Accepted input layouts, tried in order. Go's non-padded verbs also accept
// zero-padded input, so "9/1/2025" and "09/01/2025" both parse.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"1-2-2006",
}

// NormalizeDate returns a copy of r with "date" rewritten as YYYY-MM-DD and
// "Date" removed.
func NormalizeDate(r model.Record) (model.Record, error) {
	const op = "normalize date"

	raw, ok := r.Lookup(dateKeys...)
	if !ok {
		return nil, &FieldError{Op: op, Field: "date", Err: ErrMissingField}
	}
	s := strings.TrimSpace(model.Text(raw))
	if s == "" {
		return nil, &FieldError{Op: op, Field: "date", Err: ErrEmptyValue}
	}

	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		if parsed, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return nil, &FieldError{Op: op, Field: "date", Value: raw, Err: ErrUnparseableDate}
	}

	out := r.Clone()
	out["date"] = parsed.Format(model.DateFormat)
	delete(out, "Date")
	return out, nil
}

// CleanDescription returns a copy of r with whitespace collapsed and one
// trailing reference code ("#123", "TRN0001", "ORD-9981") removed.
func CleanDescription(r model.Record) (model.Record, error) {
	const op = "clean description"

	raw, ok := r.Lookup(descriptionKeys...)
	if !ok {
		return nil, &FieldError{Op: op, Field: "description", Err: ErrMissingField}
	}
	tokens := strings.Fields(model.Text(raw))
	if len(tokens) == 0 {
		return nil, &FieldError{Op: op, Field: "description", Err: ErrEmptyValue}
	}

	if isReferenceCode(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, &FieldError{Op: op, Field: "description", Value: raw, Err: ErrEmptyValue}
	}

	out := r.Clone()
	out["description"] = strings.Join(tokens, " ")
	delete(out, "Description")
	delete(out, "source")
	return out, nil
}

func isReferenceCode(tok string) bool {
	if strings.HasPrefix(tok, "#") || strings.Contains(tok, "-") {
		return true
	}
	digits := 0
	for _, r := range tok {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 3
}

var categorySynonyms = map[string]string{
	"subscription": "Subscription", "subscriptions": "Subscription", "subs": "Subscription", "subscr": "Subscription",
	"bill": "Bills", "bills": "Bills",
	"food": "Food", "dining": "Food", "restaurant": "Food", "coffee": "Food", "cafe": "Food", "cafes": "Food",
	"groceries": "Groceries", "grocery": "Groceries",
	"entertainment": "Entertainment",
	"transport": "Transportation", "transportation": "Transportation", "uber": "Transportation",
	"lyft": "Transportation", "gas": "Transportation", "fuel": "Transportation",
	"utilities": "Utilities", "internet": "Utilities", "electric": "Utilities", "water": "Utilities",
	"health": "Healthcare", "healthcare": "Healthcare",
	"shopping": "Shopping", "retail": "Shopping",
	"debt": "Debt", "loan": "Debt",
	"income": "Income", "salary": "Income",
	"other": "Other",
}

// Substring fallbacks, checked in order after the exact table misses.
var categoryFragments = []struct {
	fragments []string
	category  string
}{
	{[]string{"subscr"}, "Subscription"},
	{[]string{"groc"}, "Groceries"},
	{[]string{"restaur", "dining", "cafe", "coffee", "food"}, "Food"},
	{[]string{"transport", "uber", "lyft", "gas", "fuel"}, "Transportation"},
	{[]string{"utilit", "internet", "electric", "water"}, "Utilities"},
	{[]string{"retail", "shop"}, "Shopping"},
	{[]string{"health", "care"}, "Healthcare"},
	{[]string{"loan", "debt"}, "Debt"},
	{[]string{"salary", "pay", "income"}, "Income"},
}

// StandardizeCategory returns a copy of r with "category" mapped onto the
// canonical vocabulary, or title-cased when nothing matches.
func StandardizeCategory(r model.Record) (model.Record, error) {
	const op = "standardize category"

	raw, ok := r.Lookup(categoryKeys...)
	if !ok {
		return nil, &FieldError{Op: op, Field: "category", Err: ErrMissingField}
	}
	trimmed := strings.TrimSpace(model.Text(raw))
	if trimmed == "" {
		return nil, &FieldError{Op: op, Field: "category", Err: ErrEmptyValue}
	}

	out := r.Clone()
	out["category"] = canonicalCategory(trimmed)
	delete(out, "Category")
	return out, nil
}

func canonicalCategory(trimmed string) string {
	s := strings.ToLower(trimmed)
	if std, ok := categorySynonyms[s]; ok {
		return std
	}
	for _, f := range categoryFragments {
		for _, frag := range f.fragments {
			if strings.Contains(s, frag) {
				return f.category
			}
		}
	}
	return cases.Title(language.Und).String(trimmed)
}
