package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Record is one loosely keyed statement row. Keys may arrive in any casing
// ("Date" or "date") and values are strings or numbers.
type Record map[string]any

// Clone returns a shallow copy. Values are scalars, so this is a full copy in
// practice.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Lookup returns the value of the first key present in r, even when that
// value is nil.
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// Text returns the first present key's value rendered as a string, or "".
func (r Record) Text(keys ...string) string {
	v, _ := r.Lookup(keys...)
	return Text(v)
}

// Text renders a scalar record value. nil becomes "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
