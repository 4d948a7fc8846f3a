package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountNotNumeric is returned when an amount value cannot be read as a
// number at all, as opposed to a number that is out of range.
var ErrAmountNotNumeric = errors.New("amount is not numeric")

// ParseAmount converts a loose record value into a decimal. Strings may carry
// a currency symbol and thousands separators ("-$1,200.00").
func ParseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrAmountNotNumeric, x)
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return ParseAmount(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.ReplaceAll(s, "$", "")
		s = strings.ReplaceAll(s, ",", "")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountNotNumeric, x)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrAmountNotNumeric, v)
	}
}
