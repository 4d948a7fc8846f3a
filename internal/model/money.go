package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMoney renders d as "$1,234.56", or "-$1,234.56" when negative.
func FormatMoney(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	f := d.Abs().Round(2).InexactFloat64()
	if d.Round(2).IsNegative() {
		return p.Sprintf("-$%.2f", f)
	}
	return p.Sprintf("$%.2f", f)
}
