// Package alert flags cleaned records that look unusual.
package alert

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/config"
	"github.com/cleared-dev/fintrack/internal/model"
)

const unknownMerchant = "Unknown merchant"

// Rule inspects one cleaned record. Check returns a message and true when the
// record should be flagged. Rules never fail; records they cannot interpret
// are skipped.
type Rule interface {
	Name() string
	Describe() string
	Check(rec model.Record) (string, bool)
}

// absAmount reads the record's amount. ok is false when it is missing or not
// a number.
func absAmount(rec model.Record) (decimal.Decimal, bool) {
	v, ok := rec.Lookup("amount", "Amount")
	if !ok {
		return decimal.Zero, false
	}
	amt, err := model.ParseAmount(v)
	if err != nil {
		return decimal.Zero, false
	}
	return amt.Abs(), true
}

func merchant(rec model.Record) string {
	if _, ok := rec["description"]; !ok {
		return unknownMerchant
	}
	return rec.Text("description")
}

// LargeTransactionRule flags any record whose absolute amount is at least
// Threshold.
type LargeTransactionRule struct {
	Threshold decimal.Decimal
}

func NewLargeTransactionRule(threshold decimal.Decimal) *LargeTransactionRule {
	return &LargeTransactionRule{Threshold: threshold}
}

func (r *LargeTransactionRule) Name() string { return "Large Transaction" }

func (r *LargeTransactionRule) Describe() string {
	return fmt.Sprintf("Rule: %s (threshold ≥ %s)", r.Name(), r.Threshold.StringFixed(2))
}

func (r *LargeTransactionRule) Check(rec model.Record) (string, bool) {
	amt, ok := absAmount(rec)
	if !ok || amt.LessThan(r.Threshold) {
		return "", false
	}
	return fmt.Sprintf("%s: $%s on %s at %s", r.Name(), amt.StringFixed(2), rec.Text("date"), merchant(rec)), true
}

// CategoryLimitRule flags a single record in Category whose absolute amount
// exceeds Limit. The category must match exactly.
type CategoryLimitRule struct {
	Category string
	Limit    decimal.Decimal
}

func NewCategoryLimitRule(category string, limit decimal.Decimal) *CategoryLimitRule {
	return &CategoryLimitRule{Category: category, Limit: limit}
}

func (r *CategoryLimitRule) Name() string { return r.Category + " per-transaction limit" }

func (r *CategoryLimitRule) Describe() string { return "Rule: " + r.Name() }

func (r *CategoryLimitRule) Check(rec model.Record) (string, bool) {
	if rec.Text("category") != r.Category {
		return "", false
	}
	amt, ok := absAmount(rec)
	if !ok || !amt.GreaterThan(r.Limit) {
		return "", false
	}
	return fmt.Sprintf("%s exceeded: $%s on %s (%s)", r.Name(), amt.StringFixed(2), rec.Text("date"), merchant(rec)), true
}

// SuspiciousMerchantRule flags records whose description contains any of
// its keywords, ignoring case. Only the first matching keyword is reported.
type SuspiciousMerchantRule struct {
	keywords []string
}

func NewSuspiciousMerchantRule(keywords []string) *SuspiciousMerchantRule {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &SuspiciousMerchantRule{keywords: lowered}
}

// Keywords returns the lower-cased keywords.
func (r *SuspiciousMerchantRule) Keywords() []string {
	return append([]string(nil), r.keywords...)
}

func (r *SuspiciousMerchantRule) Name() string { return "Suspicious merchant/description" }

func (r *SuspiciousMerchantRule) Describe() string { return "Rule: " + r.Name() }

func (r *SuspiciousMerchantRule) Check(rec model.Record) (string, bool) {
	desc := rec.Text("description")
	lower := strings.ToLower(desc)
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return fmt.Sprintf("%s: matched '%s' in '%s' on %s", r.Name(), kw, desc, rec.Text("date")), true
		}
	}
	return "", false
}

// DefaultRules returns the rule set used when none is configured: large
// transactions from $500, Dining above $120, and a few suspicious keywords.
func DefaultRules() []Rule {
	return []Rule{
		NewLargeTransactionRule(decimal.NewFromInt(500)),
		NewCategoryLimitRule("Dining", decimal.NewFromInt(120)),
		NewSuspiciousMerchantRule([]string{"unknown", "cash app", "money transfer"}),
	}
}

// RulesFromConfig builds rules from the alerts section of the config. A zero
// large-transaction threshold disables that rule and an empty keyword list
// disables the merchant rule.
func RulesFromConfig(cfg config.AlertsConfig) []Rule {
	rules := []Rule{}
	if cfg.LargeTransaction > 0 {
		rules = append(rules, NewLargeTransactionRule(decimal.NewFromFloat(cfg.LargeTransaction)))
	}
	for _, cl := range cfg.CategoryLimits {
		rules = append(rules, NewCategoryLimitRule(strings.TrimSpace(cl.Category), decimal.NewFromFloat(cl.Limit)))
	}
	if len(cfg.SuspiciousKeywords) > 0 {
		rules = append(rules, NewSuspiciousMerchantRule(cfg.SuspiciousKeywords))
	}
	return rules
}
