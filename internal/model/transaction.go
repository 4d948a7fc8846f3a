package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	Debit  TransactionType = "debit"  // money out
	Credit TransactionType = "credit" // money in
)

const (
	// DateFormat is the canonical ISO date layout.
	DateFormat = "2006-01-02"
	// MaxDescriptionLen is counted in characters, not bytes.
	MaxDescriptionLen = 500
)

// MaxAmount is the largest accepted transaction amount, inclusive.
var MaxAmount = decimal.NewFromInt(1_000_000)

var (
	ErrInvalidID          = errors.New("transaction id cannot be empty")
	ErrInvalidAmount      = errors.New("amount must be positive and at most 1,000,000")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD and not in the future")
	ErrInvalidCategory    = errors.New("category cannot be empty")
	ErrInvalidAccount     = errors.New("account id cannot be empty")
	ErrInvalidType        = errors.New("transaction type must be debit or credit")
	ErrDescriptionTooLong = errors.New("description cannot exceed 500 characters")
)

// ValidationError reports the first field that failed transaction validation.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, Text(e.Value), e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransactionParams holds the inputs to NewTransaction.
type TransactionParams struct {
	ID          string
	Amount      decimal.Decimal
	Date        string // YYYY-MM-DD
	Category    string
	AccountID   string
	Type        TransactionType
	Description string
}

// Transaction is one validated financial event. It is immutable once built;
// fields are only reachable through getters.
type Transaction struct {
	id          string
	amount      decimal.Decimal
	date        time.Time
	category    string
	accountID   string
	txnType     TransactionType
	description string
}

// NewTransaction validates params in a fixed order (id, amount, date,
// category, account, type, description) and returns the first failure.
func NewTransaction(p TransactionParams) (Transaction, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return Transaction{}, &ValidationError{Field: "id", Value: p.ID, Err: ErrInvalidID}
	}

	if !p.Amount.IsPositive() || p.Amount.GreaterThan(MaxAmount) {
		return Transaction{}, &ValidationError{Field: "amount", Value: p.Amount, Err: ErrInvalidAmount}
	}

	date, err := parseTransactionDate(strings.TrimSpace(p.Date), time.Now())
	if err != nil {
		return Transaction{}, &ValidationError{Field: "date", Value: p.Date, Err: ErrInvalidDate}
	}

	category := strings.TrimSpace(p.Category)
	if category == "" {
		return Transaction{}, &ValidationError{Field: "category", Value: p.Category, Err: ErrInvalidCategory}
	}

	accountID := strings.TrimSpace(p.AccountID)
	if accountID == "" {
		return Transaction{}, &ValidationError{Field: "account_id", Value: p.AccountID, Err: ErrInvalidAccount}
	}

	if p.Type != Debit && p.Type != Credit {
		return Transaction{}, &ValidationError{Field: "type", Value: string(p.Type), Err: ErrInvalidType}
	}

	if utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		return Transaction{}, &ValidationError{Field: "description", Value: truncate(p.Description, 40), Err: ErrDescriptionTooLong}
	}

	return Transaction{
		id:          id,
		amount:      p.Amount,
		date:        date,
		category:    category,
		accountID:   accountID,
		txnType:     p.Type,
		description: strings.TrimSpace(p.Description),
	}, nil
}

func parseTransactionDate(s string, now time.Time) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, fmt.Errorf("date %s is in the future", s)
	}
	return d, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (t Transaction) ID() string { return t.id }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Date() time.Time { return t.date }
func (t Transaction) Category() string { return t.category }
func (t Transaction) AccountID() string { return t.accountID }
func (t Transaction) Type() TransactionType { return t.txnType }
func (t Transaction) Description() string { return t.description }
func (t Transaction) DateString() string { return t.date.Format(DateFormat) }
func (t Transaction) IsExpense() bool { return t.txnType == Debit }
func (t Transaction) IsIncome() bool { return t.txnType == Credit }
func (t Transaction) Before(other Transaction) bool { return t.date.Before(other.date) }

// SignedAmount is +amount for credits and -amount for debits.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.txnType == Credit {
		return t.amount
	}
	return t.amount.Neg()
}

// MatchesCategory compares categories case-insensitively.
func (t Transaction) MatchesCategory(category string) bool {
	return strings.EqualFold(t.category, strings.TrimSpace(category))
}

// MonthYear returns the transaction's year and month.
func (t Transaction) MonthYear() (int, time.Month) {
	return t.date.Year(), t.date.Month()
}

// String renders "2025-10-15: -$50.00 - Food (Lunch)".
func (t Transaction) String() string {
	sign := "-"
	if t.txnType == Credit {
		sign = "+"
	}
	desc := ""
	if t.description != "" {
		desc = " (" + t.description + ")"
	}
	return fmt.Sprintf("%s: %s$%s - %s%s", t.DateString(), sign, t.amount.StringFixed(2), t.category, desc)
}
