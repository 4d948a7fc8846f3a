// Package accounts models checking, savings and credit accounts that own
// their transactions and compute balances, fees and interest.
package accounts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Kind identifies an account variant.
type Kind string

const (
	KindChecking Kind = "checking"
	KindSavings  Kind = "savings"
	KindCredit   Kind = "credit"
)

// Account is implemented only by *Checking, *Savings and *Credit.
//
// ApplyMonthlyFees returns a positive amount when the owner is charged and a
// negative one when the owner earns interest. CanWithdraw returns a reason
// whenever it refuses.
type Account interface {
	ID() string
	Name() string
	Owner() string
	CreatedAt() time.Time
	Kind() Kind

	Balance() decimal.Decimal
	Transactions() []model.Transaction
	TransactionsBetween(start, end time.Time) []model.Transaction

	AvailableFunds() decimal.Decimal
	ApplyMonthlyFees() (decimal.Decimal, error)
	CanWithdraw(amount decimal.Decimal) (bool, string)
	AddTransaction(txn model.Transaction) error

	String() string

	sealed()
}

// Option configures an account at construction.
type Option func(*base)

// WithClock replaces time.Now for month rollover and posting dates.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// base holds the state every variant shares. Balance is never stored; it is
// always the sum of the owned transactions.
type base struct {
	id      string
	name    string
	owner   string
	created time.Time
	now     func() time.Time
	txns    []model.Transaction
}

func newBase(id, name, owner string, opts []Option) (base, error) {
	b := base{
		id:    strings.TrimSpace(id),
		name:  strings.TrimSpace(name),
		owner: strings.TrimSpace(owner),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	switch {
	case b.id == "":
		return base{}, invalidConfig("account id cannot be empty")
	case b.name == "":
		return base{}, invalidConfig("account name cannot be empty")
	case b.owner == "":
		return base{}, invalidConfig("owner cannot be empty")
	}
	b.created = b.now()
	return b, nil
}

func (b *base) sealed() {}

func (b *base) ID() string           { return b.id }
func (b *base) Name() string         { return b.name }
func (b *base) Owner() string        { return b.owner }
func (b *base) CreatedAt() time.Time { return b.created }

func (b *base) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.txns {
		total = total.Add(t.SignedAmount())
	}
	return total
}

// Transactions returns a copy of the owned transactions in posting order.
func (b *base) Transactions() []model.Transaction {
	return append([]model.Transaction(nil), b.txns...)
}

// TransactionsBetween returns transactions dated within [start, end],
// compared by calendar day.
func (b *base) TransactionsBetween(start, end time.Time) []model.Transaction {
	from := start.Format(model.DateFormat)
	to := end.Format(model.DateFormat)
	var out []model.Transaction
	for _, t := range b.txns {
		if d := t.DateString(); d >= from && d <= to {
			out = append(out, t)
		}
	}
	return out
}

func (b *base) add(txn model.Transaction) error {
	if txn.AccountID() != b.id {
		return &MismatchError{TxnID: txn.ID(), TxnAcct: txn.AccountID(), AccountID: b.id}
	}
	b.txns = append(b.txns, txn)
	return nil
}

// post records a transaction the account generates itself, such as a fee.
func (b *base) post(id string, amount decimal.Decimal, category, description string) (model.Transaction, error) {
	txn, err := model.NewTransaction(model.TransactionParams{
		ID:          id,
		Amount:      amount,
		Date:        b.now().Format(model.DateFormat),
		Category:    category,
		AccountID:   b.id,
		Type:        model.Debit,
		Description: description,
	})
	if err != nil {
		return model.Transaction{}, err
	}
	if err := b.add(txn); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

func nonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalidConfig("%s cannot be negative (got %s)", name, v)
	}
	return nil
}
