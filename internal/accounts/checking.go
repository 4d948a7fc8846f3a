package accounts

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// CheckingParams holds the checking-specific settings.
type CheckingParams struct {
	OverdraftLimit decimal.Decimal
	MonthlyFee     decimal.Decimal
	MinimumBalance decimal.Decimal
}

// DefaultCheckingParams returns no overdraft and a $10 fee below $500.
func DefaultCheckingParams() CheckingParams {
	return CheckingParams{
		OverdraftLimit: decimal.Zero,
		MonthlyFee:     decimal.NewFromInt(10),
		MinimumBalance: decimal.NewFromInt(500),
	}
}

// Checking allows spending into an overdraft and charges a flat monthly fee
// when the balance is under the minimum.
type Checking struct {
	base
	params CheckingParams
	checks []int
}

func NewChecking(accountID, name, owner string, p CheckingParams, opts ...Option) (*Checking, error) {
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"overdraft limit", p.OverdraftLimit},
		{"monthly fee", p.MonthlyFee},
		{"minimum balance", p.MinimumBalance},
	} {
		if err := nonNegative(f.name, f.v); err != nil {
			return nil, err
		}
	}
	b, err := newBase(accountID, name, owner, opts)
	if err != nil {
		return nil, err
	}
	return &Checking{base: b, params: p}, nil
}

func (c *Checking) Kind() Kind { return KindChecking }

func (c *Checking) Params() CheckingParams { return c.params }

// AvailableFunds is the balance plus the overdraft limit.
func (c *Checking) AvailableFunds() decimal.Decimal {
	return c.Balance().Add(c.params.OverdraftLimit)
}

// ApplyMonthlyFees posts the monthly fee as a "Bank Fees" debit when the
// balance is below the minimum, and returns the amount charged.
func (c *Checking) ApplyMonthlyFees() (decimal.Decimal, error) {
	if !c.params.MonthlyFee.IsPositive() || !c.Balance().LessThan(c.params.MinimumBalance) {
		return decimal.Zero, nil
	}
	_, err := c.post(id.Generated(id.PrefixFee, c.now()), c.params.MonthlyFee, "Bank Fees", "Monthly maintenance fee")
	if err != nil {
		return decimal.Zero, fmt.Errorf("posting monthly fee: %w", err)
	}
	return c.params.MonthlyFee, nil
}

func (c *Checking) CanWithdraw(amount decimal.Decimal) (bool, string) {
	if !amount.IsPositive() {
		return false, "Amount must be positive"
	}
	available := c.AvailableFunds()
	if amount.GreaterThan(available) {
		return false, "Insufficient funds. Available: " + model.FormatMoney(available)
	}
	return true, ""
}

func (c *Checking) AddTransaction(txn model.Transaction) error { return c.add(txn) }

// WriteCheck posts a "Check Payment" debit for a check number that has not
// been used before.
func (c *Checking) WriteCheck(number int, amount decimal.Decimal, payee string) (model.Transaction, error) {
	if slices.Contains(c.checks, number) {
		return model.Transaction{}, fmt.Errorf("check #%d: %w", number, ErrDuplicateCheck)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, &WithdrawalError{Reason: "Check amount must be positive"}
	}
	if ok, reason := c.CanWithdraw(amount); !ok {
		return model.Transaction{}, &WithdrawalError{Reason: reason}
	}
	txn, err := c.post(id.PrefixCheck+strconv.Itoa(number), amount, "Check Payment", fmt.Sprintf("Check #%d to %s", number, payee))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("writing check #%d: %w", number, err)
	}
	c.checks = append(c.checks, number)
	return txn, nil
}

// ChecksWritten returns the check numbers used so far.
func (c *Checking) ChecksWritten() []int { return slices.Clone(c.checks) }

func (c *Checking) HasOverdraftProtection() bool { return c.params.OverdraftLimit.IsPositive() }

// OverdraftUsage is how far the balance is below zero.
func (c *Checking) OverdraftUsage() decimal.Decimal {
	if bal := c.Balance(); bal.IsNegative() {
		return bal.Abs()
	}
	return decimal.Zero
}

func (c *Checking) String() string {
	return fmt.Sprintf("CheckingAccount: %s (Balance: %s, Available: %s)",
		c.name, model.FormatMoney(c.Balance()), model.FormatMoney(c.AvailableFunds()))
}
