package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/model"
)

// CreditParams holds the credit-specific settings. APR is a percentage, so
// 19.99 means 19.99%.
type CreditParams struct {
	CreditLimit decimal.Decimal
	APR         decimal.Decimal
}

func DefaultCreditParams() CreditParams {
	return CreditParams{
		CreditLimit: decimal.NewFromInt(3000),
		APR:         decimal.RequireFromString("19.99"),
	}
}

// Credit is a card account where a negative balance is the amount owed.
type Credit struct {
	base
	params        CreditParams
	totalInterest decimal.Decimal
}

func NewCredit(accountID, name, owner string, p CreditParams, opts ...Option) (*Credit, error) {
	if err := nonNegative("credit limit", p.CreditLimit); err != nil {
		return nil, err
	}
	if err := nonNegative("apr", p.APR); err != nil {
		return nil, err
	}
	b, err := newBase(accountID, name, owner, opts)
	if err != nil {
		return nil, err
	}
	return &Credit{base: b, params: p}, nil
}

func (c *Credit) Kind() Kind { return KindCredit }

func (c *Credit) Params() CreditParams { return c.params }

// TotalInterestCharged sums every interest charge posted so far.
func (c *Credit) TotalInterestCharged() decimal.Decimal { return c.totalInterest }

// SetAPR changes the annual percentage rate.
func (c *Credit) SetAPR(apr decimal.Decimal) error {
	if err := nonNegative("apr", apr); err != nil {
		return err
	}
	c.params.APR = apr
	return nil
}

// AvailableFunds is the unused credit. An overpaid (positive) balance adds
// to the limit.
func (c *Credit) AvailableFunds() decimal.Decimal {
	bal := c.Balance()
	if bal.IsNegative() {
		return decimal.Max(decimal.Zero, c.params.CreditLimit.Sub(bal.Abs()))
	}
	return c.params.CreditLimit.Add(bal)
}

// ApplyMonthlyFees charges a month of interest on the amount owed, posting
// it as an "Interest" debit.
func (c *Credit) ApplyMonthlyFees() (decimal.Decimal, error) {
	bal := c.Balance()
	if !bal.IsNegative() {
		return decimal.Zero, nil
	}
	interest := bal.Abs().Mul(c.params.APR).Div(decimal.NewFromInt(1200)).Round(2)
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}
	if _, err := c.post(id.Generated(id.PrefixInterest, c.now()), interest, "Interest", "Monthly interest charge"); err != nil {
		return decimal.Zero, fmt.Errorf("posting interest: %w", err)
	}
	c.totalInterest = c.totalInterest.Add(interest)
	return interest, nil
}

func (c *Credit) CanWithdraw(amount decimal.Decimal) (bool, string) {
	if !amount.IsPositive() {
		return false, "Amount must be positive"
	}
	available := c.AvailableFunds()
	if amount.GreaterThan(available) {
		return false, "Exceeds credit limit. Available credit: " + model.FormatMoney(available)
	}
	return true, ""
}

func (c *Credit) AddTransaction(txn model.Transaction) error { return c.add(txn) }

func (c *Credit) String() string {
	owed := decimal.Zero
	if bal := c.Balance(); bal.IsNegative() {
		owed = bal.Abs()
	}
	return fmt.Sprintf("CreditAccount: %s (Owed: %s, Limit: %s)",
		c.name, model.FormatMoney(owed), model.FormatMoney(c.params.CreditLimit))
}
