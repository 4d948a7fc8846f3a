package accounts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/model"
)

// SavingsParams holds the savings-specific settings. InterestRate is annual,
// so 0.04 means 4%.
type SavingsParams struct {
	InterestRate           decimal.Decimal
	MinimumBalance         decimal.Decimal
	MonthlyWithdrawalLimit int
	LowBalanceFee          decimal.Decimal
}

func DefaultSavingsParams() SavingsParams {
	return SavingsParams{
		InterestRate:           decimal.RequireFromString("0.04"),
		MinimumBalance:         decimal.NewFromInt(100),
		MonthlyWithdrawalLimit: 6,
		LowBalanceFee:          decimal.NewFromInt(15),
	}
}

type yearMonth struct {
	year  int
	month time.Month
}

// Savings keeps a minimum balance and limits withdrawals per calendar month.
// Interest and fees are reported by ApplyMonthlyFees but never posted.
type Savings struct {
	base
	params SavingsParams

	withdrawals    int
	lastWithdrawal yearMonth
}

func NewSavings(accountID, name, owner string, p SavingsParams, opts ...Option) (*Savings, error) {
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"interest rate", p.InterestRate},
		{"minimum balance", p.MinimumBalance},
		{"monthly withdrawal limit", decimal.NewFromInt(int64(p.MonthlyWithdrawalLimit))},
		{"low balance fee", p.LowBalanceFee},
	} {
		if err := nonNegative(f.name, f.v); err != nil {
			return nil, err
		}
	}
	b, err := newBase(accountID, name, owner, opts)
	if err != nil {
		return nil, err
	}
	return &Savings{base: b, params: p}, nil
}

func (s *Savings) Kind() Kind { return KindSavings }

func (s *Savings) Params() SavingsParams { return s.params }

// SetInterestRate changes the annual rate.
func (s *Savings) SetInterestRate(rate decimal.Decimal) error {
	if err := nonNegative("interest rate", rate); err != nil {
		return err
	}
	s.params.InterestRate = rate
	return nil
}

// AvailableFunds is what can be withdrawn without dipping below the minimum.
func (s *Savings) AvailableFunds() decimal.Decimal {
	return decimal.Max(decimal.Zero, s.Balance().Sub(s.params.MinimumBalance))
}

// ApplyMonthlyFees returns the month's interest as a negative amount when the
// balance meets the minimum, otherwise the low-balance fee. Nothing is
// posted to the account.
func (s *Savings) ApplyMonthlyFees() (decimal.Decimal, error) {
	bal := s.Balance()
	if bal.LessThan(s.params.MinimumBalance) {
		return s.params.LowBalanceFee, nil
	}
	interest := bal.Mul(s.params.InterestRate).Div(decimal.NewFromInt(12)).Round(2)
	return interest.Neg(), nil
}

func (s *Savings) resetIfNewMonth() {
	y, m, _ := s.now().Date()
	if (yearMonth{y, m}) != s.lastWithdrawal {
		s.withdrawals = 0
	}
}

func (s *Savings) CanWithdraw(amount decimal.Decimal) (bool, string) {
	if !amount.IsPositive() {
		return false, "Withdrawal amount must be positive"
	}
	s.resetIfNewMonth()
	if s.withdrawals >= s.params.MonthlyWithdrawalLimit {
		return false, fmt.Sprintf("Monthly withdrawal limit reached (%d). Resets next month.", s.params.MonthlyWithdrawalLimit)
	}
	available := s.AvailableFunds()
	if amount.GreaterThan(available) {
		return false, fmt.Sprintf("Insufficient funds. Available: %s (%s minimum balance required)",
			model.FormatMoney(available), model.FormatMoney(s.params.MinimumBalance))
	}
	return true, ""
}

// AddTransaction accepts deposits freely. Withdrawals must pass CanWithdraw
// and count against the monthly limit once accepted.
func (s *Savings) AddTransaction(txn model.Transaction) error {
	if txn.AccountID() != s.id {
		return &MismatchError{TxnID: txn.ID(), TxnAcct: txn.AccountID(), AccountID: s.id}
	}
	if !txn.IsExpense() {
		return s.add(txn)
	}
	if ok, reason := s.CanWithdraw(txn.Amount()); !ok {
		return &WithdrawalError{Reason: reason}
	}
	if err := s.add(txn); err != nil {
		return err
	}
	y, m, _ := s.now().Date()
	s.withdrawals++
	s.lastWithdrawal = yearMonth{y, m}
	return nil
}

// WithdrawalsRemaining is how many more withdrawals this month allows.
func (s *Savings) WithdrawalsRemaining() int {
	s.resetIfNewMonth()
	return max(0, s.params.MonthlyWithdrawalLimit-s.withdrawals)
}

// AnnualYield projects a year of interest on the current balance.
func (s *Savings) AnnualYield() decimal.Decimal {
	return s.Balance().Mul(s.params.InterestRate).Round(2)
}

func (s *Savings) String() string {
	return fmt.Sprintf("SavingsAccount: %s (Balance: %s, Rate: %s%%, Withdrawals left: %d)",
		s.name, model.FormatMoney(s.Balance()), s.params.InterestRate.Shift(2).String(), s.WithdrawalsRemaining())
}
