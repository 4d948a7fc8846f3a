package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/config"
)

// DefaultAccounts returns checking (ACC_CHECK, $500 overdraft), savings
// (ACC_SAVE, $100 minimum) and credit (ACC_CREDIT, $3,000 at 19.99%) for
// owner.
func DefaultAccounts(owner string, opts ...Option) (*Service, error) {
	return FromConfig(config.Default(owner), opts...)
}

// FromConfig builds the three accounts described by cfg.
func FromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	ac := cfg.Accounts

	checking, err := NewChecking(ac.Checking.ID, ac.Checking.Name, cfg.Owner, CheckingParams{
		OverdraftLimit: decimal.NewFromFloat(ac.Checking.OverdraftLimit),
		MonthlyFee:     decimal.NewFromFloat(ac.Checking.MonthlyFee),
		MinimumBalance: decimal.NewFromFloat(ac.Checking.MinimumBalance),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating checking account: %w", err)
	}

	savings, err := NewSavings(ac.Savings.ID, ac.Savings.Name, cfg.Owner, SavingsParams{
		InterestRate:           decimal.NewFromFloat(ac.Savings.InterestRate),
		MinimumBalance:         decimal.NewFromFloat(ac.Savings.MinimumBalance),
		MonthlyWithdrawalLimit: ac.Savings.MonthlyWithdrawalLimit,
		LowBalanceFee:          decimal.NewFromFloat(ac.Savings.LowBalanceFee),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating savings account: %w", err)
	}

	credit, err := NewCredit(ac.Credit.ID, ac.Credit.Name, cfg.Owner, CreditParams{
		CreditLimit: decimal.NewFromFloat(ac.Credit.CreditLimit),
		APR:         decimal.NewFromFloat(ac.Credit.APR),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating credit account: %w", err)
	}

	return NewService(checking, savings, credit)
}
