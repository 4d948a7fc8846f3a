package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig    = errors.New("invalid account configuration")
	ErrAccountMismatch  = errors.New("transaction belongs to another account")
	ErrWithdrawalDenied = errors.New("withdrawal denied")
	ErrDuplicateCheck   = errors.New("check number already written")
	ErrNoAccount        = errors.New("no account registered")
)

// MismatchError is returned when a transaction is added to an account other
// than the one it names.
type MismatchError struct {
	TxnID     string
	TxnAcct   string
	AccountID string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("transaction %s belongs to account %s, not %s", e.TxnID, e.TxnAcct, e.AccountID)
}

func (e *MismatchError) Unwrap() error { return ErrAccountMismatch }

// WithdrawalError carries the human-readable reason a debit was refused.
type WithdrawalError struct {
	Reason string
}

func (e *WithdrawalError) Error() string { return "withdrawal denied: " + e.Reason }

func (e *WithdrawalError) Unwrap() error { return ErrWithdrawalDenied }

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
