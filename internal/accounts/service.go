package accounts

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/fintrack/internal/model"
)

// Service provides in-memory lookup over a set of accounts.
type Service struct {
	accounts []Account
	byID     map[string]Account
}

// NewService creates a Service from accounts. Account IDs must be unique.
func NewService(accounts ...Account) (*Service, error) {
	byID := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		if _, dup := byID[a.ID()]; dup {
			return nil, invalidConfig("duplicate account id %q", a.ID())
		}
		byID[a.ID()] = a
	}
	return &Service{accounts: accounts, byID: byID}, nil
}

// All returns all accounts in registration order.
func (s *Service) All() []Account {
	return append([]Account(nil), s.accounts...)
}

// Get returns an account by ID.
func (s *Service) Get(id string) (Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByKind returns all accounts of the given kind.
func (s *Service) ByKind(kind Kind) []Account {
	var result []Account
	for _, a := range s.accounts {
		if a.Kind() == kind {
			result = append(result, a)
		}
	}
	return result
}

// KindFor guesses the account kind from a statement's free-text account
// label: anything mentioning "sav" is savings, "cred", "visa" or "card" is
// credit, and everything else is checking.
func KindFor(label string) Kind {
	k := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(k, "sav"):
		return KindSavings
	case strings.Contains(k, "cred"), strings.Contains(k, "visa"), strings.Contains(k, "card"):
		return KindCredit
	default:
		return KindChecking
	}
}

// Route picks the account a cleaned record belongs to, using the first
// registered account of the record's kind.
func (s *Service) Route(rec model.Record) (Account, error) {
	kind := KindFor(rec.Text("account", "Account"))
	matches := s.ByKind(kind)
	if len(matches) == 0 {
		return nil, fmt.Errorf("routing to %s: %w", kind, ErrNoAccount)
	}
	return matches[0], nil
}

// Transactions returns every account's transactions, account by account.
func (s *Service) Transactions() []model.Transaction {
	var out []model.Transaction
	for _, a := range s.accounts {
		out = append(out, a.Transactions()...)
	}
	return out
}
