// Package report summarizes account state after an ingest run.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/model"
)

// RecentLimit is how many transactions Build keeps in Recent.
const RecentLimit = 10

type AccountSummary struct {
	ID        string
	Name      string
	Kind      accounts.Kind
	Balance   decimal.Decimal
	Available decimal.Decimal
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Insights is a point-in-time view across every account.
type Insights struct {
	Accounts []AccountSummary
	Richest  *AccountSummary // nil when there are no accounts
	Recent   []model.Transaction
	Inflows  []CategoryTotal
	Outflows []CategoryTotal
}

// Build computes balances, the richest account, the most recent
// transactions, and inflows and outflows by category. Ties keep registration
// order.
func Build(svc *accounts.Service) Insights {
	var in Insights
	for _, a := range svc.All() {
		in.Accounts = append(in.Accounts, AccountSummary{
			ID:        a.ID(),
			Name:      a.Name(),
			Kind:      a.Kind(),
			Balance:   a.Balance(),
			Available: a.AvailableFunds(),
		})
	}
	for i := range in.Accounts {
		if in.Richest == nil || in.Accounts[i].Balance.GreaterThan(in.Richest.Balance) {
			in.Richest = &in.Accounts[i]
		}
	}

	all := svc.Transactions()
	slices.SortStableFunc(all, func(a, b model.Transaction) int {
		return b.Date().Compare(a.Date())
	})
	in.Recent = all[:min(RecentLimit, len(all))]

	in.Inflows, in.Outflows = categoryTotals(all)
	return in
}

func categoryTotals(txns []model.Transaction) (inflows, outflows []CategoryTotal) {
	add := func(totals []CategoryTotal, category string, amt decimal.Decimal) []CategoryTotal {
		for i := range totals {
			if totals[i].Category == category {
				totals[i].Total = totals[i].Total.Add(amt)
				return totals
			}
		}
		return append(totals, CategoryTotal{Category: category, Total: amt})
	}
	for _, t := range txns {
		if t.SignedAmount().IsPositive() {
			inflows = add(inflows, t.Category(), t.Amount())
		} else {
			outflows = add(outflows, t.Category(), t.Amount())
		}
	}
	byTotal := func(a, b CategoryTotal) int { return b.Total.Cmp(a.Total) }
	slices.SortStableFunc(inflows, byTotal)
	slices.SortStableFunc(outflows, byTotal)
	return inflows, outflows
}

// Write renders alerts followed by the insights as plain text.
func Write(w io.Writer, in Insights, alerts []string) error {
	var b strings.Builder

	b.WriteString("=== ALERTS ===\n")
	if len(alerts) == 0 {
		b.WriteString("No alerts triggered.\n")
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "- %s\n", a)
	}

	b.WriteString("\n=== ACCOUNT BALANCES ===\n")
	for _, a := range in.Accounts {
		fmt.Fprintf(&b, "- %s (%s): balance=%s, available=%s\n",
			a.Name, a.ID, model.FormatMoney(a.Balance), model.FormatMoney(a.Available))
	}

	if in.Richest != nil {
		b.WriteString("\n=== WHICH ACCOUNT HAS THE MOST MONEY? ===\n")
		fmt.Fprintf(&b, "%s has the most: %s\n", in.Richest.Name, model.FormatMoney(in.Richest.Balance))
	}

	fmt.Fprintf(&b, "\n=== MOST RECENT TRANSACTIONS (TOP %d) ===\n", RecentLimit)
	for _, t := range in.Recent {
		fmt.Fprintf(&b, "%s\n", t)
	}

	b.WriteString("\n=== INFLOWS BY CATEGORY ===\n")
	writeTotals(&b, in.Inflows)
	b.WriteString("\n=== OUTFLOWS BY CATEGORY ===\n")
	writeTotals(&b, in.Outflows)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTotals(b *strings.Builder, totals []CategoryTotal) {
	for _, c := range totals {
		fmt.Fprintf(b, "- %s: %s\n", c.Category, model.FormatMoney(c.Total))
	}
}

// Statement renders one account's transactions oldest first with a running
// balance.
func Statement(w io.Writer, a accounts.Account) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", a)

	txns := a.Transactions()
	slices.SortStableFunc(txns, func(x, y model.Transaction) int {
		return x.Date().Compare(y.Date())
	})
	running := decimal.Zero
	for _, t := range txns {
		running = running.Add(t.SignedAmount())
		fmt.Fprintf(&b, "%s  %-10s  %s\n", t.ID(), model.FormatMoney(running), t)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
