package alert

import (
	"fmt"

	"github.com/cleared-dev/fintrack/internal/cleaner"
	"github.com/cleared-dev/fintrack/internal/model"
)

// Monitor cleans a batch of records and runs every rule over the result.
type Monitor struct {
	cleaner *cleaner.Cleaner
	rules   []Rule
}

// NewMonitor copies rows into a new cleaner. A nil rules slice selects
// DefaultRules; an empty non-nil slice runs no rules.
func NewMonitor(rows []model.Record, rules []Rule) *Monitor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Monitor{
		cleaner: cleaner.New(rows),
		rules:   append([]Rule(nil), rules...),
	}
}

// Cleaner returns the monitor's cleaner.
func (m *Monitor) Cleaner() *cleaner.Cleaner { return m.cleaner }

// Rules returns a copy of the rule list.
func (m *Monitor) Rules() []Rule { return append([]Rule(nil), m.rules...) }

// RunFullAnalysis cleans the batch, then checks every cleaned record against
// every rule in order. Messages come back record by record, and within a
// record in rule order.
func (m *Monitor) RunFullAnalysis() ([]string, error) {
	if _, err := m.cleaner.CleanAll(); err != nil {
		return nil, fmt.Errorf("cleaning records: %w", err)
	}

	var alerts []string
	for _, rec := range m.cleaner.Transactions() {
		for _, rule := range m.rules {
			if msg, ok := rule.Check(rec); ok {
				alerts = append(alerts, msg)
			}
		}
	}
	return alerts, nil
}
