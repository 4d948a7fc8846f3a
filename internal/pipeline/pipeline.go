// Package pipeline runs raw statement records through cleaning, alerting and
// posting into accounts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/alert"
	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/logger"
	"github.com/cleared-dev/fintrack/internal/metrics"
	"github.com/cleared-dev/fintrack/internal/model"
)

// DefaultCategory is used for cleaned records that carry no category.
const DefaultCategory = "Other"

var ErrMissingAmount = errors.New("record has no amount")

// Options controls a Session.
type Options struct {
	// SkipInvalid records rows that cannot be posted and keeps going.
	// Without it the first bad row aborts the run.
	SkipInvalid bool
	// Rules are the alert rules to run. Nil selects alert.DefaultRules.
	Rules []alert.Rule
}

// Skipped is a cleaned row that was not posted.
type Skipped struct {
	Row    int // 1-based position among the cleaned records
	Record model.Record
	Reason string
}

// Result summarizes one Run.
type Result struct {
	RunID      string
	Loaded     int
	Cleaned    int
	Duplicates int
	Alerts     []string
	Posted     []model.Transaction
	Skipped    []Skipped
}

// Session owns the transaction ID sequence shared by every run against the
// same set of accounts. It is not safe for concurrent use.
type Session struct {
	accounts *accounts.Service
	opts     Options
	metrics  *metrics.Metrics
	seq      id.Sequence
	newRunID func() string
}

// NewSession creates a Session posting into svc. m may be nil.
func NewSession(svc *accounts.Service, opts Options, m *metrics.Metrics) *Session {
	return &Session{
		accounts: svc,
		opts:     opts,
		metrics:  m,
		newRunID: uuid.NewString,
	}
}

// Accounts returns the accounts the session posts into.
func (s *Session) Accounts() *accounts.Service { return s.accounts }

// Issued returns how many transaction IDs the session has handed out.
func (s *Session) Issued() int { return s.seq.Count() }

// Run cleans rows, evaluates the alert rules and posts every cleaned record
// to its account. Postings made before a fail-fast error stay on the
// accounts.
func (s *Session) Run(ctx context.Context, rows []model.Record) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: s.newRunID(), Loaded: len(rows)}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Logger()

	monitor := alert.NewMonitor(rows, s.opts.Rules)
	alerts, err := monitor.RunFullAnalysis()
	if err != nil {
		return nil, fmt.Errorf("analyzing records: %w", err)
	}
	cleaned := monitor.Cleaner().Transactions()
	res.Alerts = alerts
	res.Cleaned = len(cleaned)
	res.Duplicates = len(rows) - len(cleaned)

	log.Debug().
		Int("loaded", res.Loaded).
		Int("cleaned", res.Cleaned).
		Int("duplicates", res.Duplicates).
		Int("alerts", len(alerts)).
		Msg("records cleaned")

	for i, rec := range cleaned {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		txn, acct, err := s.post(rec)
		if err != nil {
			if !s.opts.SkipInvalid {
				return nil, fmt.Errorf("posting row %d: %w", i+1, err)
			}
			res.Skipped = append(res.Skipped, Skipped{Row: i + 1, Record: rec, Reason: err.Error()})
			log.Warn().Int("row", i+1).Err(err).Msg("skipping row")
			continue
		}
		res.Posted = append(res.Posted, txn)
		if s.metrics != nil {
			s.metrics.TransactionsPosted.WithLabelValues(string(acct.Kind())).Inc()
		}
	}

	s.record(res, time.Since(start))
	log.Info().
		Int("posted", len(res.Posted)).
		Int("skipped", len(res.Skipped)).
		Int("alerts", len(res.Alerts)).
		Msg("ingest complete")
	return res, nil
}

// post builds a transaction from a cleaned record and adds it to the routed
// account. A sequence number is consumed only when the posting succeeds.
func (s *Session) post(rec model.Record) (model.Transaction, accounts.Account, error) {
	acct, err := s.accounts.Route(rec)
	if err != nil {
		return model.Transaction{}, nil, err
	}

	raw, ok := rec.Lookup("amount", "Amount")
	if !ok {
		return model.Transaction{}, nil, ErrMissingAmount
	}
	amt, err := model.ParseAmount(raw)
	if err != nil {
		return model.Transaction{}, nil, err
	}
	typ := model.Debit
	if amt.IsPositive() {
		typ = model.Credit
	}

	category := strings.TrimSpace(rec.Text("category", "Category"))
	if category == "" {
		category = DefaultCategory
	}

	txn, err := model.NewTransaction(model.TransactionParams{
		ID:          id.FormatTxnID(s.seq.Count() + 1),
		Amount:      amt.Abs(),
		Date:        rec.Text("date", "Date"),
		Category:    category,
		AccountID:   acct.ID(),
		Type:        typ,
		Description: rec.Text("description", "Description"),
	})
	if err != nil {
		return model.Transaction{}, nil, err
	}
	if err := acct.AddTransaction(txn); err != nil {
		return model.Transaction{}, nil, err
	}
	s.seq.Next()
	return txn, acct, nil
}

func (s *Session) record(res *Result, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	m := s.metrics
	m.RecordsLoaded.Add(float64(res.Loaded))
	m.DuplicatesRemoved.Add(float64(res.Duplicates))
	m.AlertsRaised.Add(float64(len(res.Alerts)))
	m.RowsSkipped.Add(float64(len(res.Skipped)))
	for _, a := range s.accounts.All() {
		m.AccountBalance.WithLabelValues(a.ID()).Set(a.Balance().InexactFloat64())
	}
	m.RunDuration.Observe(elapsed.Seconds())
}
