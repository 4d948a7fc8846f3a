// Package metrics holds the Prometheus counters recorded during ingest.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fintrack"

// Metrics is a private registry plus the collectors registered on it, so
// every run (and every test) starts from zero.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsLoaded      prometheus.Counter
	DuplicatesRemoved  prometheus.Counter
	AlertsRaised       prometheus.Counter
	RowsSkipped        prometheus.Counter
	TransactionsPosted *prometheus.CounterVec
	AccountBalance     *prometheus.GaugeVec
	RunDuration        prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RecordsLoaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Raw statement records handed to the cleaner.",
		}),
		DuplicatesRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Records dropped as duplicates during cleaning.",
		}),
		AlertsRaised: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Alert messages produced by the alert rules.",
		}),
		RowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Cleaned rows that could not be posted in skip-invalid mode.",
		}),
		TransactionsPosted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_posted_total",
			Help:      "Transactions added to accounts, by account kind.",
		}, []string{"kind"}),
		AccountBalance: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_balance",
			Help:      "Account balance after the last run.",
		}, []string{"account"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of an ingest run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// WriteTextfile writes every metric in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
