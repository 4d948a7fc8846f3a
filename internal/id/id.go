package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const txnPrefix = "TXN"

// Prefixes for transactions the accounts post on their own.
const (
	PrefixFee      = "FEE"
	PrefixInterest = "INT"
	PrefixCheck    = "CHK"
)

// FormatTxnID returns a transaction ID like "TXN00001".
func FormatTxnID(seq int) string {
	return fmt.Sprintf("%s%05d", txnPrefix, seq)
}

// ParseTxnID parses "TXN00001" into its sequence number.
func ParseTxnID(id string) (int, error) {
	digits, ok := strings.CutPrefix(id, txnPrefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}
	seq, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}
	if seq < 0 {
		return 0, fmt.Errorf("negative sequence in transaction ID %q", id)
	}
	return seq, nil
}

// Generated returns an ID for a system-posted transaction, e.g.
// "FEE20251031120000".
func Generated(prefix string, t time.Time) string {
	return prefix + t.Format("20060102150405")
}

// Sequence hands out consecutive transaction numbers starting at 1.
// It is owned by a single ingest session and is not safe for concurrent use.
type Sequence struct {
	n int
}

// Next advances the sequence and returns the new transaction ID.
func (s *Sequence) Next() string {
	s.n++
	return FormatTxnID(s.n)
}

// Count returns how many IDs have been issued.
func (s *Sequence) Count() int { return s.n }

// Reset starts the sequence over.
func (s *Sequence) Reset() { s.n = 0 }
