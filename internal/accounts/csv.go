package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/fintrack/internal/model"
)

const (
	numFields   = 8
	colID       = 0
	colDate     = 1
	colAccount  = 2
	colType     = 3
	colAmount   = 4
	colSigned   = 5
	colCategory = 6
	colDesc     = 7
)

var header = []string{"txn_id", "date", "account_id", "type", "amount", "signed_amount", "category", "description"}

// WriteTransactions writes postings as CSV with a header row.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID()
	row[colDate] = txn.DateString()
	row[colAccount] = txn.AccountID()
	row[colType] = string(txn.Type())
	row[colAmount] = txn.Amount().StringFixed(2)
	row[colSigned] = txn.SignedAmount().StringFixed(2)
	row[colCategory] = txn.Category()
	row[colDesc] = txn.Description()
	return row
}
