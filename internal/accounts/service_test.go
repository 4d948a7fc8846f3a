package accounts

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/config"
	"github.com/cleared-dev/fintrack/internal/model"
)

func TestDefaultAccounts(t *testing.T) {
	svc, err := DefaultAccounts("You")
	require.NoError(t, err)

	all := svc.All()
	require.Len(t, all, 3)
	assert.Equal(t, "ACC_CHECK", all[0].ID())
	assert.Equal(t, "ACC_SAVE", all[1].ID())
	assert.Equal(t, "ACC_CREDIT", all[2].ID())

	checking, ok := svc.Get("ACC_CHECK")
	require.True(t, ok)
	assert.Equal(t, KindChecking, checking.Kind())
	assert.Equal(t, "You", checking.Owner())
	assert.True(t, checking.AvailableFunds().Equal(dec("500")), "overdraft limit applies")

	credit := svc.ByKind(KindCredit)
	require.Len(t, credit, 1)
	assert.True(t, credit[0].AvailableFunds().Equal(dec("3000")))

	_, ok = svc.Get("nope")
	assert.False(t, ok)
}

func TestFromConfig_InvalidConfig(t *testing.T) {
	cfg := config.Default("You")
	cfg.Accounts.Credit.APR = -1
	_, err := FromConfig(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewService_DuplicateID(t *testing.T) {
	_, err := NewService(mustChecking(t), mustChecking(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		label string
		want  Kind
	}{
		{"Savings", KindSavings},
		{"high-yield sav", KindSavings},
		{"Credit", KindCredit},
		{"Visa", KindCredit},
		{"Amex Card", KindCredit},
		{"Checking", KindChecking},
		{"", KindChecking},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindFor(tt.label), "label %q", tt.label)
	}
}

func TestRoute(t *testing.T) {
	svc, err := DefaultAccounts("You")
	require.NoError(t, err)

	a, err := svc.Route(model.Record{"account": "visa"})
	require.NoError(t, err)
	assert.Equal(t, "ACC_CREDIT", a.ID())

	a, err = svc.Route(model.Record{"Account": "Savings"})
	require.NoError(t, err)
	assert.Equal(t, "ACC_SAVE", a.ID())

	a, err = svc.Route(model.Record{})
	require.NoError(t, err)
	assert.Equal(t, "ACC_CHECK", a.ID())

	only, err := NewService(mustChecking(t))
	require.NoError(t, err)
	_, err = only.Route(model.Record{"account": "card"})
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestWriteTransactions(t *testing.T) {
	c := mustChecking(t)
	require.NoError(t, c.AddTransaction(txn(t, "TXN00001", "ACC_CHECK", model.Credit, "2500", "2025-09-01")))
	require.NoError(t, c.AddTransaction(txn(t, "TXN00002", "ACC_CHECK", model.Debit, "1200.5", "2025-09-02")))

	svc, err := NewService(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, svc.Transactions()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"TXN00001", "2025-09-01", "ACC_CHECK", "credit", "2500.00", "2500.00", "Other", ""}, rows[1])
	assert.Equal(t, []string{"TXN00002", "2025-09-02", "ACC_CHECK", "debit", "1200.50", "-1200.50", "Other", ""}, rows[2])
}
