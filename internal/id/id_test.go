package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTxnID(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "TXN00001"},
		{42, "TXN00042"},
		{99999, "TXN99999"},
		{123456, "TXN123456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTxnID(tt.seq))
	}
}

func TestParseTxnID(t *testing.T) {
	seq, err := ParseTxnID("TXN00042")
	require.NoError(t, err)
	assert.Equal(t, 42, seq)
}

func TestParseTxnID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"TXN",
		"00042",
		"TXNabc",
		"FEE20251031120000x",
	}
	for _, input := range badInputs {
		_, err := ParseTxnID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestGenerated(t *testing.T) {
	ts := time.Date(2025, 10, 31, 12, 5, 9, 0, time.UTC)
	assert.Equal(t, "FEE20251031120509", Generated(PrefixFee, ts))
	assert.Equal(t, "INT20251031120509", Generated(PrefixInterest, ts))
}

func TestSequence(t *testing.T) {
	var s Sequence
	assert.Equal(t, "TXN00001", s.Next())
	assert.Equal(t, "TXN00002", s.Next())
	assert.Equal(t, 2, s.Count())

	s.Reset()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "TXN00001", s.Next())
}
