package domain

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{
		"DEPOSIT": Deposit, "deposit": Deposit, "Withdrawal": Withdrawal,
	} {
		got, err := ParseTransactionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTransactionType("TRANSFER")
	assert.ErrorIs(t, err, ErrInvalidTransactionType)
}

func TestParseAccountType(t *testing.T) {
	got, err := ParseAccountType("checking")
	require.NoError(t, err)
	assert.Equal(t, Checking, got)

	_, err = ParseAccountType("OFFSHORE")
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{
		ID:            7,
		Date:          civil.Date{Year: 2026, Month: time.January, Day: 10},
		Type:          Withdrawal,
		Amount:        decimal.RequireFromString("-300.00"),
		Balance:       decimal.RequireFromString("1200.00"),
		AccountNumber: "acc-1",
	}

	b, err := json.Marshal(tx)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.JSONEq(t, `"2026-01-10"`, string(fields["date"]))
	assert.JSONEq(t, `"WITHDRAWAL"`, string(fields["type"]))
	assert.JSONEq(t, `"-300.00"`, string(fields["amount"]))

	var back Transaction
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, tx.Date, back.Date)
	assert.True(t, back.Amount.Equal(tx.Amount))
}
