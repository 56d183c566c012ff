package ledger_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/ledger"
	"github.com/dsuarezv/bankledger/internal/store"
)

// seedStatement writes an account with two movements: +500 on Jan 10
// (balance 1500) and -300 on Jan 12 (balance 1200).
func seedStatement(t *testing.T, svc *ledger.Service, st *store.Memory, customerID string) domain.Account {
	t.Helper()
	ctx := context.Background()
	acc := openAccount(t, svc, "1000.00", customerID)

	_, err := st.InsertTransaction(ctx, domain.Transaction{
		Date:          civil.Date{Year: 2026, Month: time.January, Day: 10},
		Type:          domain.Deposit,
		Amount:        dec(t, "500.00"),
		Balance:       dec(t, "1500.00"),
		AccountNumber: acc.AccountNumber,
	})
	require.NoError(t, err)
	_, err = st.InsertTransaction(ctx, domain.Transaction{
		Date:          civil.Date{Year: 2026, Month: time.January, Day: 12},
		Type:          domain.Withdrawal,
		Amount:        dec(t, "-300.00"),
		Balance:       dec(t, "1200.00"),
		AccountNumber: acc.AccountNumber,
	})
	require.NoError(t, err)

	acc.Balance = dec(t, "1200.00")
	acc, err = st.SaveAccount(ctx, acc)
	require.NoError(t, err)
	return acc
}

func TestBuildReport(t *testing.T) {
	svc, st := newService(t)
	acc := seedStatement(t, svc, st, "c1")

	report, err := svc.BuildReport(context.Background(), "c1",
		civil.Date{Year: 2026, Month: time.January, Day: 1}, civil.Date{Year: 2026, Month: time.January, Day: 31})
	require.NoError(t, err)
	require.Len(t, report, 1)

	snap := report[0]
	assert.Equal(t, acc.AccountNumber, snap.AccountNumber)
	assert.True(t, snap.InitialBalance.Equal(dec(t, "1200.00")))
	assert.True(t, snap.CurrentBalance.Equal(dec(t, "1200.00")))
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, domain.Deposit, snap.Transactions[0].Type)
	assert.True(t, snap.Transactions[0].Balance.Equal(dec(t, "1500.00")))
	assert.Equal(t, domain.Withdrawal, snap.Transactions[1].Type)
}

func TestBuildReportPartialRange(t *testing.T) {
	svc, st := newService(t)
	seedStatement(t, svc, st, "c1")

	// Only the Jan 10 deposit falls in range, so the snapshot balance
	// is the running balance as of that transaction.
	report, err := svc.BuildReport(context.Background(), "c1",
		civil.Date{Year: 2026, Month: time.January, Day: 1}, civil.Date{Year: 2026, Month: time.January, Day: 11})
	require.NoError(t, err)
	require.Len(t, report, 1)

	snap := report[0]
	require.Len(t, snap.Transactions, 1)
	assert.True(t, snap.CurrentBalance.Equal(dec(t, "1500.00")))
}

func TestBuildReportNoActivityInRange(t *testing.T) {
	svc, st := newService(t)
	seedStatement(t, svc, st, "c1")

	report, err := svc.BuildReport(context.Background(), "c1",
		civil.Date{Year: 2026, Month: time.March, Day: 1}, civil.Date{Year: 2026, Month: time.March, Day: 31})
	require.NoError(t, err)
	require.Len(t, report, 1)

	snap := report[0]
	assert.Empty(t, snap.Transactions)
	assert.True(t, snap.CurrentBalance.Equal(dec(t, "1200.00")), "falls back to the stored balance")
}

func TestBuildReportUnknownCustomer(t *testing.T) {
	svc, st := newService(t)
	seedStatement(t, svc, st, "c1")

	report, err := svc.BuildReport(context.Background(), "nobody",
		civil.Date{}, civil.Date{Year: 2026, Month: time.December, Day: 31})
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.NotNil(t, report, "unknown customer yields an empty report, not an error")
}

func TestBuildReportMultipleAccounts(t *testing.T) {
	svc, st := newService(t)
	seedStatement(t, svc, st, "c1")
	quiet := openAccount(t, svc, "50.00", "c1")
	openAccount(t, svc, "900.00", "c2")

	report, err := svc.BuildReport(context.Background(), "c1",
		civil.Date{}, civil.Date{Year: 2026, Month: time.December, Day: 31})
	require.NoError(t, err)
	require.Len(t, report, 2, "only c1's accounts are reported")

	for _, snap := range report {
		if snap.AccountNumber == quiet.AccountNumber {
			assert.Empty(t, snap.Transactions)
			assert.True(t, snap.CurrentBalance.Equal(dec(t, "50.00")))
		}
	}
}
