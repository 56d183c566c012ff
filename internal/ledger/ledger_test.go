package ledger_test

import (
	"context"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/ledger"
	"github.com/dsuarezv/bankledger/internal/store"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newService(t *testing.T) (*ledger.Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	return ledger.New(st, zerolog.Nop()), st
}

func openAccount(t *testing.T, svc *ledger.Service, balance, customerID string) domain.Account {
	t.Helper()
	acc, err := svc.OpenAccount(context.Background(), domain.Savings, dec(t, balance), customerID)
	require.NoError(t, err)
	return acc
}

func TestOpenAccount(t *testing.T) {
	svc, _ := newService(t)

	acc := openAccount(t, svc, "1000.00", "c1")
	assert.NotEmpty(t, acc.AccountNumber)
	assert.True(t, acc.Status)
	assert.True(t, acc.Balance.Equal(dec(t, "1000.00")))

	other := openAccount(t, svc, "0", "c1")
	assert.NotEqual(t, acc.AccountNumber, other.AccountNumber)
}

func TestOpenAccountRejectsNegativeBalance(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.OpenAccount(context.Background(), domain.Savings, dec(t, "-1"), "c1")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestOpenAccountRejectsUnknownType(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.OpenAccount(context.Background(), domain.AccountType("BITCOIN"), dec(t, "10"), "c1")
	assert.ErrorIs(t, err, domain.ErrInvalidAccountType)
}

func TestDepositIncreasesBalance(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "1000.00", "c1")

	tx, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Deposit, dec(t, "500.00"))
	require.NoError(t, err)

	assert.Equal(t, domain.Deposit, tx.Type)
	assert.True(t, tx.Amount.Equal(dec(t, "500.00")))
	assert.True(t, tx.Balance.Equal(dec(t, "1500.00")))

	got, err := svc.GetAccount(context.Background(), acc.AccountNumber)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(tx.Balance), "account balance must equal the transaction's cached balance")
}

func TestWithdrawalDecreasesBalance(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "1500.00", "c1")

	tx, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Withdrawal, dec(t, "300.00"))
	require.NoError(t, err)

	assert.Equal(t, domain.Withdrawal, tx.Type)
	assert.True(t, tx.Amount.Equal(dec(t, "-300.00")), "withdrawal amounts are stored negative, got %s", tx.Amount)
	assert.True(t, tx.Balance.Equal(dec(t, "1200.00")))

	got, err := svc.GetAccount(context.Background(), acc.AccountNumber)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec(t, "1200.00")))
}

func TestWithdrawalRejectsOverdraft(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "1500.00", "c1")

	_, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Withdrawal, dec(t, "2000.00"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Neither the balance nor the transaction log may change on failure.
	got, err := svc.GetAccount(context.Background(), acc.AccountNumber)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec(t, "1500.00")))

	txs, err := svc.ListTransactions(context.Background(), acc.AccountNumber, civil.Date{}, civil.Date{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestWithdrawalOfExactBalance(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "100.00", "c1")

	tx, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Withdrawal, dec(t, "100.00"))
	require.NoError(t, err)
	assert.True(t, tx.Balance.IsZero())
}

func TestRegisterUnknownAccount(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RegisterTransaction(context.Background(), "missing", domain.Deposit, dec(t, "10"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRegisterRejectsNonPositiveAmounts(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "100.00", "c1")

	for _, amount := range []string{"0", "-50"} {
		_, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Deposit, dec(t, amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	svc, _ := newService(t)
	acc := openAccount(t, svc, "100.00", "c1")

	_, err := svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.TransactionType("TRANSFER"), dec(t, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestRegisterRejectsInactiveAccount(t *testing.T) {
	svc, st := newService(t)
	acc := openAccount(t, svc, "100.00", "c1")

	acc.Status = false
	_, err := st.SaveAccount(context.Background(), acc)
	require.NoError(t, err)

	_, err = svc.RegisterTransaction(context.Background(), acc.AccountNumber, domain.Deposit, dec(t, "10"))
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

// Statement scenario: 1000 open, +500, failed 2000 withdrawal, -300.
func TestRegisterScenario(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	acc := openAccount(t, svc, "1000.00", "c1")

	tx, err := svc.RegisterTransaction(ctx, acc.AccountNumber, domain.Deposit, dec(t, "500.00"))
	require.NoError(t, err)
	assert.True(t, tx.Balance.Equal(dec(t, "1500.00")))

	_, err = svc.RegisterTransaction(ctx, acc.AccountNumber, domain.Withdrawal, dec(t, "2000.00"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	tx, err = svc.RegisterTransaction(ctx, acc.AccountNumber, domain.Withdrawal, dec(t, "300.00"))
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(dec(t, "-300.00")))
	assert.True(t, tx.Balance.Equal(dec(t, "1200.00")))

	txs, err := svc.ListTransactions(ctx, acc.AccountNumber, civil.Date{}, civil.Date{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.Deposit, txs[0].Type)
	assert.Equal(t, domain.Withdrawal, txs[1].Type)
}

// Concurrent withdrawals must never jointly overdraw the account.
func TestConcurrentWithdrawals(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	acc := openAccount(t, svc, "500.00", "c1")

	const workers = 10
	amount := dec(t, "100.00")
	var wg sync.WaitGroup
	results := make(chan error, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RegisterTransaction(ctx, acc.AccountNumber, domain.Withdrawal, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			rejected++
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, rejected)

	got, err := svc.GetAccount(ctx, acc.AccountNumber)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "final balance %s", got.Balance)
}

func TestListTransactionsUnknownAccount(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ListTransactions(context.Background(), "missing", civil.Date{}, civil.Date{})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
