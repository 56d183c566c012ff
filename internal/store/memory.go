package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/ledger"
)

// Memory implements ledger.Store with plain maps behind one mutex.
// It backs the unit tests and the memory store backend. A single lock
// serializing WithinTx gives the same no-concurrent-overdraw guarantee
// the Postgres row lock provides.
type Memory struct {
	mu            sync.Mutex
	nextAccountID int64
	nextTxID      int64
	accounts      map[string]domain.Account
	transactions  []domain.Transaction
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]domain.Account)}
}

func (m *Memory) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getAccount(accountNumber)
}

func (m *Memory) GetAccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error) {
	// The WithinTx mutex already excludes other writers.
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getAccount(accountNumber)
}

func (m *Memory) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveAccount(ctx context.Context, acc domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveAccount(acc)
}

func (m *Memory) InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertTransaction(tx)
}

func (m *Memory) ListTransactions(ctx context.Context, accountNumber string, from, to civil.Date) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactions(accountNumber, from, to), nil
}

func (m *Memory) listTransactions(accountNumber string, from, to civil.Date) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.AccountNumber != accountNumber {
			continue
		}
		if from != (civil.Date{}) && tx.Date.Before(from) {
			continue
		}
		if to != (civil.Date{}) && tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// WithinTx holds the store lock for the whole unit of work and rolls
// the state back when fn fails, so a failed registration leaves
// neither a transaction nor a balance change behind.
func (m *Memory) WithinTx(ctx context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	savedAccounts := make(map[string]domain.Account, len(m.accounts))
	for k, v := range m.accounts {
		savedAccounts[k] = v
	}
	savedTxs := make([]domain.Transaction, len(m.transactions))
	copy(savedTxs, m.transactions)
	savedAccountID, savedTxID := m.nextAccountID, m.nextTxID

	if err := fn(&memoryTx{m: m}); err != nil {
		m.accounts = savedAccounts
		m.transactions = savedTxs
		m.nextAccountID, m.nextTxID = savedAccountID, savedTxID
		return err
	}
	return nil
}

func (m *Memory) getAccount(accountNumber string) (domain.Account, error) {
	acc, ok := m.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (m *Memory) saveAccount(acc domain.Account) (domain.Account, error) {
	if acc.ID == 0 {
		m.nextAccountID++
		acc.ID = m.nextAccountID
		acc.CreatedAt = time.Now()
	} else if _, ok := m.accounts[acc.AccountNumber]; !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	m.accounts[acc.AccountNumber] = acc
	return acc, nil
}

func (m *Memory) insertTransaction(tx domain.Transaction) (domain.Transaction, error) {
	m.nextTxID++
	tx.ID = m.nextTxID
	m.transactions = append(m.transactions, tx)
	return tx, nil
}

// memoryTx is the in-transaction view handed to WithinTx callbacks.
// The parent already holds the lock, so operations go straight at the
// state.
type memoryTx struct {
	m *Memory
}

func (t *memoryTx) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	return t.m.getAccount(accountNumber)
}

func (t *memoryTx) GetAccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error) {
	return t.m.getAccount(accountNumber)
}

func (t *memoryTx) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(t.m.accounts))
	for _, acc := range t.m.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memoryTx) SaveAccount(ctx context.Context, acc domain.Account) (domain.Account, error) {
	return t.m.saveAccount(acc)
}

func (t *memoryTx) InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	return t.m.insertTransaction(tx)
}

func (t *memoryTx) ListTransactions(ctx context.Context, accountNumber string, from, to civil.Date) ([]domain.Transaction, error) {
	return t.m.listTransactions(accountNumber, from, to), nil
}

func (t *memoryTx) WithinTx(ctx context.Context, fn func(ledger.Store) error) error {
	// Already inside the unit of work.
	return fn(t)
}
