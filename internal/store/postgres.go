package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/ledger"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// query methods serve pooled and in-transaction execution.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements ledger.Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Postgres{pool: pool, db: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

const accountColumns = "id, account_number, account_type, balance, status, customer_id, created_at"

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.AccountNumber, &acc.AccountType, &acc.Balance, &acc.Status, &acc.CustomerID, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return acc, nil
}

func (p *Postgres) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	return scanAccount(p.db.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE account_number = $1",
		accountNumber))
}

func (p *Postgres) GetAccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error) {
	return scanAccount(p.db.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE account_number = $1 FOR UPDATE",
		accountNumber))
}

func (p *Postgres) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := p.db.Query(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(&acc.ID, &acc.AccountNumber, &acc.AccountType, &acc.Balance, &acc.Status, &acc.CustomerID, &acc.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (p *Postgres) SaveAccount(ctx context.Context, acc domain.Account) (domain.Account, error) {
	if acc.ID == 0 {
		err := p.db.QueryRow(ctx,
			`INSERT INTO accounts (account_number, account_type, balance, status, customer_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			acc.AccountNumber, acc.AccountType, acc.Balance, acc.Status, acc.CustomerID,
		).Scan(&acc.ID, &acc.CreatedAt)
		if err != nil {
			return domain.Account{}, err
		}
		return acc, nil
	}

	tag, err := p.db.Exec(ctx,
		"UPDATE accounts SET balance = $1, status = $2 WHERE id = $3",
		acc.Balance, acc.Status, acc.ID)
	if err != nil {
		return domain.Account{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

// pgDate bridges civil.Date to the time.Time values pgx maps onto DATE
// columns.
func pgDate(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func (p *Postgres) InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	err := p.db.QueryRow(ctx,
		`INSERT INTO transactions (date, type, amount, balance, account_number)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		pgDate(tx.Date), tx.Type, tx.Amount, tx.Balance, tx.AccountNumber,
	).Scan(&tx.ID)
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (p *Postgres) ListTransactions(ctx context.Context, accountNumber string, from, to civil.Date) ([]domain.Transaction, error) {
	query := "SELECT id, date, type, amount, balance, account_number FROM transactions WHERE account_number = $1"
	args := []any{accountNumber}
	if from != (civil.Date{}) {
		args = append(args, pgDate(from))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != (civil.Date{}) {
		args = append(args, pgDate(to))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date, id"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var date time.Time
		if err := rows.Scan(&tx.ID, &date, &tx.Type, &tx.Amount, &tx.Balance, &tx.AccountNumber); err != nil {
			return nil, err
		}
		tx.Date = civil.DateOf(date)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// WithinTx runs fn inside a RepeatableRead transaction. Row locks taken
// via GetAccountForUpdate serialize conflicting registrations on the
// same account until commit.
func (p *Postgres) WithinTx(ctx context.Context, fn func(ledger.Store) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Postgres{pool: p.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}
