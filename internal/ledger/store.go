package ledger

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// Store is the durable record store the ledger runs against. Accounts
// are keyed by account number; transactions are append-only.
//
// WithinTx runs fn against a store view whose writes commit together
// or not at all. Implementations must serialize conflicting writers on
// the same account for the duration of fn, so that a balance read via
// GetAccountForUpdate stays valid until commit.
type Store interface {
	GetAccount(ctx context.Context, accountNumber string) (domain.Account, error)

	// GetAccountForUpdate behaves like GetAccount but takes an update
	// lock on the account. Only meaningful inside WithinTx.
	GetAccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// SaveAccount inserts the account when it has no store identity yet,
	// otherwise updates it in place.
	SaveAccount(ctx context.Context, acc domain.Account) (domain.Account, error)

	// InsertTransaction persists tx and returns it with its assigned id.
	InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)

	// ListTransactions returns the account's transactions with date in
	// [from, to], ordered by (date, id). A zero from means an open
	// start; a zero to means an open end.
	ListTransactions(ctx context.Context, accountNumber string, from, to civil.Date) ([]domain.Transaction, error)

	WithinTx(ctx context.Context, fn func(Store) error) error
}
