package ledger

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// Service is the balance ledger engine. All balance mutations in the
// system go through RegisterTransaction.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() civil.Date
}

func New(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   func() civil.Date { return civil.DateOf(time.Now()) },
	}
}

// RegisterTransaction applies one movement to an account. The amount is
// unsigned; the direction comes from txType. The transaction insert and
// the balance update commit as one unit, with the account row locked
// across the read-compute-write sequence so concurrent registrations
// cannot overdraw the account.
//
// On success the returned transaction's Balance equals the account's
// stored balance exactly. On any failure nothing is persisted.
func (s *Service) RegisterTransaction(ctx context.Context, accountNumber string, txType domain.TransactionType, amount decimal.Decimal) (domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	switch txType {
	case domain.Deposit, domain.Withdrawal:
	default:
		return domain.Transaction{}, domain.ErrInvalidTransactionType
	}

	var tx domain.Transaction
	err := s.store.WithinTx(ctx, func(st Store) error {
		acc, err := st.GetAccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if !acc.Status {
			return domain.ErrAccountInactive
		}

		var newBalance decimal.Decimal
		signed := amount
		switch txType {
		case domain.Deposit:
			newBalance = acc.Balance.Add(amount)
		case domain.Withdrawal:
			if acc.Balance.LessThan(amount) {
				return domain.ErrInsufficientBalance
			}
			newBalance = acc.Balance.Sub(amount)
			signed = amount.Neg()
		}

		tx = domain.Transaction{
			Date:          s.now(),
			Type:          txType,
			Amount:        signed,
			Balance:       newBalance,
			AccountNumber: acc.AccountNumber,
		}
		tx, err = st.InsertTransaction(ctx, tx)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		acc.Balance = newBalance
		if _, err := st.SaveAccount(ctx, acc); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	s.log.Info().
		Str("account_number", accountNumber).
		Str("type", string(txType)).
		Str("amount", amount.String()).
		Str("balance", tx.Balance.String()).
		Msg("transaction registered")
	return tx, nil
}

// OpenAccount creates an active account with a generated account number
// and the given opening balance. The opening balance may not be
// negative.
func (s *Service) OpenAccount(ctx context.Context, accountType domain.AccountType, initialBalance decimal.Decimal, customerID string) (domain.Account, error) {
	if _, err := domain.ParseAccountType(string(accountType)); err != nil {
		return domain.Account{}, err
	}
	if initialBalance.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	acc := domain.Account{
		AccountNumber: uuid.NewString(),
		AccountType:   accountType,
		Balance:       initialBalance,
		Status:        true,
		CustomerID:    customerID,
	}
	acc, err := s.store.SaveAccount(ctx, acc)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().
		Str("account_number", acc.AccountNumber).
		Str("customer_id", customerID).
		Msg("account opened")
	return acc, nil
}

func (s *Service) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	return s.store.GetAccount(ctx, accountNumber)
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.store.ListAccounts(ctx)
}

// ListTransactions returns an account's transactions with date in
// [from, to], ordered by (date, id). A zero from means the range opens
// at the earliest transaction; a zero to defaults to today.
func (s *Service) ListTransactions(ctx context.Context, accountNumber string, from, to civil.Date) ([]domain.Transaction, error) {
	if _, err := s.store.GetAccount(ctx, accountNumber); err != nil {
		return nil, err
	}
	if to == (civil.Date{}) {
		to = s.now()
	}
	return s.store.ListTransactions(ctx, accountNumber, from, to)
}
