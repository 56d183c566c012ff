package ledger

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// BuildReport assembles one snapshot per account owned by the customer,
// covering transactions with date in [from, to]. A customer with no
// accounts yields an empty report, not an error.
//
// CurrentBalance is the cached balance of the last transaction in
// range; an account with no activity in range reports its stored
// balance instead. InitialBalance always mirrors the stored balance,
// preserving the legacy report shape.
func (s *Service) BuildReport(ctx context.Context, customerID string, from, to civil.Date) ([]domain.AccountReport, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if to == (civil.Date{}) {
		to = s.now()
	}

	report := make([]domain.AccountReport, 0)
	for _, acc := range accounts {
		if acc.CustomerID != customerID {
			continue
		}

		txs, err := s.store.ListTransactions(ctx, acc.AccountNumber, from, to)
		if err != nil {
			return nil, fmt.Errorf("list transactions for %s: %w", acc.AccountNumber, err)
		}

		lines := make([]domain.TransactionLine, 0, len(txs))
		for _, tx := range txs {
			lines = append(lines, domain.TransactionLine{
				Date:    tx.Date,
				Type:    tx.Type,
				Amount:  tx.Amount,
				Balance: tx.Balance,
			})
		}

		currentBalance := acc.Balance
		if len(txs) > 0 {
			currentBalance = txs[len(txs)-1].Balance
		}

		report = append(report, domain.AccountReport{
			AccountNumber:  acc.AccountNumber,
			AccountType:    acc.AccountType,
			InitialBalance: acc.Balance,
			CurrentBalance: currentBalance,
			Status:         acc.Status,
			Transactions:   lines,
		})
	}
	return report, nil
}
