package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AccountType categorizes an account. It carries no ledger semantics;
// balance arithmetic is identical for every type.
type AccountType string

const (
	Savings  AccountType = "SAVINGS"
	Checking AccountType = "CHECKING"
)

// ParseAccountType maps a wire string onto a known account type.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToUpper(s)) {
	case Savings:
		return Savings, nil
	case Checking:
		return Checking, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// TransactionType is the direction of a movement. The stored amount is
// signed according to the type; callers always supply an unsigned value.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// ParseTransactionType maps a wire string onto a known transaction type.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(s)) {
	case Deposit:
		return Deposit, nil
	case Withdrawal:
		return Withdrawal, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// Account holds a customer's balance. Balance is the current balance;
// it is mutated only by the ledger's transaction registration.
type Account struct {
	ID            int64           `json:"-"`
	AccountNumber string          `json:"account_number"`
	AccountType   AccountType     `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        bool            `json:"status"`
	CustomerID    string          `json:"customer_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Transaction is one immutable ledger movement. Balance caches the
// account balance immediately after the movement applied.
type Transaction struct {
	ID            int64           `json:"id"`
	Date          civil.Date      `json:"date"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	AccountNumber string          `json:"account_number"`
}

// TransactionLine is the report view of a transaction.
type TransactionLine struct {
	Date    civil.Date      `json:"date"`
	Type    TransactionType `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountReport is the per-account snapshot produced for a date range.
// InitialBalance mirrors the account's stored balance field; the name
// is kept for output compatibility with the legacy report format.
type AccountReport struct {
	AccountNumber  string            `json:"account_number"`
	AccountType    AccountType       `json:"account_type"`
	InitialBalance decimal.Decimal   `json:"initial_balance"`
	CurrentBalance decimal.Decimal   `json:"current_balance"`
	Status         bool              `json:"status"`
	Transactions   []TransactionLine `json:"transactions"`
}

// Customer is managed by the customers service. The ledger core only
// ever sees its CustomerID as an opaque foreign key.
type Customer struct {
	ID             int64  `json:"-"`
	CustomerID     string `json:"customer_id"`
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	Age            int    `json:"age,omitempty"`
	Identification string `json:"identification,omitempty"`
	Address        string `json:"address,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Status         bool   `json:"status"`
}

// CustomerEvent is the lifecycle notification published on the
// customers exchange.
type CustomerEvent struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Status     bool   `json:"status"`
}
