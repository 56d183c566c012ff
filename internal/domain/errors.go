package domain

import "errors"

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrAccountInactive        = errors.New("account is inactive")
)
