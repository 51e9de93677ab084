package wallet

import "errors"

var (
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrEntryNotFound        = errors.New("ledger entry not found")
	ErrInsufficientFunds    = errors.New("insufficient wallet balance")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrAmountOutOfRange     = errors.New("amount outside allowed topup range")
	ErrDuplicateTransaction = errors.New("transaction id already exists")
	ErrEntryNotPending      = errors.New("ledger entry is not pending")
)
