package core

import "errors"

var (
	// ErrInvalidAmount means the amount is not strictly positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds means the withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWithdrawalLimit means the withdrawal exceeds the per-transaction ceiling.
	ErrWithdrawalLimit = errors.New("amount exceeds withdrawal limit")

	// ErrDailyLimitReached means the account already made the maximum number
	// of withdrawals for the current calendar day.
	ErrDailyLimitReached = errors.New("daily withdrawal limit reached")
)
