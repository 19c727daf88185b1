package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one atomic section so a stuck trade
	// cannot hold the account row lock indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultStartingBalance is the balance of new and reset accounts (decimal string)
	DefaultStartingBalance = "10000.00"
)
