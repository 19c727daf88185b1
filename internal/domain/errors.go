package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")

	// Trade errors
	ErrInvalidTrade         = errors.New("invalid trade")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrStorageFailure wraps any error coming out of the ledger store.
	ErrStorageFailure = errors.New("storage failure")
)

// Error kinds reported to callers.
const (
	KindInvalidTrade         = "invalid_trade"
	KindInsufficientBalance  = "insufficient_balance"
	KindInsufficientHoldings = "insufficient_holdings"
	KindAccountNotFound      = "account_not_found"
	KindAccountExists        = "account_exists"
	KindInvalidAccountName   = "invalid_account_name"
	KindStorageFailure       = "storage_failure"
	KindUnexpected           = "unexpected"
)

// ErrorKind classifies err into one of the Kind constants.
// Domain kinds take precedence over storage failure.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTrade):
		return KindInvalidTrade
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrInsufficientHoldings):
		return KindInsufficientHoldings
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrAccountExists):
		return KindAccountExists
	case errors.Is(err, ErrInvalidAccountName):
		return KindInvalidAccountName
	case errors.Is(err, ErrStorageFailure):
		return KindStorageFailure
	default:
		return KindUnexpected
	}
}

// IsDomainError reports whether err is a permanent, input-driven failure.
func IsDomainError(err error) bool {
	switch ErrorKind(err) {
	case KindStorageFailure, KindUnexpected:
		return false
	default:
		return true
	}
}
