package usecase

import (
	"errors"
	"fmt"

	"github.com/iho/tradeledger/internal/domain"
)

// storageErr wraps a ledger store error as domain.ErrStorageFailure.
// Domain sentinels returned by the store pass through untouched.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err) || errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
}
