package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		domain bool
	}{
		{"invalid trade", fmt.Errorf("%w: price", ErrInvalidTrade), KindInvalidTrade, true},
		{"insufficient balance", ErrInsufficientBalance, KindInsufficientBalance, true},
		{"insufficient holdings", fmt.Errorf("%w: short 2", ErrInsufficientHoldings), KindInsufficientHoldings, true},
		{"account not found", ErrAccountNotFound, KindAccountNotFound, true},
		{"account exists", ErrAccountExists, KindAccountExists, true},
		{"invalid account name", fmt.Errorf("%w: empty", ErrInvalidAccountName), KindInvalidAccountName, true},
		{"storage", fmt.Errorf("%w: update balance: %w", ErrStorageFailure, errors.New("conn reset")), KindStorageFailure, false},
		{"unexpected", errors.New("boom"), KindUnexpected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, got)
			}
			if got := IsDomainError(tt.err); got != tt.domain {
				t.Fatalf("expected domain=%v, got %v", tt.domain, got)
			}
		})
	}
}
