package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/tradeledger/internal/domain"
)

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier()
	r.maxRetries = maxRetries
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}

func TestRetrierRetry(t *testing.T) {
	notFound := fmt.Errorf("lock account: %w", domain.ErrAccountNotFound)

	tests := []struct {
		name         string
		failures     []error
		wantAttempts int
		wantErr      error
	}{
		{name: "succeeds first time", wantAttempts: 1},
		{name: "deadlock then success", failures: []error{&pgconn.PgError{Code: pgErrDeadlock}}, wantAttempts: 2},
		{
			name: "serialization failures then success",
			failures: []error{
				&pgconn.PgError{Code: pgErrSerializationFailure},
				&pgconn.PgError{Code: pgErrSerializationFailure},
			},
			wantAttempts: 3,
		},
		{name: "domain error is not retried", failures: []error{notFound}, wantAttempts: 1, wantErr: domain.ErrAccountNotFound},
		{name: "unique violation is not retried", failures: []error{&pgconn.PgError{Code: "23505"}}, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := fastRetrier(3).Retry(context.Background(), func() error {
				attempts++
				if attempts <= len(tt.failures) {
					return tt.failures[attempts-1]
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Fatalf("expected %d attempts, got %d", tt.wantAttempts, attempts)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantAttempts > len(tt.failures) && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}

func TestRetrierHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := fastRetrier(5).Retry(ctx, func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if attempts > 1 {
		t.Fatalf("expected no retries after cancel, got %d attempts", attempts)
	}
}

func TestIsRetryableErrorThroughStorageWrap(t *testing.T) {
	wrapped := fmt.Errorf("%w: commit: %w", domain.ErrStorageFailure, &pgconn.PgError{Code: pgErrSerializationFailure})
	if !isRetryableError(wrapped) {
		t.Fatalf("expected wrapped serialization failure to be retryable")
	}

	if isRetryableError(fmt.Errorf("lock account: %w", domain.ErrAccountNotFound)) {
		t.Fatalf("expected domain error to be permanent")
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(2)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected pg error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
