package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	// GetByNameForUpdate locks the account row until tx ends. It is the
	// per-account exclusive section every trade runs in.
	GetByNameForUpdate(ctx context.Context, tx Transaction, name string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// Reset deletes every lot and transaction of the account and sets its balance.
	Reset(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// LotRepository defines data access for holding lots.
type LotRepository interface {
	Create(ctx context.Context, tx Transaction, lot *domain.Lot) error
	// ListForSale returns the account's lots of symbol ordered by ascending
	// acquisition price, then by creation order.
	ListForSale(ctx context.Context, tx Transaction, accountID, symbol string) ([]*domain.Lot, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Lot, error)
	UpdateQuantity(ctx context.Context, tx Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// TransactionRepository defines data access for the append-only trade history.
type TransactionRepository interface {
	// Append inserts the record and sets its server-assigned Timestamp.
	Append(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error)
	ListRecentByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error)
}

// PriceSource resolves the latest known price of a symbol.
// An invalid NullDecimal means no price is known.
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (decimal.NullDecimal, error)
}

// PriceInvalidator drops any cached price for a symbol.
type PriceInvalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// TradeRecorder observes trade outcomes.
type TradeRecorder interface {
	TradeExecuted(side domain.Side, notional decimal.Decimal, duration time.Duration)
	TradeRejected(side domain.Side, kind string)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes the key so the request can be retried.
	Release(ctx context.Context, key string) error
}
