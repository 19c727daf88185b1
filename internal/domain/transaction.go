package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// TransactionRecord is one executed unit of a trade. Records are append-only.
type TransactionRecord struct {
	ID        string
	AccountID string
	Symbol    string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Side      Side
	Timestamp time.Time
}

// Notional returns quantity * price.
func (t *TransactionRecord) Notional() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}
