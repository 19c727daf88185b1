package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a holding of a symbol acquired at a single price.
// Quantity stays positive for as long as the lot exists.
type Lot struct {
	ID               string
	AccountID        string
	Symbol           string
	Quantity         decimal.Decimal
	AcquisitionPrice decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CostBasis returns the acquisition cost of the quantity still held.
func (l *Lot) CostBasis() decimal.Decimal {
	return l.Quantity.Mul(l.AcquisitionPrice)
}
