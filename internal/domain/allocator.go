package domain

import "github.com/shopspring/decimal"

// LotFill describes how much of one lot a sell consumes.
// Remaining is invalid when the lot is fully consumed and must be deleted.
type LotFill struct {
	LotID     string
	Consumed  decimal.Decimal
	Remaining decimal.NullDecimal
}

// Exhausted reports whether the fill consumes the whole lot.
func (f LotFill) Exhausted() bool {
	return !f.Remaining.Valid
}

// Allocation is the plan produced by AllocateLots.
type Allocation struct {
	Fills    []LotFill
	Unfilled decimal.Decimal
}

// Filled returns the total quantity consumed across all fills.
func (a Allocation) Filled() decimal.Decimal {
	total := decimal.Zero
	for _, f := range a.Fills {
		total = total.Add(f.Consumed)
	}
	return total
}

// Satisfied reports whether the requested quantity was fully covered.
func (a Allocation) Satisfied() bool {
	return !a.Unfilled.IsPositive()
}

// AllocateLots walks lots in the given order, consuming each up to the
// quantity still requested. The caller decides the order; the trade engine
// passes lots sorted by ascending acquisition price. Lots are not modified.
func AllocateLots(lots []*Lot, quantity decimal.Decimal) Allocation {
	remaining := quantity
	fills := make([]LotFill, 0, len(lots))

	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.Quantity.IsPositive() {
			continue
		}

		consumed := decimal.Min(remaining, lot.Quantity)
		left := lot.Quantity.Sub(consumed)

		fill := LotFill{LotID: lot.ID, Consumed: consumed}
		if left.IsPositive() {
			fill.Remaining = decimal.NewNullDecimal(left)
		}

		fills = append(fills, fill)
		remaining = remaining.Sub(consumed)
	}

	return Allocation{Fills: fills, Unfilled: remaining}
}
