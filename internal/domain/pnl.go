package domain

import "github.com/shopspring/decimal"

// AvgPricePrecision is the number of decimal places kept for average buy price.
const AvgPricePrecision = 8

// ProfitAndLoss is the per-symbol report produced from transaction history.
type ProfitAndLoss struct {
	Symbol         string
	TotalBoughtQty decimal.Decimal
	TotalSoldQty   decimal.Decimal
	RemainingQty   decimal.Decimal
	AvgBuyPrice    decimal.Decimal
	CurrentPrice   decimal.NullDecimal
	RealizedPnL    decimal.Decimal
	UnrealizedPnL  decimal.Decimal
	TotalPnL       decimal.Decimal
}

// SymbolTotals accumulates the bought and sold quantities and amounts of one symbol.
type SymbolTotals struct {
	BoughtQty    decimal.Decimal
	BoughtAmount decimal.Decimal
	SoldQty      decimal.Decimal
	SoldAmount   decimal.Decimal
}

// Add folds a record into the totals. Records with an unknown side are ignored.
func (t *SymbolTotals) Add(rec *TransactionRecord) {
	switch rec.Side {
	case SideBuy:
		t.BoughtQty = t.BoughtQty.Add(rec.Quantity)
		t.BoughtAmount = t.BoughtAmount.Add(rec.Notional())
	case SideSell:
		t.SoldQty = t.SoldQty.Add(rec.Quantity)
		t.SoldAmount = t.SoldAmount.Add(rec.Notional())
	}
}

// NetQty returns bought minus sold quantity.
func (t *SymbolTotals) NetQty() decimal.Decimal {
	return t.BoughtQty.Sub(t.SoldQty)
}

// GroupBySymbol sums the records per symbol. Record order does not matter.
func GroupBySymbol(records []*TransactionRecord) map[string]*SymbolTotals {
	groups := make(map[string]*SymbolTotals)
	for _, rec := range records {
		totals, ok := groups[rec.Symbol]
		if !ok {
			totals = &SymbolTotals{}
			groups[rec.Symbol] = totals
		}
		totals.Add(rec)
	}
	return groups
}

// CalculateProfitAndLoss applies average-cost accounting to one symbol's totals.
//
// RemainingQty is not clamped: when more was sold than bought, it is negative and
// the unrealized PnL changes sign accordingly.
func CalculateProfitAndLoss(symbol string, totals SymbolTotals, latestPrice decimal.NullDecimal) ProfitAndLoss {
	avgBuyPrice := decimal.Zero
	if !totals.BoughtQty.IsZero() {
		avgBuyPrice = totals.BoughtAmount.DivRound(totals.BoughtQty, AvgPricePrecision)
	}

	realizedQty := decimal.Min(totals.SoldQty, totals.BoughtQty)
	realizedPnL := totals.SoldAmount.Sub(avgBuyPrice.Mul(realizedQty))

	remainingQty := totals.NetQty()

	unrealizedPnL := decimal.Zero
	if latestPrice.Valid {
		unrealizedPnL = latestPrice.Decimal.Sub(avgBuyPrice).Mul(remainingQty)
	}

	return ProfitAndLoss{
		Symbol:         symbol,
		TotalBoughtQty: totals.BoughtQty,
		TotalSoldQty:   totals.SoldQty,
		RemainingQty:   remainingQty,
		AvgBuyPrice:    avgBuyPrice,
		CurrentPrice:   latestPrice,
		RealizedPnL:    realizedPnL,
		UnrealizedPnL:  unrealizedPnL,
		TotalPnL:       realizedPnL.Add(unrealizedPnL),
	}
}
