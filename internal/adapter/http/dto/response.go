package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Balance         decimal.Decimal `json:"balance"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		Name:            a.Name,
		Balance:         a.Balance,
		StartingBalance: a.StartingBalance,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// LotResponse represents an open holding lot.
type LotResponse struct {
	ID               string          `json:"id"`
	Symbol           string          `json:"symbol"`
	Quantity         decimal.Decimal `json:"quantity"`
	AcquisitionPrice decimal.Decimal `json:"acquisition_price"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LotsFromDomain converts domain lots to responses.
func LotsFromDomain(lots []*domain.Lot) []*LotResponse {
	result := make([]*LotResponse, len(lots))
	for i, l := range lots {
		result[i] = &LotResponse{
			ID:               l.ID,
			Symbol:           l.Symbol,
			Quantity:         l.Quantity,
			AcquisitionPrice: l.AcquisitionPrice,
			CostBasis:        l.CostBasis(),
			CreatedAt:        l.CreatedAt,
		}
	}
	return result
}

// HoldingsResponse lists an account's open lots.
type HoldingsResponse struct {
	Account string         `json:"account"`
	Lots    []*LotResponse `json:"lots"`
}

// TransactionResponse represents a trade history record.
type TransactionResponse struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      domain.Side     `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Notional  decimal.Decimal `json:"notional"`
	Timestamp time.Time       `json:"timestamp"`
}

// TransactionsFromDomain converts domain records to responses.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	result := make([]*TransactionResponse, len(records))
	for i, r := range records {
		result[i] = &TransactionResponse{
			ID:        r.ID,
			Symbol:    r.Symbol,
			Side:      r.Side,
			Quantity:  r.Quantity,
			Price:     r.Price,
			Notional:  r.Notional(),
			Timestamp: r.Timestamp,
		}
	}
	return result
}

// ListTransactionsResponse represents a page of trade history, newest first.
type ListTransactionsResponse struct {
	Account      string                 `json:"account"`
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// PnLResponse represents the profit and loss of one symbol.
// CurrentPrice is null when no trade for the symbol exists.
type PnLResponse struct {
	Symbol         string           `json:"symbol"`
	TotalBoughtQty decimal.Decimal  `json:"total_bought_qty"`
	TotalSoldQty   decimal.Decimal  `json:"total_sold_qty"`
	RemainingQty   decimal.Decimal  `json:"remaining_qty"`
	AvgBuyPrice    decimal.Decimal  `json:"avg_buy_price"`
	CurrentPrice   *decimal.Decimal `json:"current_price"`
	RealizedPnL    decimal.Decimal  `json:"realized_pnl"`
	UnrealizedPnL  decimal.Decimal  `json:"unrealized_pnl"`
	TotalPnL       decimal.Decimal  `json:"total_pnl"`
}

// PnLFromDomain converts a domain report to a response.
func PnLFromDomain(p domain.ProfitAndLoss) *PnLResponse {
	resp := &PnLResponse{
		Symbol:         p.Symbol,
		TotalBoughtQty: p.TotalBoughtQty,
		TotalSoldQty:   p.TotalSoldQty,
		RemainingQty:   p.RemainingQty,
		AvgBuyPrice:    p.AvgBuyPrice,
		RealizedPnL:    p.RealizedPnL,
		UnrealizedPnL:  p.UnrealizedPnL,
		TotalPnL:       p.TotalPnL,
	}
	if p.CurrentPrice.Valid {
		price := p.CurrentPrice.Decimal
		resp.CurrentPrice = &price
	}
	return resp
}

// ProfitAndLossResponse lists per-symbol reports ordered by symbol.
type ProfitAndLossResponse struct {
	Account string         `json:"account"`
	Symbols []*PnLResponse `json:"symbols"`
}

// ProfitAndLossFromDomain converts the reports of one account.
func ProfitAndLossFromDomain(account string, reports []domain.ProfitAndLoss) *ProfitAndLossResponse {
	symbols := make([]*PnLResponse, len(reports))
	for i, p := range reports {
		symbols[i] = PnLFromDomain(p)
	}
	return &ProfitAndLossResponse{Account: account, Symbols: symbols}
}

// TradeResponse acknowledges an executed trade.
type TradeResponse struct {
	Status   string          `json:"status"`
	Side     domain.Side     `json:"side"`
	Account  string          `json:"account"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// HoldingDiscrepancyResponse is a symbol whose lots disagree with history.
type HoldingDiscrepancyResponse struct {
	Symbol     string          `json:"symbol"`
	LotQty     decimal.Decimal `json:"lot_qty"`
	HistoryQty decimal.Decimal `json:"history_qty"`
}

// ReconciliationResponse represents one account's reconciliation result.
type ReconciliationResponse struct {
	AccountID          string                        `json:"account_id"`
	AccountName        string                        `json:"account_name"`
	RecordedBalance    decimal.Decimal               `json:"recorded_balance"`
	CalculatedBalance  decimal.Decimal               `json:"calculated_balance"`
	Difference         decimal.Decimal               `json:"difference"`
	HoldingDifferences []*HoldingDiscrepancyResponse `json:"holding_differences,omitempty"`
	IsReconciled       bool                          `json:"is_reconciled"`
}

// ReconciliationFromUseCase converts a reconciliation result.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		AccountID:         r.AccountID,
		AccountName:       r.AccountName,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
	}
	for _, d := range r.HoldingDifferences {
		resp.HoldingDifferences = append(resp.HoldingDifferences, &HoldingDiscrepancyResponse{
			Symbol:     d.Symbol,
			LotQty:     d.LotQty,
			HistoryQty: d.HistoryQty,
		})
	}
	return resp
}

// ConsistencyResponse represents the ledger-wide reconciliation report.
type ConsistencyResponse struct {
	Status             string                    `json:"status"`
	Consistent         bool                      `json:"consistent"`
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ConsistencyFromUseCase converts a reconciliation report.
func ConsistencyFromUseCase(r *usecase.ReconciliationReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Status:             "consistent",
		Consistent:         r.LedgerConsistent,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*ReconciliationResponse, 0, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	if !r.LedgerConsistent {
		resp.Status = "inconsistent"
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, ReconciliationFromUseCase(d))
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
