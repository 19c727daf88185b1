package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// ReconciliationUseCase checks stored balances and lots against transaction history.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	lotRepo     LotRepository
	txRepo      TransactionRepository
}

// reconcilePageSize is how many accounts a full reconciliation loads at once.
const reconcilePageSize = 1000

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	lotRepo LotRepository,
	txRepo TransactionRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		lotRepo:     lotRepo,
		txRepo:      txRepo,
	}
}

// HoldingDiscrepancy is a symbol whose open lots disagree with bought minus sold.
type HoldingDiscrepancy struct {
	Symbol     string
	LotQty     decimal.Decimal
	HistoryQty decimal.Decimal
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID          string
	AccountName        string
	RecordedBalance    decimal.Decimal
	CalculatedBalance  decimal.Decimal
	Difference         decimal.Decimal
	HoldingDifferences []HoldingDiscrepancy
	IsReconciled       bool
	LastChecked        time.Time
}

// ReconcileAccount replays the account's history from its starting balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, name string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, storageErr("get account", err)
	}

	return uc.reconcile(ctx, account)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	records, err := uc.txRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	lots, err := uc.lotRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, storageErr("list lots", err)
	}

	groups := domain.GroupBySymbol(records)

	calculated := account.StartingBalance
	for _, totals := range groups {
		calculated = calculated.Sub(totals.BoughtAmount).Add(totals.SoldAmount)
	}

	held := make(map[string]decimal.Decimal)
	for _, lot := range lots {
		held[lot.Symbol] = held[lot.Symbol].Add(lot.Quantity)
	}

	symbols := make(map[string]struct{}, len(groups)+len(held))
	for s := range groups {
		symbols[s] = struct{}{}
	}
	for s := range held {
		symbols[s] = struct{}{}
	}

	var holdingDiffs []HoldingDiscrepancy
	for symbol := range symbols {
		historyQty := decimal.Zero
		if totals, ok := groups[symbol]; ok {
			historyQty = totals.NetQty()
		}
		if !held[symbol].Equal(historyQty) {
			holdingDiffs = append(holdingDiffs, HoldingDiscrepancy{
				Symbol:     symbol,
				LotQty:     held[symbol],
				HistoryQty: historyQty,
			})
		}
	}
	sort.Slice(holdingDiffs, func(i, j int) bool {
		return holdingDiffs[i].Symbol < holdingDiffs[j].Symbol
	})

	difference := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:          account.ID,
		AccountName:        account.Name,
		RecordedBalance:    account.Balance,
		CalculatedBalance:  calculated,
		Difference:         difference,
		HoldingDifferences: holdingDiffs,
		IsReconciled:       difference.IsZero() && len(holdingDiffs) == 0,
		LastChecked:        time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every account, one page at a time.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	limit, offset := reconcilePageSize, 0

	var results []*ReconciliationResult
	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, storageErr("list accounts", err)
		}

		for _, account := range accounts {
			result, err := uc.reconcile(ctx, account)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.Name, err)
			}
			results = append(results, result)
		}

		if len(accounts) < limit {
			return results, nil
		}
		offset += limit
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a ledger-wide reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}
	report.LedgerConsistent = len(report.Discrepancies) == 0

	return report, nil
}
