package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/tradeledger/internal/domain"
)

// PnLUseCase reports realized and unrealized profit and loss per symbol.
type PnLUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	prices      PriceSource
}

// NewPnLUseCase creates a new PnLUseCase.
func NewPnLUseCase(accountRepo AccountRepository, txRepo TransactionRepository, prices PriceSource) *PnLUseCase {
	return &PnLUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		prices:      prices,
	}
}

// GetProfitAndLoss computes one report per traded symbol, sorted by symbol.
// It only reads state.
func (uc *PnLUseCase) GetProfitAndLoss(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error) {
	account, err := uc.accountRepo.GetByName(ctx, accountName)
	if err != nil {
		return nil, storageErr("get account", err)
	}

	records, err := uc.txRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	groups := domain.GroupBySymbol(records)

	symbols := make([]string, 0, len(groups))
	for symbol := range groups {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	reports := make([]domain.ProfitAndLoss, 0, len(symbols))
	for _, symbol := range symbols {
		latest, err := uc.prices.LatestPrice(ctx, symbol)
		if err != nil {
			return nil, storageErr(fmt.Sprintf("latest price %s", symbol), err)
		}

		reports = append(reports, domain.CalculateProfitAndLoss(symbol, *groups[symbol], latest))
	}

	return reports, nil
}
