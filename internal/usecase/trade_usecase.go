package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// TradeUseCase applies buy and sell orders to an account's balance, lots and history.
type TradeUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	lotRepo     LotRepository
	txRepo      TransactionRepository
	idGen       IDGenerator
	recorder    TradeRecorder
	invalidator PriceInvalidator
}

// NewTradeUseCase creates a new TradeUseCase.
func NewTradeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	lotRepo LotRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
) *TradeUseCase {
	return &TradeUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		lotRepo:     lotRepo,
		txRepo:      txRepo,
		idGen:       idGen,
	}
}

// WithRecorder sets the recorder notified of every trade outcome.
func (uc *TradeUseCase) WithRecorder(recorder TradeRecorder) *TradeUseCase {
	uc.recorder = recorder
	return uc
}

// WithPriceInvalidator sets the cache invalidated after each committed trade.
func (uc *TradeUseCase) WithPriceInvalidator(invalidator PriceInvalidator) *TradeUseCase {
	uc.invalidator = invalidator
	return uc
}

// TradeInput represents input for a buy or sell.
type TradeInput struct {
	AccountName string
	Symbol      string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
}

// Buy debits price*quantity from the account, opens a new lot and records one BUY.
func (uc *TradeUseCase) Buy(ctx context.Context, input TradeInput) error {
	start := time.Now()
	input.Symbol = domain.NormalizeSymbol(input.Symbol)

	cost, err := uc.buy(ctx, input)
	uc.observe(domain.SideBuy, cost, start, err)
	if err != nil {
		return err
	}

	uc.invalidatePrice(ctx, input.Symbol)
	return nil
}

func (uc *TradeUseCase) buy(ctx context.Context, input TradeInput) (decimal.Decimal, error) {
	if err := domain.ValidateTrade(input.Symbol, input.Price, input.Quantity); err != nil {
		return decimal.Zero, err
	}

	cost := input.Price.Mul(input.Quantity)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByNameForUpdate(ctx, tx, input.AccountName)
	if err != nil {
		return decimal.Zero, storageErr("lock account", err)
	}

	if err := account.ValidateDebit(cost); err != nil {
		return decimal.Zero, fmt.Errorf("%w: needed %s, available %s", err, cost, account.Balance)
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyDebit(cost), now); err != nil {
		return decimal.Zero, storageErr("update balance", err)
	}

	lot := &domain.Lot{
		ID:               uc.idGen.Generate(),
		AccountID:        account.ID,
		Symbol:           input.Symbol,
		Quantity:         input.Quantity,
		AcquisitionPrice: input.Price,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.lotRepo.Create(ctx, tx, lot); err != nil {
		return decimal.Zero, storageErr("create lot", err)
	}

	record := &domain.TransactionRecord{
		ID:        uc.idGen.Generate(),
		AccountID: account.ID,
		Symbol:    input.Symbol,
		Quantity:  input.Quantity,
		Price:     input.Price,
		Side:      domain.SideBuy,
	}
	if err := uc.txRepo.Append(ctx, tx, record); err != nil {
		return decimal.Zero, storageErr("append transaction", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, storageErr("commit", err)
	}

	return cost, nil
}

// Sell consumes the account's lots of symbol cheapest first, records one SELL per
// consumed lot at the sell price and credits the proceeds once.
// Nothing is written when the lots do not cover quantity.
func (uc *TradeUseCase) Sell(ctx context.Context, input TradeInput) error {
	start := time.Now()
	input.Symbol = domain.NormalizeSymbol(input.Symbol)

	proceeds, err := uc.sell(ctx, input)
	uc.observe(domain.SideSell, proceeds, start, err)
	if err != nil {
		return err
	}

	uc.invalidatePrice(ctx, input.Symbol)
	return nil
}

func (uc *TradeUseCase) sell(ctx context.Context, input TradeInput) (decimal.Decimal, error) {
	if err := domain.ValidateTrade(input.Symbol, input.Price, input.Quantity); err != nil {
		return decimal.Zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByNameForUpdate(ctx, tx, input.AccountName)
	if err != nil {
		return decimal.Zero, storageErr("lock account", err)
	}

	lots, err := uc.lotRepo.ListForSale(ctx, tx, account.ID, input.Symbol)
	if err != nil {
		return decimal.Zero, storageErr("list lots", err)
	}

	plan := domain.AllocateLots(lots, input.Quantity)
	if !plan.Satisfied() {
		return decimal.Zero, fmt.Errorf("%w: requested %s %s, held %s",
			domain.ErrInsufficientHoldings, input.Quantity, input.Symbol, plan.Filled())
	}

	now := time.Now().UTC()
	proceeds := decimal.Zero

	for _, fill := range plan.Fills {
		if fill.Exhausted() {
			err = uc.lotRepo.Delete(ctx, tx, fill.LotID)
		} else {
			err = uc.lotRepo.UpdateQuantity(ctx, tx, fill.LotID, fill.Remaining.Decimal, now)
		}
		if err != nil {
			return decimal.Zero, storageErr("update lot", err)
		}

		record := &domain.TransactionRecord{
			ID:        uc.idGen.Generate(),
			AccountID: account.ID,
			Symbol:    input.Symbol,
			Quantity:  fill.Consumed,
			Price:     input.Price,
			Side:      domain.SideSell,
		}
		if err := uc.txRepo.Append(ctx, tx, record); err != nil {
			return decimal.Zero, storageErr("append transaction", err)
		}

		proceeds = proceeds.Add(record.Notional())
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyCredit(proceeds), now); err != nil {
		return decimal.Zero, storageErr("update balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, storageErr("commit", err)
	}

	return proceeds, nil
}

func (uc *TradeUseCase) observe(side domain.Side, notional decimal.Decimal, start time.Time, err error) {
	if uc.recorder == nil {
		return
	}
	if err != nil {
		uc.recorder.TradeRejected(side, domain.ErrorKind(err))
		return
	}
	uc.recorder.TradeExecuted(side, notional, time.Since(start))
}

func (uc *TradeUseCase) invalidatePrice(ctx context.Context, symbol string) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, symbol); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("failed to invalidate cached price")
	}
}
