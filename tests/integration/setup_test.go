package integration

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/adapter/repository/postgres"
	"github.com/iho/tradeledger/internal/usecase"
	"github.com/iho/tradeledger/tests/testutil"
)

type stack struct {
	db             *testutil.TestDB
	accounts       *postgres.AccountRepository
	lots           *postgres.LotRepository
	transactions   *postgres.TransactionRepository
	trades         *usecase.TradeUseCase
	accountUC      *usecase.AccountUseCase
	pnl            *usecase.PnLUseCase
	reconciliation *usecase.ReconciliationUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)

	pool := db.Pool
	accounts := postgres.NewAccountRepository(pool)
	lots := postgres.NewLotRepository(pool)
	transactions := postgres.NewTransactionRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	return &stack{
		db:           db,
		accounts:     accounts,
		lots:         lots,
		transactions: transactions,
		trades:       usecase.NewTradeUseCase(txManager, accounts, lots, transactions, idGen),
		accountUC: usecase.NewAccountUseCase(
			txManager, accounts, lots, transactions, idGen, postgres.NewRetrier(), decimal.RequireFromString("10000.00"),
		),
		pnl:            usecase.NewPnLUseCase(accounts, transactions, postgres.NewPriceRepository(pool)),
		reconciliation: usecase.NewReconciliationUseCase(accounts, lots, transactions),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tradeInput(account, symbol, price, qty string) usecase.TradeInput {
	return usecase.TradeInput{AccountName: account, Symbol: symbol, Price: d(price), Quantity: d(qty)}
}
