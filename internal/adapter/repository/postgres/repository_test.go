package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

var accountColumns = []string{"id", "name", "balance", "starting_balance", "created_at", "updated_at"}

var lotColumns = []string{"id", "account_id", "symbol", "quantity", "acquisition_price", "created_at", "updated_at"}

var transactionColumns = []string{"id", "account_id", "symbol", "quantity", "price", "side", "created_at"}

func num(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	return decimalToNumeric(decimal.RequireFromString(s))
}

func ts(tm time.Time) pgtype.Timestamptz {
	return timeToPgTimestamptz(tm)
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	mock.ExpectBegin()
	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestAccountRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("acc-1", "alice", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "alice", num(t, "10000"), num(t, "10000"), ts(now), ts(now)))

	err := repo.Create(context.Background(), &domain.Account{
		ID:              "acc-1",
		Name:            "alice",
		Balance:         decimal.NewFromInt(10000),
		StartingBalance: decimal.NewFromInt(10000),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryCreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("acc-1", "alice", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := repo.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "alice"})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountRepositoryGetByName(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM accounts WHERE name = \$1`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "alice", num(t, "9300.50"), num(t, "10000"), ts(now), ts(now)))

	account, err := repo.GetByName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "acc-1" || !account.Balance.Equal(decimal.RequireFromString("9300.5")) {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !account.StartingBalance.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("unexpected starting balance: %s", account.StartingBalance)
	}

	mock.ExpectQuery(`FROM accounts WHERE name = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByName(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByNameForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Now().UTC()

	tx := beginTx(t, mock)
	mock.ExpectQuery(`WHERE name = \$1 FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "alice", num(t, "100"), num(t, "100"), ts(now), ts(now)))
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	ctx := context.Background()
	account, err := repo.GetByNameForUpdate(ctx, tx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdateBalance(ctx, tx, account.ID, account.ApplyDebit(decimal.NewFromInt(40)), now); err != nil {
		t.Fatalf("update balance: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByNameForUpdateNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)

	tx := beginTx(t, mock)
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByNameForUpdate(context.Background(), tx, "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryReset(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)

	tx := beginTx(t, mock)
	mock.ExpectExec("DELETE FROM lots WHERE account_id").
		WithArgs("acc-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM transactions WHERE account_id").
		WithArgs("acc-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectExec("starting_balance = \\$2").
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Reset(context.Background(), tx, "acc-1", decimal.RequireFromString("10000.00"), time.Now()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryResetStopsOnError(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	dbErr := errors.New("connection lost")

	tx := beginTx(t, mock)
	mock.ExpectExec("DELETE FROM lots").WithArgs("acc-1").WillReturnError(dbErr)

	if err := repo.Reset(context.Background(), tx, "acc-1", decimal.Zero, time.Now()); !errors.Is(err, dbErr) {
		t.Fatalf("expected db error, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestRepositoriesRejectForeignTransaction(t *testing.T) {
	mock := newMockPool(t)
	ctx := context.Background()

	if err := newAccountRepository(mock).UpdateBalance(ctx, foreignTx{}, "acc-1", decimal.Zero, time.Now()); !errors.Is(err, errUnknownTransaction) {
		t.Fatalf("expected errUnknownTransaction, got %v", err)
	}
	if _, err := newLotRepository(mock).ListForSale(ctx, foreignTx{}, "acc-1", "BTC"); !errors.Is(err, errUnknownTransaction) {
		t.Fatalf("expected errUnknownTransaction, got %v", err)
	}
	if err := newTransactionRepository(mock).Append(ctx, nil, &domain.TransactionRecord{}); !errors.Is(err, errUnknownTransaction) {
		t.Fatalf("expected errUnknownTransaction, got %v", err)
	}
}

func TestAccountRepositoryList(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM accounts").
		WithArgs(int32(2), int32(0)).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "alice", num(t, "1"), num(t, "1"), ts(now), ts(now)).
			AddRow("acc-2", "bob", num(t, "2"), num(t, "2"), ts(now), ts(now)))

	accounts, err := repo.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[1].Name != "bob" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mock)
}

func TestLotRepositoryListForSale(t *testing.T) {
	mock := newMockPool(t)
	repo := newLotRepository(mock)
	now := time.Now().UTC()

	tx := beginTx(t, mock)
	mock.ExpectQuery(`ORDER BY acquisition_price ASC, created_at ASC, id ASC`).
		WithArgs("acc-1", "BTC").
		WillReturnRows(pgxmock.NewRows(lotColumns).
			AddRow("lot-1", "acc-1", "BTC", num(t, "10"), num(t, "40"), ts(now), ts(now)).
			AddRow("lot-2", "acc-1", "BTC", num(t, "5"), num(t, "60"), ts(now), ts(now)))

	lots, err := repo.ListForSale(context.Background(), tx, "acc-1", "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("expected 2 lots, got %d", len(lots))
	}
	if lots[0].ID != "lot-1" || !lots[0].AcquisitionPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected first lot: %+v", lots[0])
	}
	if !lots[1].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected second lot quantity: %s", lots[1].Quantity)
	}

	assertExpectations(t, mock)
}

func TestLotRepositoryWrites(t *testing.T) {
	mock := newMockPool(t)
	repo := newLotRepository(mock)
	ctx := context.Background()
	now := time.Now().UTC()

	tx := beginTx(t, mock)
	mock.ExpectExec("INSERT INTO lots").
		WithArgs("lot-1", "acc-1", "BTC", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE lots SET quantity").
		WithArgs("lot-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM lots WHERE id = \$1`).
		WithArgs("lot-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectRollback()

	lot := &domain.Lot{
		ID:               "lot-1",
		AccountID:        "acc-1",
		Symbol:           "BTC",
		Quantity:         decimal.NewFromInt(3),
		AcquisitionPrice: decimal.NewFromInt(100),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Create(ctx, tx, lot); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateQuantity(ctx, tx, "lot-1", decimal.NewFromInt(1), now); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if err := repo.Delete(ctx, tx, "lot-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	assertExpectations(t, mock)
}

func TestTransactionRepositoryAppendSetsTimestamp(t *testing.T) {
	mock := newMockPool(t)
	repo := newTransactionRepository(mock)
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tx := beginTx(t, mock)
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs("tx-1", "acc-1", "BTC", pgxmock.AnyArg(), pgxmock.AnyArg(), "SELL").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(ts(stamp)))

	record := &domain.TransactionRecord{
		ID:        "tx-1",
		AccountID: "acc-1",
		Symbol:    "BTC",
		Quantity:  decimal.NewFromInt(2),
		Price:     decimal.NewFromInt(70),
		Side:      domain.SideSell,
	}
	if err := repo.Append(context.Background(), tx, record); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !record.Timestamp.Equal(stamp) {
		t.Fatalf("expected timestamp %v, got %v", stamp, record.Timestamp)
	}

	assertExpectations(t, mock)
}

func TestTransactionRepositoryListing(t *testing.T) {
	mock := newMockPool(t)
	repo := newTransactionRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`ORDER BY created_at ASC, id ASC`).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("tx-1", "acc-1", "BTC", num(t, "1"), num(t, "10"), "BUY", ts(now)).
			AddRow("tx-2", "acc-1", "BTC", num(t, "1"), num(t, "12"), "SELL", ts(now.Add(time.Second))))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs("acc-1", int32(1), int32(0)).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("tx-2", "acc-1", "BTC", num(t, "1"), num(t, "12"), "SELL", ts(now.Add(time.Second))))

	ctx := context.Background()
	all, err := repo.ListByAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Side != domain.SideBuy || all[1].Side != domain.SideSell {
		t.Fatalf("unexpected records: %+v", all)
	}

	recent, err := repo.ListRecentByAccount(ctx, "acc-1", 1, 0)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "tx-2" || !recent[0].Price.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected recent records: %+v", recent)
	}

	assertExpectations(t, mock)
}

func TestPriceRepositoryLatestPrice(t *testing.T) {
	mock := newMockPool(t)
	repo := newPriceRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery("SELECT price FROM transactions").
		WithArgs("BTC").
		WillReturnRows(pgxmock.NewRows([]string{"price"}).AddRow(num(t, "70.5")))
	mock.ExpectQuery("SELECT price FROM transactions").
		WithArgs("DOGE").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT price FROM transactions").
		WithArgs("ETH").
		WillReturnError(errors.New("timeout"))

	price, err := repo.LatestPrice(ctx, "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.Valid || !price.Decimal.Equal(decimal.RequireFromString("70.5")) {
		t.Fatalf("unexpected price: %+v", price)
	}

	price, err = repo.LatestPrice(ctx, "DOGE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.Valid {
		t.Fatalf("expected no price, got %s", price.Decimal)
	}

	if _, err := repo.LatestPrice(ctx, "ETH"); err == nil {
		t.Fatalf("expected error")
	}

	assertExpectations(t, mock)
}

func TestNumericConversionKeepsScale(t *testing.T) {
	for _, s := range []string{"0", "10000.00", "0.000000025", "-3.5", "123456789012345678.123456789012345678"} {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Fatalf("%s: got %s", s, got)
		}
	}

	if !numericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Fatalf("expected invalid numeric to convert to zero")
	}
	if numericToNullDecimal(pgtype.Numeric{}).Valid {
		t.Fatalf("expected invalid numeric to convert to absent")
	}
}
