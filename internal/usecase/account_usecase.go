package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// AccountUseCase handles account lifecycle and read models.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	lotRepo         LotRepository
	txRepo          TransactionRepository
	idGen           IDGenerator
	retrier         Retrier
	startingBalance decimal.Decimal
}

// NewAccountUseCase creates a new AccountUseCase. New and reset accounts get startingBalance.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	lotRepo LotRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	startingBalance decimal.Decimal,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		lotRepo:         lotRepo,
		txRepo:          txRepo,
		idGen:           idGen,
		retrier:         retrier,
		startingBalance: startingBalance,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name string
}

// CreateAccount creates a new account funded with the starting balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		Name:            strings.TrimSpace(input.Name),
		Balance:         uc.startingBalance,
		StartingBalance: uc.startingBalance,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, storageErr("create account", err)
	}

	return account, nil
}

// GetAccount retrieves an account by name.
func (uc *AccountUseCase) GetAccount(ctx context.Context, name string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, storageErr("get account", err)
	}
	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	input.Limit, input.Offset = domain.ClampPagination(input.Limit, input.Offset)

	accounts, err := uc.accountRepo.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

// ListHoldings returns the open lots of an account.
func (uc *AccountUseCase) ListHoldings(ctx context.Context, name string) ([]*domain.Lot, error) {
	account, err := uc.GetAccount(ctx, name)
	if err != nil {
		return nil, err
	}

	lots, err := uc.lotRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, storageErr("list lots", err)
	}
	return lots, nil
}

// ListTransactionsInput represents input for listing an account's history.
type ListTransactionsInput struct {
	AccountName string
	Limit       int
	Offset      int
}

// ListTransactions lists an account's transaction records, newest first.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.TransactionRecord, error) {
	input.Limit, input.Offset = domain.ClampPagination(input.Limit, input.Offset)

	account, err := uc.GetAccount(ctx, input.AccountName)
	if err != nil {
		return nil, err
	}

	records, err := uc.txRepo.ListRecentByAccount(ctx, account.ID, input.Limit, input.Offset)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return records, nil
}

// ResetAccount clears all lots and history of the account and restores the
// starting balance, in one atomic section on the account. The whole section is
// retried by the retrier on transient storage conflicts.
func (uc *AccountUseCase) ResetAccount(ctx context.Context, name string) (*domain.Account, error) {
	var account *domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		account, err = uc.reset(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *AccountUseCase) reset(ctx context.Context, name string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByNameForUpdate(ctx, tx, name)
	if err != nil {
		return nil, storageErr("lock account", err)
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.Reset(ctx, tx, account.ID, uc.startingBalance, now); err != nil {
		return nil, storageErr("reset account", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}

	account.Balance = uc.startingBalance
	account.StartingBalance = uc.startingBalance
	account.UpdatedAt = now

	return account, nil
}
