package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, name string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ListHoldings(ctx context.Context, name string) ([]*domain.Lot, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.TransactionRecord, error)
	ResetAccount(ctx context.Context, name string) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account and its balance by name.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing account name", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), name)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Holdings lists the account's open lots.
func (h *AccountHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	lots, err := h.accountUC.ListHoldings(r.Context(), name)
	if err != nil {
		writeDomainError(w, "failed to list holdings", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingsResponse{
		Account: name,
		Lots:    dto.LotsFromDomain(lots),
	})
}

// Transactions lists the account's trade history, newest first.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.accountUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountName: name,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Account:      name,
		Transactions: dto.TransactionsFromDomain(records),
		Limit:        limit,
		Offset:       offset,
	})
}

// Reset clears the account's holdings and history and restores its starting balance.
func (h *AccountHandler) Reset(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.ResetAccount(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, "failed to reset account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
