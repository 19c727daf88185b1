package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{Name: r.Name}
}

// TradeRequest represents a buy or sell request. Price and quantity accept
// JSON strings or numbers.
type TradeRequest struct {
	Account  string          `json:"account"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *TradeRequest) ToUseCaseInput() usecase.TradeInput {
	return usecase.TradeInput{
		AccountName: r.Account,
		Symbol:      r.Symbol,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}
