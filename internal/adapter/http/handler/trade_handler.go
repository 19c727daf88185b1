package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// TradeService defines the behavior needed by TradeHandler.
type TradeService interface {
	Buy(ctx context.Context, input usecase.TradeInput) error
	Sell(ctx context.Context, input usecase.TradeInput) error
}

// TradeHandler handles buy and sell requests.
type TradeHandler struct {
	tradeUC TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeUC TradeService) *TradeHandler {
	return &TradeHandler{tradeUC: tradeUC}
}

// Buy executes a buy trade.
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, domain.SideBuy, h.tradeUC.Buy)
}

// Sell executes a sell trade.
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, domain.SideSell, h.tradeUC.Sell)
}

func (h *TradeHandler) execute(
	w http.ResponseWriter,
	r *http.Request,
	side domain.Side,
	run func(context.Context, usecase.TradeInput) error,
) {
	var req dto.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid request body", err.Error(), domain.KindInvalidTrade)
		return
	}

	input := req.ToUseCaseInput()
	if err := run(r.Context(), input); err != nil {
		writeDomainError(w, "trade rejected", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeResponse{
		Status:   "executed",
		Side:     side,
		Account:  input.AccountName,
		Symbol:   domain.NormalizeSymbol(input.Symbol),
		Price:    input.Price,
		Quantity: input.Quantity,
	})
}
