package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
)

// PnLService defines the behavior needed by PnLHandler.
type PnLService interface {
	GetProfitAndLoss(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error)
}

// PnLHandler serves per-symbol profit and loss reports.
type PnLHandler struct {
	pnlUC PnLService
}

// NewPnLHandler creates a new PnLHandler.
func NewPnLHandler(pnlUC PnLService) *PnLHandler {
	return &PnLHandler{pnlUC: pnlUC}
}

// Get returns the account's profit and loss for every traded symbol.
func (h *PnLHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	reports, err := h.pnlUC.GetProfitAndLoss(r.Context(), name)
	if err != nil {
		writeDomainError(w, "failed to compute profit and loss", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfitAndLossFromDomain(name, reports))
}
