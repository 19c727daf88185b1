package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
)

type pnlServiceFunc func(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error)

func (f pnlServiceFunc) GetProfitAndLoss(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error) {
	return f(ctx, accountName)
}

func TestPnLHandler_Get(t *testing.T) {
	handler := NewPnLHandler(pnlServiceFunc(func(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error) {
		assert.Equal(t, "alice", accountName)
		return []domain.ProfitAndLoss{
			{
				Symbol:         "BTC",
				TotalBoughtQty: decimal.NewFromInt(20),
				TotalSoldQty:   decimal.NewFromInt(12),
				RemainingQty:   decimal.NewFromInt(8),
				AvgBuyPrice:    decimal.NewFromInt(50),
				CurrentPrice:   decimal.NewNullDecimal(decimal.NewFromInt(70)),
				RealizedPnL:    decimal.NewFromInt(240),
				UnrealizedPnL:  decimal.NewFromInt(160),
				TotalPnL:       decimal.NewFromInt(400),
			},
			{Symbol: "ETH"},
		}, nil
	}))

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/alice/pnl", nil), "name", "alice")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ProfitAndLossResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Symbols, 2)
	assert.True(t, resp.Symbols[0].TotalPnL.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, resp.Symbols[0].CurrentPrice)
	assert.True(t, resp.Symbols[0].CurrentPrice.Equal(decimal.NewFromInt(70)))
	assert.Nil(t, resp.Symbols[1].CurrentPrice)
}

func TestPnLHandler_NotFound(t *testing.T) {
	handler := NewPnLHandler(pnlServiceFunc(func(ctx context.Context, accountName string) ([]domain.ProfitAndLoss, error) {
		return nil, domain.ErrAccountNotFound
	}))

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/ghost/pnl", nil), "name", "ghost")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
