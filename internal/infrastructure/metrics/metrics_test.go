package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

var _ usecase.TradeRecorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	m.TradeExecuted(domain.SideBuy, decimal.NewFromInt(50), 10*time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestTradeExecuted(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TradeExecuted(domain.SideBuy, decimal.NewFromInt(400), 5*time.Millisecond)
	m.TradeExecuted(domain.SideBuy, decimal.NewFromInt(20), 5*time.Millisecond)
	m.TradeExecuted(domain.SideSell, decimal.NewFromInt(70), 5*time.Millisecond)

	if got := testutil.ToFloat64(m.TradesExecuted.WithLabelValues("BUY")); got != 2 {
		t.Fatalf("expected 2 buys, got %v", got)
	}
	if got := testutil.ToFloat64(m.TradesExecuted.WithLabelValues("SELL")); got != 1 {
		t.Fatalf("expected 1 sell, got %v", got)
	}
	if got := testutil.CollectAndCount(m.TradeNotional); got != 2 {
		t.Fatalf("expected notional series per side, got %d", got)
	}
}

func TestTradeRejected(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TradeRejected(domain.SideSell, domain.KindInsufficientHoldings)
	m.TradeRejected(domain.SideSell, domain.KindInsufficientHoldings)
	m.TradeRejected(domain.SideBuy, domain.KindInsufficientBalance)

	if got := testutil.ToFloat64(m.TradesRejected.WithLabelValues("SELL", domain.KindInsufficientHoldings)); got != 2 {
		t.Fatalf("expected 2 rejected sells, got %v", got)
	}
	if got := testutil.ToFloat64(m.TradesRejected.WithLabelValues("BUY", domain.KindInsufficientBalance)); got != 1 {
		t.Fatalf("expected 1 rejected buy, got %v", got)
	}
}
