package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// Metrics holds the trade engine's Prometheus metrics.
// It implements usecase.TradeRecorder.
type Metrics struct {
	// Trade metrics
	TradesExecuted *prometheus.CounterVec
	TradesRejected *prometheus.CounterVec
	TradeDuration  *prometheus.HistogramVec
	TradeNotional  *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TradesExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeledger_trades_executed_total",
				Help: "Total number of committed trades by side",
			},
			[]string{"side"},
		),
		TradesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeledger_trades_rejected_total",
				Help: "Total number of rejected trades by side and error kind",
			},
			[]string{"side", "kind"},
		),
		TradeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradeledger_trade_duration_seconds",
				Help:    "Duration of committed trades",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"side"},
		),
		TradeNotional: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradeledger_trade_notional",
				Help:    "Notional (price * quantity) of committed trades",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"side"},
		),
	}
}

// TradeExecuted records a committed trade.
func (m *Metrics) TradeExecuted(side domain.Side, notional decimal.Decimal, duration time.Duration) {
	label := string(side)
	m.TradesExecuted.WithLabelValues(label).Inc()
	m.TradeDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.TradeNotional.WithLabelValues(label).Observe(notional.InexactFloat64())
}

// TradeRejected records a trade that did not commit.
func (m *Metrics) TradeRejected(side domain.Side, kind string) {
	m.TradesRejected.WithLabelValues(string(side), kind).Inc()
}
