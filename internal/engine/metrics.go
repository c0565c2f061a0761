package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики торгового ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации симуляции
// - Анализ поведения стратегии на длинных прогонах

// PriceTicksTotal - количество сгенерированных ценовых тиков
var PriceTicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "price_ticks_total",
		Help:      "Total number of generated price ticks",
	},
)

// CurrentPriceGauge - текущая синтетическая цена пары
var CurrentPriceGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "current_price",
		Help:      "Current synthetic price by pair",
	},
	[]string{"pair"},
)

// OrdersPlacedTotal - выставленные отложенные ордера по действию
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "orders_placed_total",
		Help:      "Total number of placed pending orders",
	},
	[]string{"action"},
)

// OrdersCancelledTotal - ордера, снятые при остановке торговли
var OrdersCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "orders_cancelled_total",
		Help:      "Total number of cancelled pending orders",
	},
)

// TradesTotal - исполненные сделки по действию
var TradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "trades_total",
		Help:      "Total number of executed trades",
	},
	[]string{"action"},
)

// TradingActive - 1 когда стратегия активна, иначе 0
var TradingActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "trading_active",
		Help:      "Whether the strategy is currently active (1 or 0)",
	},
)

// StateTransitionsTotal - переходы состояний OrderEngine
var StateTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "state_transitions_total",
		Help:      "Total number of order engine state transitions",
	},
	[]string{"from", "to"},
)

// ConditionCheckLatency - время проверки условия исполнения ордера
var ConditionCheckLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "condition_check_latency_ms",
		Help:      "Time to evaluate the pending order condition in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	},
)
