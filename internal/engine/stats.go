package engine

import "tradesim/internal/models"

// MetricsAccumulator выводит агрегированные показатели из журнала сделок.
//
// Накопление инкрементальное - Apply вызывается после каждого Append в
// Ledger, что эквивалентно полному пересчету журнала (каждая сделка
// учитывается ровно один раз).
//
// Модель прибыли - УПРОЩЕНИЕ, не mark-to-market P&L: симуляция считает
// каждую сделку успешной, а прибыль и ROI растут только на sell -
// на total × rate/100 и rate соответственно, где rate - настроенный порог
// на момент исполнения. Фактическая цена входа не учитывается.
//
// Конвенция нулевого журнала: winRate = 0 (не NaN).
type MetricsAccumulator struct {
	m models.Metrics
}

// NewMetricsAccumulator создает пустой аккумулятор
func NewMetricsAccumulator() *MetricsAccumulator {
	return &MetricsAccumulator{}
}

// Apply учитывает исполненную сделку и возвращает обновленный снимок.
//
// ratePct - порог, действовавший на момент исполнения сделки.
func (a *MetricsAccumulator) Apply(trade models.Trade, ratePct float64) models.Metrics {
	a.m.TotalTrades++
	a.m.SuccessfulTrades++

	if trade.Action == models.ActionSell {
		a.m.TotalProfit += trade.Total * ratePct / 100
		a.m.ROI += ratePct
	}

	a.m.WinRate = float64(a.m.SuccessfulTrades) / float64(a.m.TotalTrades) * 100

	return a.m
}

// Snapshot возвращает текущий снимок показателей
func (a *MetricsAccumulator) Snapshot() models.Metrics {
	return a.m
}
