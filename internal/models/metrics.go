package models

// Metrics представляет агрегированные показатели стратегии
//
// Полностью выводятся из содержимого Ledger, пересчитываются после каждой
// сделки и никогда не мутируются независимо.
//
// ВАЖНО: TotalProfit и ROI - упрощение, а не mark-to-market P&L.
// Симуляция считает каждую сделку успешной; прибыль начисляется только на
// sell как total × rate/100 (rate - настроенный порог на момент сделки),
// фактическая цена входа не учитывается.
type Metrics struct {
	TotalTrades      int     `json:"total_trades"`
	SuccessfulTrades int     `json:"successful_trades"`
	TotalProfit      float64 `json:"total_profit"`
	ROI              float64 `json:"roi"`
	WinRate          float64 `json:"win_rate"` // 0 при отсутствии сделок (см. engine/stats.go)
}
