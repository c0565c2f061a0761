package models

import "time"

// Trade представляет исполненную сделку
//
// Неизменяема после добавления в Ledger. Цена фиксируется по targetPrice
// ордера, а не по текущей рыночной цене (правило симуляции).
type Trade struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Pair      string    `json:"pair"`
	Action    string    `json:"action"` // buy, sell
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	Total     float64   `json:"total"`  // price × amount
	Status    string    `json:"status"` // completed
	Mode      string    `json:"mode"`   // simulation, live
}

// Balance представляет текущие балансы
//
// Мутируется только Ledger'ом синхронно с исполнением сделки:
// buy: base += amount, quote -= total; sell - наоборот.
type Balance struct {
	Base  float64 `json:"base"`  // базовый актив (BTC)
	Quote float64 `json:"quote"` // валюта расчетов (USDT)
}

// Стартовые балансы симуляции: 1 BTC и 20000 USDT
const (
	InitialBaseBalance  = 1.0
	InitialQuoteBalance = 20000.0
)
