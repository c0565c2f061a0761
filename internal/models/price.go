package models

import "time"

// PriceTick представляет одну точку синтетического ценового ряда
//
// Неизменяема после создания. Владелец последовательности - PriceFeed,
// история ограничена (FIFO, см. PriceHistoryLimit в конфигурации).
type PriceTick struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// Базовые цены пар для генерации синтетического ряда.
// Неизвестные пары получают DefaultBasePrice.
var BasePrices = map[string]float64{
	"BTCUSDT": 20000,
	"ETHUSDT": 1500,
	"BNBUSDT": 300,
	"XRPUSDT": 0.5,
	"ADAUSDT": 0.35,
}

// DefaultBasePrice - базовая цена для пар вне списка BasePrices
const DefaultBasePrice = 20000

// BasePrice возвращает базовую цену пары
func BasePrice(pair string) float64 {
	if p, ok := BasePrices[pair]; ok {
		return p
	}
	return DefaultBasePrice
}
