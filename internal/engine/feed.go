package engine

import (
	"math/rand"
	"time"

	"tradesim/internal/config"
	"tradesim/internal/models"
)

// PriceFeed генерирует синтетический ценовой ряд и хранит ограниченное окно
// истории.
//
// Не потокобезопасен сам по себе: все вызовы сериализуются владельцем
// (Engine) под его мьютексом. Наблюдатели получают копии, не внутренние
// слайсы.
type PriceFeed struct {
	rng *rand.Rand

	volatility   float64 // максимальное изменение за тик, доля
	seedJitter   float64 // разброс стартовой истории вокруг базовой цены
	seedPoints   int
	historyLimit int

	history  []models.PriceTick
	current  float64
	hasPrice bool
}

// NewPriceFeed создает PriceFeed с параметрами из конфигурации.
//
// rng передается снаружи: в тестах - детерминированный источник.
func NewPriceFeed(cfg config.SimulationConfig, rng *rand.Rand) *PriceFeed {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	seedPoints := cfg.SeedPoints
	if seedPoints < 1 {
		// Seed обязан выдать хотя бы одну точку - иначе нет текущей цены
		seedPoints = 1
	}
	return &PriceFeed{
		rng:          rng,
		volatility:   cfg.Volatility,
		seedJitter:   cfg.SeedJitter,
		seedPoints:   seedPoints,
		historyLimit: cfg.PriceHistoryLimit,
	}
}

// Seed генерирует стартовую историю вокруг базовой цены пары.
//
// Точки расставлены с шагом в минуту и заканчиваются "сейчас"; текущей
// ценой становится последняя точка. Прежняя история отбрасывается -
// вызывается при старте и при каждой смене пары.
func (f *PriceFeed) Seed(pair string, now time.Time) models.PriceTick {
	base := models.BasePrice(pair)

	f.history = make([]models.PriceTick, 0, f.seedPoints)
	for i := 0; i < f.seedPoints; i++ {
		jitter := f.uniform(f.seedJitter)
		tick := models.PriceTick{
			Timestamp: now.Add(-time.Duration(f.seedPoints-1-i) * time.Minute),
			Price:     base * (1 + jitter),
		}
		f.history = append(f.history, tick)
	}

	last := f.history[len(f.history)-1]
	f.current = last.Price
	f.hasPrice = true
	return last
}

// Tick генерирует следующую цену: prev × (1 + U(-v, v)).
//
// Добавляет точку в историю, вытесняя старейшую при переполнении окна.
// Если предыдущей цены нет - no-op.
func (f *PriceFeed) Tick(now time.Time) (models.PriceTick, bool) {
	if !f.hasPrice {
		return models.PriceTick{}, false
	}

	tick := models.PriceTick{
		Timestamp: now,
		Price:     f.current * (1 + f.uniform(f.volatility)),
	}

	f.history = append(f.history, tick)
	if len(f.history) > f.historyLimit {
		// FIFO: вытесняем старейшие точки
		f.history = f.history[len(f.history)-f.historyLimit:]
	}

	f.current = tick.Price
	return tick, true
}

// Current возвращает текущую цену и флаг ее наличия
func (f *PriceFeed) Current() (float64, bool) {
	return f.current, f.hasPrice
}

// History возвращает копию истории (старейшая точка первой)
func (f *PriceFeed) History() []models.PriceTick {
	out := make([]models.PriceTick, len(f.history))
	copy(out, f.history)
	return out
}

// uniform возвращает равномерно распределенное значение из (-bound, bound)
func (f *PriceFeed) uniform(bound float64) float64 {
	return (f.rng.Float64()*2 - 1) * bound
}
