package engine

import (
	"context"
	"time"

	"tradesim/internal/config"
)

// ClockHandler - получатель периодических триггеров SimulationClock
type ClockHandler interface {
	// HandlePriceTick вызывается по таймеру генерации цены
	HandlePriceTick()

	// HandleOrderCheck вызывается по таймеру проверки условия ордера
	HandleOrderCheck()
}

// cooldownScheduler планирует одноразовый отложенный вызов после исполнения
// ордера. Выделен в интерфейс, чтобы тесты управляли временем вручную.
type cooldownScheduler interface {
	AfterCooldown(fn func())
}

// SimulationClock владеет всеми таймерами симуляции: периодическим тиком
// цены (3s), периодической проверкой ордера (10s) и одноразовыми
// cooldown-таймерами.
//
// Работает все время жизни процесса независимо от флага active: цена
// продолжает двигаться для UI и при остановленной торговле. Сами callbacks
// обязаны перепроверять актуальное состояние в момент срабатывания, а не в
// момент планирования (guard по active и generation в Engine).
type SimulationClock struct {
	priceInterval time.Duration
	checkInterval time.Duration
	cooldown      time.Duration
}

// NewSimulationClock создает часы с интервалами из конфигурации
func NewSimulationClock(cfg config.SimulationConfig) *SimulationClock {
	return &SimulationClock{
		priceInterval: cfg.PriceTickInterval,
		checkInterval: cfg.OrderCheckInterval,
		cooldown:      cfg.OrderCooldown,
	}
}

// Run крутит оба периодических таймера до отмены контекста.
//
// Запускается в отдельной горутине: go clock.Run(ctx, engine)
func (c *SimulationClock) Run(ctx context.Context, h ClockHandler) error {
	priceTicker := time.NewTicker(c.priceInterval)
	checkTicker := time.NewTicker(c.checkInterval)
	defer priceTicker.Stop()
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-priceTicker.C:
			h.HandlePriceTick()
		case <-checkTicker.C:
			h.HandleOrderCheck()
		}
	}
}

// AfterCooldown планирует одноразовый вызов fn по истечении cooldown.
//
// Таймер не отменяется явно: fn обязана сама проверить активность и
// generation в момент срабатывания.
func (c *SimulationClock) AfterCooldown(fn func()) {
	time.AfterFunc(c.cooldown, fn)
}
