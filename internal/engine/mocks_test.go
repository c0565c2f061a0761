package engine

import (
	"math/rand"
	"time"

	"tradesim/internal/config"
	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// ============================================================
// Test Mocks and Helpers
// ============================================================

// recordingHub записывает все события движка в порядке излучения
type recordingHub struct {
	events []string // имена событий в порядке излучения

	prices        []models.PriceTick
	orders        []*models.PendingOrder // nil-элементы тоже записываются
	trades        []models.Trade
	balances      []models.Balance
	metrics       []models.Metrics
	notifications []models.Notification
}

func (h *recordingHub) BroadcastPriceUpdate(tick models.PriceTick) {
	h.events = append(h.events, "priceUpdate")
	h.prices = append(h.prices, tick)
}

func (h *recordingHub) BroadcastOrderUpdate(order *models.PendingOrder) {
	h.events = append(h.events, "orderUpdate")
	if order != nil {
		cp := *order
		order = &cp
	}
	h.orders = append(h.orders, order)
}

func (h *recordingHub) BroadcastTradeExecuted(trade models.Trade) {
	h.events = append(h.events, "tradeExecuted")
	h.trades = append(h.trades, trade)
}

func (h *recordingHub) BroadcastBalanceUpdate(balance models.Balance) {
	h.events = append(h.events, "balanceUpdate")
	h.balances = append(h.balances, balance)
}

func (h *recordingHub) BroadcastMetricsUpdate(m models.Metrics) {
	h.events = append(h.events, "metricsUpdate")
	h.metrics = append(h.metrics, m)
}

func (h *recordingHub) BroadcastNotification(n models.Notification) {
	h.events = append(h.events, "notification")
	h.notifications = append(h.notifications, n)
}

// lastNotificationType возвращает тип последнего уведомления или ""
func (h *recordingHub) lastNotificationType() string {
	if len(h.notifications) == 0 {
		return ""
	}
	return h.notifications[len(h.notifications)-1].Type
}

// hasNotification сообщает, было ли излучено уведомление данного типа
func (h *recordingHub) hasNotification(typ string) bool {
	for _, n := range h.notifications {
		if n.Type == typ {
			return true
		}
	}
	return false
}

// manualScheduler заменяет реальный cooldown-таймер: callbacks копятся и
// срабатывают только по явному fire() из теста
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) AfterCooldown(fn func()) {
	s.pending = append(s.pending, fn)
}

// fire срабатывает все накопленные callbacks и очищает очередь
func (s *manualScheduler) fire() {
	cbs := s.pending
	s.pending = nil
	for _, fn := range cbs {
		fn()
	}
}

func testSimConfig() config.SimulationConfig {
	return config.SimulationConfig{
		PriceTickInterval:  3 * time.Second,
		OrderCheckInterval: 10 * time.Second,
		OrderCooldown:      10 * time.Second,
		Volatility:         0.005,
		SeedJitter:         0.10,
		SeedPoints:         20,
		PriceHistoryLimit:  100,
	}
}

func testLogger() *utils.Logger {
	return utils.InitLogger(utils.LogConfig{Level: "error", Format: "console"})
}

// newTestEngine создает движок с детерминированным rng, ручным cooldown и
// записывающим hub
func newTestEngine() (*Engine, *recordingHub, *manualScheduler) {
	hub := &recordingHub{}
	sched := &manualScheduler{}

	e := NewEngine(testSimConfig(), hub, testLogger(), rand.New(rand.NewSource(42)))
	e.scheduler = sched
	return e, hub, sched
}

// setCurrentPrice выставляет текущую цену напрямую (детерминизм сценариев)
func setCurrentPrice(e *Engine, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feed.current = price
	e.feed.hasPrice = true
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	diff := a - b
	return diff < eps && diff > -eps
}
