package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"tradesim/internal/config"
	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// Engine - ядро торговой симуляции.
//
// Единственный владелец всего мутабельного состояния: настроек, ценового
// ряда, журнала сделок, показателей и отложенного ордера. Все коллабораторы
// (HTTP handlers, WebSocket hub, SimulationClock) работают только через
// командные методы движка - никаких общих глобальных переменных.
//
// Модель конкурентности - single-writer: каждая мутация проходит через
// один мьютекс. Триггеров три: ценовой тик, периодическая проверка ордера
// и одноразовый cooldown-таймер; между ними могут вклиниться внешние
// команды (start/stop, обновление настроек), поэтому каждый callback
// перепроверяет состояние в момент срабатывания.
//
// Гарантии порядка:
// - новая цена применяется ДО проверки условия, вызванной этим же тиком;
// - в любой наблюдаемый момент существует не более одного PendingOrder;
// - stop() синхронно снимает ордер и обесценивает запланированные
//   cooldown-callbacks (generation counter, проверка при срабатывании).
type Engine struct {
	mu sync.Mutex

	cfg config.SimulationConfig

	settings *SettingsStore
	feed     *PriceFeed
	ledger   *Ledger
	stats    *MetricsAccumulator

	clock     *SimulationClock
	scheduler cooldownScheduler

	hub EventHub
	log *utils.Logger

	state string
	order *models.PendingOrder

	// Id исполненных ордеров: любой повторный триггер по тому же id
	// отбрасывается (подавление дублей при совпадении таймеров)
	consumed map[string]bool

	// Generation для cooldown-таймеров; инкрементируется в stop()
	cooldownGen uint64

	// Источник времени; подменяется в тестах
	now func() time.Time
}

// NewEngine создает движок и сразу сеет стартовую историю цен, чтобы
// текущая цена была доступна до первого тика (как в исходной симуляции).
//
// rng используется PriceFeed; nil означает недетерминированный источник.
func NewEngine(cfg config.SimulationConfig, hub EventHub, logger *utils.Logger, rng *rand.Rand) *Engine {
	if hub == nil {
		hub = NopHub{}
	}
	if logger == nil {
		logger = utils.L()
	}

	clock := NewSimulationClock(cfg)
	e := &Engine{
		cfg:       cfg,
		settings:  NewSettingsStore(),
		feed:      NewPriceFeed(cfg, rng),
		ledger:    NewLedger(),
		stats:     NewMetricsAccumulator(),
		clock:     clock,
		scheduler: clock,
		hub:       hub,
		log:       logger.WithComponent("engine"),
		state:     StateIdle,
		consumed:  make(map[string]bool),
		now:       time.Now,
	}

	s := e.settings.Get()
	tick := e.feed.Seed(s.Pair, e.now())
	CurrentPriceGauge.WithLabelValues(s.Pair).Set(tick.Price)

	return e
}

// Run запускает SimulationClock и блокируется до отмены контекста.
//
// Таймеры живут все время жизни процесса: цена продолжает двигаться и при
// неактивной торговле (UI liveness), движок сам игнорирует check-тики,
// когда стратегия остановлена.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("simulation clock started",
		zap.Duration("price_tick_interval", e.cfg.PriceTickInterval),
		zap.Duration("order_check_interval", e.cfg.OrderCheckInterval),
	)
	return e.clock.Run(ctx, e)
}

// ============================================================
// Триггеры SimulationClock
// ============================================================

// HandlePriceTick генерирует новую цену и сразу же, под тем же захватом
// мьютекса, проверяет условие ордера: проверка никогда не видит устаревшую
// цену.
func (e *Engine) HandlePriceTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick, ok := e.feed.Tick(e.now())
	if !ok {
		return
	}

	PriceTicksTotal.Inc()
	CurrentPriceGauge.WithLabelValues(e.settings.Get().Pair).Set(tick.Price)
	e.hub.BroadcastPriceUpdate(tick)

	e.checkOrderLocked()
}

// HandleOrderCheck - периодическая проверка условия независимо от ценовых
// тиков (страхует пропущенные проверки; дубль исполнения исключен)
func (e *Engine) HandleOrderCheck() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkOrderLocked()
}

// ============================================================
// Командная поверхность (вызывается слоем представления)
// ============================================================

// Settings возвращает снимок текущих настроек
func (e *Engine) Settings() models.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.Get()
}

// UpdateSettings применяет частичное обновление настроек.
//
// Отклоненное обновление не меняет ничего и излучает VALIDATION_FAILED.
// Смена пары пересеивает ценовой ряд (история очищается).
func (e *Engine) UpdateSettings(req *UpdateSettingsRequest) (models.Settings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pairChanged, err := e.settings.Apply(req)
	if err != nil {
		return e.settings.Get(), e.rejectLocked(err)
	}

	s := e.settings.Get()
	if pairChanged {
		tick := e.feed.Seed(s.Pair, e.now())
		CurrentPriceGauge.WithLabelValues(s.Pair).Set(tick.Price)
		e.hub.BroadcastPriceUpdate(tick)
		e.log.Info("pair changed, price history reseeded", zap.String("pair", s.Pair))
	}

	e.hub.BroadcastNotification(newNotification(
		models.NotificationTypeSettingsUpdated,
		models.SeverityInfo,
		"Settings updated successfully",
		nil,
	))
	return s, nil
}

// ToggleMode переключает режим simulation ↔ live.
//
// Отклоняется при активной торговле. История цен пересеивается, как при
// смене источника данных.
func (e *Engine) ToggleMode() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mode, err := e.settings.ToggleMode()
	if err != nil {
		return "", e.rejectLocked(err)
	}

	tick := e.feed.Seed(e.settings.Get().Pair, e.now())
	e.hub.BroadcastPriceUpdate(tick)

	e.hub.BroadcastNotification(newNotification(
		models.NotificationTypeModeChanged,
		models.SeverityInfo,
		fmt.Sprintf("Switched to %s mode", mode),
		nil,
	))
	if mode == models.ModeLive {
		// Реального подключения к бирже нет
		e.hub.BroadcastNotification(newNotification(
			models.NotificationTypeModeChanged,
			models.SeverityInfo,
			"Live mode is simulated for this demo",
			nil,
		))
	}

	e.log.Info("trading mode switched", zap.String("mode", mode))
	return mode, nil
}

// StartTrading запускает стратегию: Idle → AwaitingFirstOrder →
// OrderPending с первым ордером.
//
// Отклоняется, если торговля уже активна или нет текущей цены.
func (e *Engine) StartTrading() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settings.Get().Active {
		return e.rejectLocked(ErrAlreadyActive)
	}
	if _, ok := e.feed.Current(); !ok {
		return e.rejectLocked(ErrNoPriceAvailable)
	}

	e.settings.SetActive(true)
	TradingActive.Set(1)
	e.setStateLocked(StateAwaitingFirstOrder)

	if err := e.placeOrderLocked(); err != nil {
		// Откат: первый ордер выставить не удалось
		e.settings.SetActive(false)
		TradingActive.Set(0)
		e.setStateLocked(StateIdle)
		return e.rejectLocked(err)
	}

	e.hub.BroadcastNotification(newNotification(
		models.NotificationTypeTradingStarted,
		models.SeverityInfo,
		"Trading started",
		nil,
	))
	e.log.Info("trading started")
	return nil
}

// StopTrading останавливает стратегию и синхронно снимает отложенный ордер.
//
// Идемпотентна: повторный вызов при неактивной торговле - no-op без
// ошибок и без повторных побочных эффектов.
func (e *Engine) StopTrading() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.settings.Get().Active {
		return
	}

	e.settings.SetActive(false)
	TradingActive.Set(0)

	// Обесцениваем запланированные cooldown-callbacks
	e.cooldownGen++

	if e.order != nil {
		e.hub.BroadcastNotification(orderCancelledNotification(e.order))
		OrdersCancelledTotal.Inc()
		e.order = nil
		e.hub.BroadcastOrderUpdate(nil)
	}

	e.setStateLocked(StateIdle)

	e.hub.BroadcastNotification(newNotification(
		models.NotificationTypeTradingStopped,
		models.SeverityInfo,
		"Trading stopped",
		nil,
	))
	e.log.Info("trading stopped")
}

// SimulateTargetReached принудительно исполняет ордер, как если бы цена
// достигла цели (ручной триггер для демо и тестов)
func (e *Engine) SimulateTargetReached(orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.order == nil || e.order.ID != orderID || e.consumed[orderID] {
		return ErrOrderNotFound
	}

	e.executeOrderLocked(e.order)
	return nil
}

// ============================================================
// Запросы (снимки состояния для наблюдателей)
// ============================================================

// CurrentPrice возвращает последнюю цену и флаг ее наличия
func (e *Engine) CurrentPrice() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feed.Current()
}

// PriceHistory возвращает копию истории цен (старейшая первой, ≤ лимита)
func (e *Engine) PriceHistory() []models.PriceTick {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feed.History()
}

// PendingOrder возвращает копию отложенного ордера или nil
func (e *Engine) PendingOrder() *models.PendingOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.order == nil {
		return nil
	}
	cp := *e.order
	return &cp
}

// Trades возвращает копию журнала сделок (новые первыми)
func (e *Engine) Trades() []models.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Trades()
}

// Balance возвращает снимок балансов
func (e *Engine) Balance() models.Balance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Balance()
}

// Metrics возвращает снимок агрегированных показателей
func (e *Engine) Metrics() models.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Snapshot()
}

// State возвращает текущее состояние OrderEngine
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ============================================================
// Внутреннее
// ============================================================

// setStateLocked переводит state machine в новое состояние
func (e *Engine) setStateLocked(to string) {
	if e.state == to {
		return
	}
	if !CanTransition(e.state, to) {
		// Внутренняя ошибка логики переходов; фиксируем, но не падаем
		e.log.Warn("unexpected state transition",
			zap.String("from", e.state),
			zap.String("to", to),
		)
	}
	StateTransitionsTotal.WithLabelValues(e.state, to).Inc()
	e.state = to
}

// rejectLocked излучает уведомление об отклоненной операции и возвращает
// ошибку вызывающему. Состояние движка при этом не изменилось.
func (e *Engine) rejectLocked(err error) error {
	e.log.Warn("operation rejected", zap.Error(err))
	e.hub.BroadcastNotification(validationFailedNotification(err))
	return err
}
