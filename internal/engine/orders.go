package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// orders.go - жизненный цикл единственного отложенного ордера:
// вычисление целевой цены, проверка условия, исполнение, планирование
// следующего ордера после cooldown.
//
// Все *Locked методы вызываются строго под e.mu.

// placeOrderLocked вычисляет целевую цену и выставляет новый ордер.
//
// Действие ордера - противоположное lastAction; цель смещена на
// ratePercentage от текущей цены (после sell - вниз, после buy - вверх).
func (e *Engine) placeOrderLocked() error {
	price, ok := e.feed.Current()
	if !ok {
		return ErrNoPriceAvailable
	}

	s := e.settings.Get()
	order := &models.PendingOrder{
		ID:          uuid.NewString(),
		CreatedAt:   e.now(),
		Pair:        s.Pair,
		Action:      models.OppositeAction(s.LastAction),
		TargetPrice: utils.CalculateTargetPrice(price, s.RatePercentage, s.LastAction),
		Amount:      s.Amount,
		Status:      models.OrderStatusPending,
	}

	e.order = order
	e.setStateLocked(StateOrderPending)
	OrdersPlacedTotal.WithLabelValues(order.Action).Inc()

	e.log.Info("pending order placed",
		zap.String("order_id", order.ID),
		zap.String("action", order.Action),
		zap.Float64("target_price", order.TargetPrice),
	)

	e.hub.BroadcastOrderUpdate(order)
	e.hub.BroadcastNotification(orderPlacedNotification(order))
	return nil
}

// checkOrderLocked сравнивает текущую цену с целевой и исполняет ордер при
// совпадении условия.
//
// Вызывается и на каждом ценовом тике, и по периодическому check-таймеру:
// избыточность намеренная (страхует пропущенные ценовые проверки), дубль
// исполнения исключен пометкой consumed в executeOrderLocked.
func (e *Engine) checkOrderLocked() {
	if !e.settings.Get().Active || e.order == nil {
		return
	}

	start := time.Now()
	defer func() {
		ConditionCheckLatency.Observe(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	price, ok := e.feed.Current()
	if !ok {
		return
	}

	if conditionMet(e.order.Action, price, e.order.TargetPrice) {
		e.executeOrderLocked(e.order)
	}
}

// conditionMet: buy исполняется когда цена упала до цели или ниже,
// sell - когда поднялась до цели или выше
func conditionMet(action string, currentPrice, targetPrice float64) bool {
	if action == models.ActionBuy {
		return currentPrice <= targetPrice
	}
	return currentPrice >= targetPrice
}

// executeOrderLocked исполняет ордер: одна сделка в Ledger, одна дельта
// баланса, один пересчет показателей, затем Cooldown.
//
// Цена сделки - targetPrice ордера, не текущая рыночная (правило
// симуляции). Id ордера помечается consumed до любых побочных эффектов:
// повторный триггер по тому же id отбрасывается.
func (e *Engine) executeOrderLocked(order *models.PendingOrder) {
	if e.consumed[order.ID] {
		return
	}
	e.consumed[order.ID] = true

	s := e.settings.Get()
	trade := models.Trade{
		ID:        uuid.NewString(),
		Timestamp: e.now(),
		Pair:      order.Pair,
		Action:    order.Action,
		Price:     order.TargetPrice,
		Amount:    order.Amount,
		Total:     order.TargetPrice * order.Amount,
		Status:    models.OrderStatusCompleted,
		Mode:      s.Mode,
	}

	e.ledger.Append(trade)
	metrics := e.stats.Apply(trade, s.RatePercentage)
	e.settings.SetLastAction(order.Action)

	e.order = nil
	e.setStateLocked(StateCooldown)
	TradesTotal.WithLabelValues(trade.Action).Inc()

	e.log.Info("order executed",
		zap.String("order_id", order.ID),
		zap.String("trade_id", trade.ID),
		zap.String("action", trade.Action),
		zap.Float64("price", trade.Price),
		zap.Float64("total", trade.Total),
	)

	e.hub.BroadcastTradeExecuted(trade)
	e.hub.BroadcastBalanceUpdate(e.ledger.Balance())
	e.hub.BroadcastMetricsUpdate(metrics)
	e.hub.BroadcastOrderUpdate(nil)
	e.hub.BroadcastNotification(orderExecutedNotification(trade))

	e.scheduleNextOrderLocked()
}

// scheduleNextOrderLocked планирует выставление следующего ордера после
// cooldown. Callback запоминает текущий generation: stop() инкрементирует
// счетчик, и протухший callback узнает себя в момент срабатывания.
func (e *Engine) scheduleNextOrderLocked() {
	gen := e.cooldownGen
	e.scheduler.AfterCooldown(func() {
		e.onCooldownExpired(gen)
	})
}

// onCooldownExpired выставляет следующий ордер, если торговля все еще
// активна. Все проверки - по состоянию В МОМЕНТ срабатывания таймера.
func (e *Engine) onCooldownExpired(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.cooldownGen {
		return // был stop() (возможно и повторный start) после планирования
	}
	if !e.settings.Get().Active || e.state != StateCooldown {
		return
	}

	if err := e.placeOrderLocked(); err != nil {
		e.log.Error("failed to place next order after cooldown", zap.Error(err))
	}
}
