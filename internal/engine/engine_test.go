package engine

import (
	"errors"
	"testing"

	"tradesim/internal/models"
)

// ============================================================
// Жизненный цикл: start → ордер → исполнение → cooldown → следующий ордер
// ============================================================

// TestStartTradingPlacesFirstOrder: из настроек по умолчанию (lastAction=sell,
// rate=1.5) первый ордер - buy с целью на 1.5% ниже текущей цены
func TestStartTradingPlacesFirstOrder(t *testing.T) {
	e, hub, _ := newTestEngine()
	setCurrentPrice(e, 20000)

	if err := e.StartTrading(); err != nil {
		t.Fatalf("StartTrading: %v", err)
	}

	if !e.Settings().Active {
		t.Error("expected active=true after start")
	}
	if got := e.State(); got != StateOrderPending {
		t.Errorf("state = %s, want ORDER_PENDING", got)
	}

	order := e.PendingOrder()
	if order == nil {
		t.Fatal("expected a pending order after start")
	}
	if order.Action != models.ActionBuy {
		t.Errorf("order action = %s, want buy (opposite of sell)", order.Action)
	}
	if !almostEqual(order.TargetPrice, 19700) {
		t.Errorf("target price = %f, want 19700 (20000 × 0.985)", order.TargetPrice)
	}
	if order.Amount != 0.01 {
		t.Errorf("order amount = %f, want 0.01", order.Amount)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("order status = %s, want pending", order.Status)
	}

	if !hub.hasNotification(models.NotificationTypeOrderPlaced) {
		t.Error("expected ORDER_PLACED notification")
	}
	if !hub.hasNotification(models.NotificationTypeTradingStarted) {
		t.Error("expected TRADING_STARTED notification")
	}
}

// TestOrderExecutedAtTargetPrice: цена пересекла цель - сделка фиксируется
// ПО ЦЕЛЕВОЙ цене, баланс и lastAction обновляются, наступает cooldown
func TestOrderExecutedAtTargetPrice(t *testing.T) {
	e, hub, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	// Цена ниже цели 19700 - buy исполняется
	setCurrentPrice(e, 19650)
	e.HandleOrderCheck()

	trades := e.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	trade := trades[0]
	if trade.Action != models.ActionBuy {
		t.Errorf("trade action = %s, want buy", trade.Action)
	}
	if !almostEqual(trade.Price, 19700) {
		t.Errorf("trade price = %f, want the TARGET price 19700", trade.Price)
	}
	if !almostEqual(trade.Total, 197) {
		t.Errorf("trade total = %f, want 197", trade.Total)
	}

	b := e.Balance()
	if !almostEqual(b.Base, 1.01) {
		t.Errorf("base = %f, want 1.01", b.Base)
	}
	if !almostEqual(b.Quote, 19803) {
		t.Errorf("quote = %f, want 19803", b.Quote)
	}

	if got := e.Settings().LastAction; got != models.ActionBuy {
		t.Errorf("lastAction = %s, want buy", got)
	}
	if got := e.State(); got != StateCooldown {
		t.Errorf("state = %s, want COOLDOWN", got)
	}
	if e.PendingOrder() != nil {
		t.Error("pending order must be cleared after execution")
	}
	if len(sched.pending) != 1 {
		t.Errorf("expected 1 scheduled cooldown callback, got %d", len(sched.pending))
	}

	if !hub.hasNotification(models.NotificationTypeOrderExecuted) {
		t.Error("expected ORDER_EXECUTED notification")
	}
}

// TestCooldownPlacesOppositeOrder: после cooldown выставляется ордер
// противоположного направления с целью от текущей цены
func TestCooldownPlacesOppositeOrder(t *testing.T) {
	e, _, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}
	setCurrentPrice(e, 19650)
	e.HandleOrderCheck() // buy исполнен, lastAction=buy

	setCurrentPrice(e, 19700)
	sched.fire()

	order := e.PendingOrder()
	if order == nil {
		t.Fatal("expected next order after cooldown")
	}
	if order.Action != models.ActionSell {
		t.Errorf("next order action = %s, want sell (opposite of buy)", order.Action)
	}
	if !almostEqual(order.TargetPrice, 19700*1.015) {
		t.Errorf("target = %f, want %f (19700 × 1.015)", order.TargetPrice, 19700*1.015)
	}
	if got := e.State(); got != StateOrderPending {
		t.Errorf("state = %s, want ORDER_PENDING", got)
	}
}

// TestBuySellAlternation: направления сделок строго чередуются
func TestBuySellAlternation(t *testing.T) {
	e, _, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		order := e.PendingOrder()
		if order == nil {
			t.Fatalf("iteration %d: no pending order", i)
		}
		// Двигаем цену за цель в нужную сторону
		if order.Action == models.ActionBuy {
			setCurrentPrice(e, order.TargetPrice-1)
		} else {
			setCurrentPrice(e, order.TargetPrice+1)
		}
		e.HandleOrderCheck()
		sched.fire()
	}

	trades := e.Trades() // новые первыми
	if len(trades) != 6 {
		t.Fatalf("expected 6 trades, got %d", len(trades))
	}
	for i := 0; i < len(trades)-1; i++ {
		if trades[i].Action == trades[i+1].Action {
			t.Errorf("consecutive trades %d and %d share action %s", i, i+1, trades[i].Action)
		}
	}
	// Первая сделка (хронологически) - buy
	if trades[len(trades)-1].Action != models.ActionBuy {
		t.Errorf("first trade action = %s, want buy", trades[len(trades)-1].Action)
	}
}

// TestPriceTickAppliesBeforeCheck: исполнение по ценовому тику видит только
// что сгенерированную цену, сделка фиксируется по цели
func TestPriceTickAppliesBeforeCheck(t *testing.T) {
	e, hub, _ := newTestEngine()
	setCurrentPrice(e, 20000)

	// Почти нулевой порог: первый же тик вниз пересекает цель
	if _, err := e.UpdateSettings(&UpdateSettingsRequest{RatePercentage: f64Ptr(0.0001)}); err != nil {
		t.Fatal(err)
	}
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}
	target := e.PendingOrder().TargetPrice

	for i := 0; i < 500 && len(e.Trades()) == 0; i++ {
		e.HandlePriceTick()
	}

	trades := e.Trades()
	if len(trades) == 0 {
		t.Fatal("order never executed over 500 ticks")
	}
	if !almostEqual(trades[0].Price, target) {
		t.Errorf("trade price = %f, want target %f", trades[0].Price, target)
	}

	// priceUpdate излучен раньше tradeExecuted
	var sawPrice bool
	for _, ev := range hub.events {
		if ev == "priceUpdate" {
			sawPrice = true
		}
		if ev == "tradeExecuted" {
			if !sawPrice {
				t.Error("tradeExecuted broadcast before any priceUpdate")
			}
			break
		}
	}
}

// TestSingleOrderInvariant: в любой момент не более одного отложенного
// ордера; orderUpdate(nil) разделяет исполнение и следующий ордер
func TestSingleOrderInvariant(t *testing.T) {
	e, hub, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	setCurrentPrice(e, 19650)
	e.HandleOrderCheck()
	sched.fire()

	// Последовательность orderUpdate: order, nil (исполнен), order
	var got []bool
	for _, o := range hub.orders {
		got = append(got, o != nil)
	}
	want := []bool{true, false, true}
	if len(got) != len(want) {
		t.Fatalf("orderUpdate count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("orderUpdate[%d] non-nil = %v, want %v", i, got[i], want[i])
		}
	}
}

// ============================================================
// Stop / повторный start
// ============================================================

// TestStopCancelsPendingOrder: stop снимает ордер, излучает уведомление
// об отмене и возвращает движок в IDLE
func TestStopCancelsPendingOrder(t *testing.T) {
	e, hub, _ := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	e.StopTrading()

	if e.Settings().Active {
		t.Error("expected active=false after stop")
	}
	if e.PendingOrder() != nil {
		t.Error("pending order must be cancelled on stop")
	}
	if got := e.State(); got != StateIdle {
		t.Errorf("state = %s, want IDLE", got)
	}
	if !hub.hasNotification(models.NotificationTypeOrderCancelled) {
		t.Error("expected ORDER_CANCELLED notification")
	}
	if !hub.hasNotification(models.NotificationTypeTradingStopped) {
		t.Error("expected TRADING_STOPPED notification")
	}
	// Ордер отменен, не исполнен: сделок и дельт баланса нет
	if len(e.Trades()) != 0 {
		t.Error("cancelled order must not produce a trade")
	}
	if b := e.Balance(); !almostEqual(b.Base, 1.0) || !almostEqual(b.Quote, 20000) {
		t.Errorf("balance changed by cancellation: %+v", b)
	}
}

// TestStopIdempotent: повторный stop - no-op без побочных эффектов
func TestStopIdempotent(t *testing.T) {
	e, hub, _ := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	e.StopTrading()
	eventsAfterFirst := len(hub.events)

	e.StopTrading()
	e.StopTrading()

	if len(hub.events) != eventsAfterFirst {
		t.Errorf("repeated stop emitted %d extra events", len(hub.events)-eventsAfterFirst)
	}
	if got := e.State(); got != StateIdle {
		t.Errorf("state = %s, want IDLE", got)
	}
}

// TestStaleCooldownIgnored: cooldown-callback, запланированный до stop,
// не выставляет ордер после повторного start
func TestStaleCooldownIgnored(t *testing.T) {
	e, _, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	setCurrentPrice(e, 19650)
	e.HandleOrderCheck() // исполнение, callback запланирован
	e.StopTrading()      // generation инкрементирован

	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}
	fresh := e.PendingOrder()
	if fresh == nil {
		t.Fatal("expected order after restart")
	}

	// Протухший callback срабатывает и должен узнать себя
	sched.fire()

	after := e.PendingOrder()
	if after == nil || after.ID != fresh.ID {
		t.Error("stale cooldown callback replaced the fresh order")
	}
}

// TestCooldownAfterStopDoesNothing: stop без повторного start - протухший
// callback не оживляет торговлю
func TestCooldownAfterStopDoesNothing(t *testing.T) {
	e, _, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}
	setCurrentPrice(e, 19650)
	e.HandleOrderCheck()
	e.StopTrading()

	sched.fire()

	if e.PendingOrder() != nil {
		t.Error("cooldown after stop must not place an order")
	}
	if got := e.State(); got != StateIdle {
		t.Errorf("state = %s, want IDLE", got)
	}
}

// TestStartErrors проверяет guard'ы запуска
func TestStartErrors(t *testing.T) {
	t.Run("double start rejected", func(t *testing.T) {
		e, hub, _ := newTestEngine()
		setCurrentPrice(e, 20000)
		if err := e.StartTrading(); err != nil {
			t.Fatal(err)
		}
		if err := e.StartTrading(); !errors.Is(err, ErrAlreadyActive) {
			t.Errorf("expected ErrAlreadyActive, got %v", err)
		}
		if !hub.hasNotification(models.NotificationTypeValidationFailed) {
			t.Error("expected VALIDATION_FAILED notification")
		}
	})

	t.Run("no price rejected", func(t *testing.T) {
		e, _, _ := newTestEngine()
		e.mu.Lock()
		e.feed.hasPrice = false
		e.mu.Unlock()

		if err := e.StartTrading(); !errors.Is(err, ErrNoPriceAvailable) {
			t.Errorf("expected ErrNoPriceAvailable, got %v", err)
		}
		if e.Settings().Active {
			t.Error("active must stay false after rejected start")
		}
		if got := e.State(); got != StateIdle {
			t.Errorf("state = %s, want IDLE", got)
		}
	})
}

// ============================================================
// Настройки и режим
// ============================================================

// TestUpdateSettingsRejected: невалидное обновление ничего не меняет и
// излучает VALIDATION_FAILED
func TestUpdateSettingsRejected(t *testing.T) {
	e, hub, _ := newTestEngine()
	before := e.Settings()

	_, err := e.UpdateSettings(&UpdateSettingsRequest{RatePercentage: f64Ptr(-1)})
	if !errors.Is(err, ErrInvalidRatePercentage) {
		t.Fatalf("expected ErrInvalidRatePercentage, got %v", err)
	}

	if e.Settings() != before {
		t.Errorf("settings changed after rejected update: %+v", e.Settings())
	}
	if hub.lastNotificationType() != models.NotificationTypeValidationFailed {
		t.Errorf("last notification = %s, want VALIDATION_FAILED", hub.lastNotificationType())
	}
}

// TestUpdateSettingsPairChangeReseeds: смена пары пересеивает историю
// вокруг базовой цены новой пары
func TestUpdateSettingsPairChangeReseeds(t *testing.T) {
	e, hub, _ := newTestEngine()

	s, err := e.UpdateSettings(&UpdateSettingsRequest{Pair: strPtr("ETHUSDT")})
	if err != nil {
		t.Fatal(err)
	}
	if s.Pair != "ETHUSDT" {
		t.Errorf("pair = %s, want ETHUSDT", s.Pair)
	}

	history := e.PriceHistory()
	if len(history) != 20 {
		t.Fatalf("expected reseeded history (20 points), got %d", len(history))
	}
	base := models.BasePrices["ETHUSDT"]
	for _, tick := range history {
		if tick.Price < base*0.9 || tick.Price > base*1.1 {
			t.Fatalf("history point %f not around ETHUSDT base %f", tick.Price, base)
		}
	}
	if !hub.hasNotification(models.NotificationTypeSettingsUpdated) {
		t.Error("expected SETTINGS_UPDATED notification")
	}
}

// TestToggleMode: переключение в live пересеивает историю и предупреждает,
// что live-режим симулируется
func TestToggleMode(t *testing.T) {
	e, hub, _ := newTestEngine()

	mode, err := e.ToggleMode()
	if err != nil {
		t.Fatal(err)
	}
	if mode != models.ModeLive {
		t.Errorf("mode = %s, want live", mode)
	}

	var sawSimulatedNotice bool
	for _, n := range hub.notifications {
		if n.Type == models.NotificationTypeModeChanged && n.Message == "Live mode is simulated for this demo" {
			sawSimulatedNotice = true
		}
	}
	if !sawSimulatedNotice {
		t.Error("expected the live-mode-is-simulated notice")
	}

	// Обратно в simulation - без предупреждения, счетчик MODE_CHANGED растет
	if _, err := e.ToggleMode(); err != nil {
		t.Fatal(err)
	}
	if e.Settings().Mode != models.ModeSimulation {
		t.Errorf("mode = %s, want simulation", e.Settings().Mode)
	}
}

// TestToggleModeWhileActive: смена режима при активной торговле запрещена
func TestToggleModeWhileActive(t *testing.T) {
	e, _, _ := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	if _, err := e.ToggleMode(); !errors.Is(err, ErrModeChangeWhileActive) {
		t.Errorf("expected ErrModeChangeWhileActive, got %v", err)
	}
}

// ============================================================
// Показатели и ручное исполнение
// ============================================================

// TestMetricsZeroWithoutTrades: до первой сделки все показатели нулевые,
// winRate = 0 (не NaN)
func TestMetricsZeroWithoutTrades(t *testing.T) {
	e, _, _ := newTestEngine()

	m := e.Metrics()
	if m.TotalTrades != 0 || m.TotalProfit != 0 || m.ROI != 0 || m.WinRate != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

// TestMetricsAfterRoundTrip: buy не приносит прибыли, sell добавляет
// total × rate/100 и rate к ROI
func TestMetricsAfterRoundTrip(t *testing.T) {
	e, _, sched := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}

	// buy по 19700
	setCurrentPrice(e, 19650)
	e.HandleOrderCheck()

	m := e.Metrics()
	if m.TotalTrades != 1 || m.TotalProfit != 0 || m.ROI != 0 {
		t.Errorf("after buy: %+v, want 1 trade and zero profit/roi", m)
	}
	if m.WinRate != 100 {
		t.Errorf("winRate = %f, want 100", m.WinRate)
	}

	// sell после cooldown
	setCurrentPrice(e, 19700)
	sched.fire()
	sellTarget := e.PendingOrder().TargetPrice
	setCurrentPrice(e, sellTarget+1)
	e.HandleOrderCheck()

	m = e.Metrics()
	if m.TotalTrades != 2 {
		t.Fatalf("totalTrades = %d, want 2", m.TotalTrades)
	}
	wantProfit := sellTarget * 0.01 * 1.5 / 100
	if !almostEqual(m.TotalProfit, wantProfit) {
		t.Errorf("profit = %f, want %f", m.TotalProfit, wantProfit)
	}
	if !almostEqual(m.ROI, 1.5) {
		t.Errorf("roi = %f, want 1.5", m.ROI)
	}
}

// TestSimulateTargetReached: ручной триггер исполняет ордер по целевой цене
func TestSimulateTargetReached(t *testing.T) {
	e, _, _ := newTestEngine()
	setCurrentPrice(e, 20000)
	if err := e.StartTrading(); err != nil {
		t.Fatal(err)
	}
	order := e.PendingOrder()

	if err := e.SimulateTargetReached("no-such-id"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown id: expected ErrOrderNotFound, got %v", err)
	}

	if err := e.SimulateTargetReached(order.ID); err != nil {
		t.Fatalf("SimulateTargetReached: %v", err)
	}

	trades := e.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if !almostEqual(trades[0].Price, order.TargetPrice) {
		t.Errorf("trade price = %f, want target %f", trades[0].Price, order.TargetPrice)
	}

	// Повторный триггер по исполненному ордеру отбрасывается
	if err := e.SimulateTargetReached(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("consumed id: expected ErrOrderNotFound, got %v", err)
	}
	if len(e.Trades()) != 1 {
		t.Error("duplicate trigger produced a second trade")
	}
}

// TestPriceMovesWhileInactive: ценовой ряд живет и при остановленной
// торговле, но сделки не появляются
func TestPriceMovesWhileInactive(t *testing.T) {
	e, hub, _ := newTestEngine()

	for i := 0; i < 5; i++ {
		e.HandlePriceTick()
	}

	if len(hub.prices) != 5 {
		t.Errorf("price updates = %d, want 5", len(hub.prices))
	}
	if len(e.Trades()) != 0 {
		t.Error("inactive engine must not trade")
	}
	if e.PendingOrder() != nil {
		t.Error("inactive engine must not place orders")
	}
}
