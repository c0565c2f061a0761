package engine

import (
	"fmt"
	"strings"
	"time"

	"tradesim/internal/models"
)

// EventHub - интерфейс слоя доставки событий клиентам.
//
// Реализуется пакетом internal/websocket (Hub). Движок излагает
// семантические события и НЕ зависит от механизма показа уведомлений:
// это оставляет ядро тестируемым без какого-либо рендеринга.
type EventHub interface {
	// BroadcastPriceUpdate отправляет новую точку ценового ряда.
	// Вызывается на каждом тике PriceFeed (и при пересеве истории).
	BroadcastPriceUpdate(tick models.PriceTick)

	// BroadcastOrderUpdate отправляет текущий отложенный ордер.
	// nil означает, что ордера больше нет (исполнен или снят).
	BroadcastOrderUpdate(order *models.PendingOrder)

	// BroadcastTradeExecuted отправляет исполненную сделку
	BroadcastTradeExecuted(trade models.Trade)

	// BroadcastBalanceUpdate отправляет балансы после сделки
	BroadcastBalanceUpdate(balance models.Balance)

	// BroadcastMetricsUpdate отправляет пересчитанные показатели
	BroadcastMetricsUpdate(metrics models.Metrics)

	// BroadcastNotification отправляет уведомление о событии
	BroadcastNotification(notif models.Notification)
}

// NopHub - заглушка EventHub (движок без подписчиков)
type NopHub struct{}

func (NopHub) BroadcastPriceUpdate(models.PriceTick)     {}
func (NopHub) BroadcastOrderUpdate(*models.PendingOrder) {}
func (NopHub) BroadcastTradeExecuted(models.Trade)       {}
func (NopHub) BroadcastBalanceUpdate(models.Balance)     {}
func (NopHub) BroadcastMetricsUpdate(models.Metrics)     {}
func (NopHub) BroadcastNotification(models.Notification) {}

// ============================================================
// Конструкторы уведомлений
// ============================================================

func newNotification(typ, severity, message string, meta map[string]interface{}) models.Notification {
	return models.Notification{
		Timestamp: time.Now(),
		Type:      typ,
		Severity:  severity,
		Message:   message,
		Meta:      meta,
	}
}

// orderPlacedNotification: "BUY order placed at target price: $19700.00"
func orderPlacedNotification(order *models.PendingOrder) models.Notification {
	return newNotification(
		models.NotificationTypeOrderPlaced,
		models.SeverityInfo,
		fmt.Sprintf("%s order placed at target price: $%.2f",
			strings.ToUpper(order.Action), order.TargetPrice),
		map[string]interface{}{"order_id": order.ID, "pair": order.Pair},
	)
}

// orderExecutedNotification: "BUY order executed at $19700.00"
func orderExecutedNotification(trade models.Trade) models.Notification {
	return newNotification(
		models.NotificationTypeOrderExecuted,
		models.SeverityInfo,
		fmt.Sprintf("%s order executed at $%.2f", strings.ToUpper(trade.Action), trade.Price),
		map[string]interface{}{"trade_id": trade.ID, "pair": trade.Pair, "total": trade.Total},
	)
}

// orderCancelledNotification: "Canceling pending BUY order"
func orderCancelledNotification(order *models.PendingOrder) models.Notification {
	return newNotification(
		models.NotificationTypeOrderCancelled,
		models.SeverityInfo,
		fmt.Sprintf("Canceling pending %s order", strings.ToUpper(order.Action)),
		map[string]interface{}{"order_id": order.ID},
	)
}

func validationFailedNotification(err error) models.Notification {
	return newNotification(
		models.NotificationTypeValidationFailed,
		models.SeverityError,
		err.Error(),
		nil,
	)
}
