package websocket

import (
	"time"

	"tradesim/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypePriceUpdate - новая точка ценового ряда
	// Отправляется на каждом тике генератора (каждые 3 секунды)
	// и при пересеве истории после смены пары
	MessageTypePriceUpdate MessageType = "priceUpdate"

	// MessageTypeOrderUpdate - текущий отложенный ордер
	// data=null означает, что ордера больше нет (исполнен или снят)
	MessageTypeOrderUpdate MessageType = "orderUpdate"

	// MessageTypeTradeExecuted - исполненная сделка
	MessageTypeTradeExecuted MessageType = "tradeExecuted"

	// MessageTypeBalanceUpdate - балансы после сделки
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"

	// MessageTypeMetricsUpdate - пересчитанные показатели торговли
	// Отправляется после каждой исполненной сделки
	MessageTypeMetricsUpdate MessageType = "metricsUpdate"

	// MessageTypeNotification - уведомление о событии движка
	MessageTypeNotification MessageType = "notification"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// Типизированные payload'ы: без map[string]interface{} и рефлексии по месту
// вызова - сериализация по известным типам

// PriceUpdateMessage - сообщение с новой точкой ценового ряда
type PriceUpdateMessage struct {
	BaseMessage
	Data models.PriceTick `json:"data"`
}

// OrderUpdateMessage - сообщение с текущим отложенным ордером (или null)
type OrderUpdateMessage struct {
	BaseMessage
	Data *models.PendingOrder `json:"data"`
}

// TradeExecutedMessage - сообщение об исполненной сделке
type TradeExecutedMessage struct {
	BaseMessage
	Data models.Trade `json:"data"`
}

// BalanceUpdateMessage - сообщение с балансами
type BalanceUpdateMessage struct {
	BaseMessage
	Data models.Balance `json:"data"`
}

// MetricsUpdateMessage - сообщение с показателями торговли
type MetricsUpdateMessage struct {
	BaseMessage
	Data models.Metrics `json:"data"`
}

// NotificationMessage - сообщение с уведомлением
type NotificationMessage struct {
	BaseMessage
	Data models.Notification `json:"data"`
}

func baseMessage(typ MessageType) BaseMessage {
	return BaseMessage{Type: typ, Timestamp: time.Now()}
}
