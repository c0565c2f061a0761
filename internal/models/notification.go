package models

import "time"

// Notification представляет семантическое событие движка
//
// Движок только излагает факт (тип, важность, сообщение); способ показа
// (toast, лог, websocket push) выбирает слой представления.
type Notification struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`     // ORDER_PLACED, ORDER_EXECUTED, ...
	Severity  string                 `json:"severity"` // info, warn, error
	Message   string                 `json:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty"` // дополнительные данные (ордер, цена)
}

// Типы уведомлений
const (
	NotificationTypeOrderPlaced      = "ORDER_PLACED"      // выставлен отложенный ордер
	NotificationTypeOrderExecuted    = "ORDER_EXECUTED"    // ордер исполнен, сделка записана
	NotificationTypeOrderCancelled   = "ORDER_CANCELLED"   // ордер снят при остановке
	NotificationTypeModeChanged      = "MODE_CHANGED"      // переключен режим торговли
	NotificationTypeTradingStarted   = "TRADING_STARTED"   // стратегия запущена
	NotificationTypeTradingStopped   = "TRADING_STOPPED"   // стратегия остановлена
	NotificationTypeSettingsUpdated  = "SETTINGS_UPDATED"  // настройки обновлены
	NotificationTypeValidationFailed = "VALIDATION_FAILED" // операция отклонена
)

// Уровни важности
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)
