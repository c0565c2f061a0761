package models

import "time"

// PendingOrder представляет единственный отложенный ордер стратегии
//
// В каждый момент времени существует не более одного PendingOrder.
// Создается при старте торговли или после исполнения предыдущего ордера
// (по истечении cooldown), уничтожается при исполнении или остановке.
type PendingOrder struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Pair        string    `json:"pair"`
	Action      string    `json:"action"`       // buy, sell
	TargetPrice float64   `json:"target_price"` // цена исполнения
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"` // pending
}

// Статусы ордера
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)
