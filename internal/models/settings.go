package models

// Settings представляет настройки торговой стратегии
//
// Единственная запись, владелец - engine.SettingsStore.
// Пока Active=true смена Mode и Pair запрещена.
type Settings struct {
	Mode           string  `json:"mode"`            // simulation, live
	Pair           string  `json:"pair"`            // торговая пара (BTCUSDT)
	RatePercentage float64 `json:"rate_percentage"` // порог в процентах (> 0)
	Amount         float64 `json:"amount"`          // объем сделки в базовом активе (> 0)
	LastAction     string  `json:"last_action"`     // buy, sell - последнее исполненное действие
	Active         bool    `json:"active"`          // идет ли автоматическая торговля
}

// Режимы торговли
const (
	ModeSimulation = "simulation"
	ModeLive       = "live"
)

// Действия
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// OppositeAction возвращает противоположное действие
func OppositeAction(action string) string {
	if action == ActionBuy {
		return ActionSell
	}
	return ActionBuy
}

// DefaultSettings возвращает настройки по умолчанию
//
// lastAction=sell, поэтому первым действием стратегии будет покупка.
func DefaultSettings() Settings {
	return Settings{
		Mode:           ModeSimulation,
		Pair:           "BTCUSDT",
		RatePercentage: 1.5,
		Amount:         0.01,
		LastAction:     ActionSell,
		Active:         false,
	}
}
