package engine

// Состояния OrderEngine
const (
	// StateIdle - стратегия не запущена, ордеров нет
	StateIdle = "IDLE"

	// StateAwaitingFirstOrder - active только что включен, первый ордер
	// еще не выставлен. Переходное состояние, проходится мгновенно.
	StateAwaitingFirstOrder = "AWAITING_FIRST_ORDER"

	// StateOrderPending - выставлен один отложенный ордер
	StateOrderPending = "ORDER_PENDING"

	// StateCooldown - ордер исполнен, следующий запланирован после паузы
	StateCooldown = "COOLDOWN"
)

// ValidTransitions определяет допустимые переходы между состояниями
var ValidTransitions = map[string][]string{
	StateIdle:               {StateAwaitingFirstOrder},
	StateAwaitingFirstOrder: {StateOrderPending, StateIdle}, // Idle при ошибке выставления
	StateOrderPending:       {StateCooldown, StateIdle},     // Idle при stop()
	StateCooldown:           {StateOrderPending, StateIdle}, // Idle при stop()
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// StateInfo возвращает описание состояния для UI
func StateInfo(s string) string {
	switch s {
	case StateIdle:
		return "Стратегия остановлена"
	case StateAwaitingFirstOrder:
		return "Выставление первого ордера..."
	case StateOrderPending:
		return "Ожидание целевой цены"
	case StateCooldown:
		return "Пауза перед следующим ордером"
	default:
		return "Неизвестное состояние"
	}
}

// IsTrading возвращает true если стратегия активно работает
func IsTrading(s string) bool {
	return s == StateAwaitingFirstOrder || s == StateOrderPending || s == StateCooldown
}
