package engine

import "errors"

// Ошибки движка. Делятся на три вида (см. маппинг в internal/api):
// - валидация настроек (ValidationError)
// - нарушение state-guard'ов (InvalidStateError)
// - отсутствие цены (NoPriceAvailableError)
//
// Все ошибки восстанавливаются локально: операция отклоняется, состояние
// не меняется, наружу уходит уведомление VALIDATION_FAILED.
var (
	ErrInvalidRatePercentage = errors.New("rate percentage must be greater than 0")
	ErrInvalidAmount         = errors.New("trade amount must be greater than 0")
	ErrInvalidPair           = errors.New("invalid trading pair symbol")
	ErrInvalidMode           = errors.New("mode must be simulation or live")
	ErrInvalidAction         = errors.New("action must be buy or sell")

	ErrAlreadyActive         = errors.New("trading is already active")
	ErrModeChangeWhileActive = errors.New("stop trading before switching modes")
	ErrPairChangeWhileActive = errors.New("stop trading before changing the pair")

	ErrNoPriceAvailable = errors.New("no current price available")

	ErrOrderNotFound = errors.New("pending order not found")
)

// IsValidationError сообщает, относится ли ошибка к ошибкам валидации настроек
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRatePercentage) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPair) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidAction)
}

// IsInvalidStateError сообщает, вызвана ли ошибка нарушением state-guard'а
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrAlreadyActive) ||
		errors.Is(err, ErrModeChangeWhileActive) ||
		errors.Is(err, ErrPairChangeWhileActive)
}

// IsNoPriceError сообщает, вызвана ли ошибка отсутствием ценового тика
func IsNoPriceError(err error) bool {
	return errors.Is(err, ErrNoPriceAvailable)
}
