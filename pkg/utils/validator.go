package utils

import (
	"fmt"
	"regexp"
)

// validator.go - валидация входных данных
//
// Функции:
// - ValidateSymbol: проверка формата символа пары (BTCUSDT)
// - ValidateRatePercentage: проверка порога (> 0)
// - ValidateAmount: проверка объема сделки (> 0)
//
// Возвращают error с описанием проблемы или nil

// symbolPattern: заглавные буквы/цифры, 5-20 символов (BTCUSDT, 1INCHUSDT)
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)

// ValidateSymbol проверяет формат символа торговой пары
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %q (expected e.g. BTCUSDT)", symbol)
	}
	return nil
}

// ValidateRatePercentage проверяет порог стратегии
func ValidateRatePercentage(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("rate percentage must be greater than 0, got %v", rate)
	}
	return nil
}

// ValidateAmount проверяет объем сделки
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("trade amount must be greater than 0, got %v", amount)
	}
	return nil
}
