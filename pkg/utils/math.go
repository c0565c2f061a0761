package utils

import "math"

// math.go - математические утилиты торговой симуляции
//
// Все функции являются чистыми (pure functions) без побочных эффектов.
//
// Функции:
// - CalculateTargetPrice: целевая цена следующего ордера
// - PercentToTarget: удаление текущей цены от целевой в процентах
// - RoundPrice: округление цены для отображения

// CalculateTargetPrice вычисляет целевую цену следующего ордера.
//
// Знак смещения определяется последним исполненным действием:
//   - lastAction=buy  → следующий ордер sell, цель ВЫШЕ текущей цены
//   - lastAction=sell → следующий ордер buy, цель НИЖЕ текущей цены
//
// Параметры:
//   - currentPrice: текущая цена
//   - ratePct: порог в процентах (1.5 означает 1.5%)
//   - lastAction: "buy" или "sell"
//
// Примеры:
//   - CalculateTargetPrice(20000, 1.5, "sell") = 19700.0 (20000 × 0.985)
//   - CalculateTargetPrice(19700, 1.5, "buy")  = 19995.55 (19700 × 1.015)
func CalculateTargetPrice(currentPrice, ratePct float64, lastAction string) float64 {
	multiplier := 1 - ratePct/100
	if lastAction == "buy" {
		multiplier = 1 + ratePct/100
	}
	return currentPrice * multiplier
}

// PercentToTarget возвращает расстояние от текущей цены до целевой в процентах.
//
// Положительное значение - цена должна вырасти до цели,
// отрицательное - упасть. Используется слоем представления
// (прогресс отложенного ордера).
//
// Возвращает 0 при currentPrice <= 0.
func PercentToTarget(currentPrice, targetPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return (targetPrice - currentPrice) / currentPrice * 100
}

// RoundPrice округляет цену до заданного числа знаков после запятой.
//
// Для отображения в сообщениях и уведомлениях; внутренние расчеты
// всегда идут на полных float64.
func RoundPrice(price float64, decimals int) float64 {
	if decimals < 0 {
		return price
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(price*pow) / pow
}
