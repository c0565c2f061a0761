package utils

import "time"

// timeutil.go - границы периодов для фильтрации истории сделок
//
// Используется read-side проекцией GET /api/v1/trades?period=...
// Все границы считаются в UTC, неделя начинается с понедельника (ISO 8601).

// GetDayStart возвращает начало текущего дня (00:00:00 UTC)
func GetDayStart() time.Time {
	return GetDayStartFrom(time.Now().UTC())
}

// GetDayStartFrom возвращает начало дня для указанного времени
func GetDayStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetWeekStart возвращает начало текущей недели (понедельник 00:00:00 UTC)
func GetWeekStart() time.Time {
	return GetWeekStartFrom(time.Now().UTC())
}

// GetWeekStartFrom возвращает начало недели для указанного времени
func GetWeekStartFrom(t time.Time) time.Time {
	t = GetDayStartFrom(t)
	// time.Weekday: воскресенье = 0
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// GetMonthStart возвращает начало текущего месяца (1-е число 00:00:00 UTC)
func GetMonthStart() time.Time {
	return GetMonthStartFrom(time.Now().UTC())
}

// GetMonthStartFrom возвращает начало месяца для указанного времени
func GetMonthStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodStart возвращает границу периода по его имени.
//
// Поддерживаются: "today", "week", "month". Для пустой строки и
// неизвестных значений возвращает нулевое время (без фильтрации).
func PeriodStart(period string) time.Time {
	switch period {
	case "today":
		return GetDayStart()
	case "week":
		return GetWeekStart()
	case "month":
		return GetMonthStart()
	default:
		return time.Time{}
	}
}
