package handlers

import (
	"net/http"

	"tradesim/internal/engine"
)

// SettingsHandler обрабатывает HTTP запросы для настроек стратегии.
//
// Endpoints:
// - GET /api/v1/settings - текущие настройки
// - PATCH /api/v1/settings - частичное обновление
// - POST /api/v1/settings/mode - переключение simulation ↔ live
//
// Настройки:
// - mode: источник данных (simulation, live)
// - pair: торговая пара (BTCUSDT)
// - rate_percentage: порог целевой цены в процентах (> 0)
// - amount: объем сделки в базовом активе (> 0)
// - last_action: последнее исполненное действие (buy, sell)
type SettingsHandler struct {
	engine EngineInterface
}

// NewSettingsHandler создает новый SettingsHandler с внедрением зависимостей.
func NewSettingsHandler(eng EngineInterface) *SettingsHandler {
	return &SettingsHandler{engine: eng}
}

// GetSettings возвращает текущие настройки стратегии.
//
// GET /api/v1/settings
//
// Response 200 OK:
//
//	{
//	  "mode": "simulation",
//	  "pair": "BTCUSDT",
//	  "rate_percentage": 1.5,
//	  "amount": 0.01,
//	  "last_action": "sell",
//	  "active": false
//	}
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Settings())
}

// UpdateSettings применяет частичное обновление настроек.
//
// PATCH /api/v1/settings
//
// Request body (все поля опциональны):
//
//	{"rate_percentage": 2.0, "amount": 0.05}
//
// Response 200 OK: обновленный объект настроек
// Response 400 Bad Request: невалидное значение - ничего не изменилось
// Response 409 Conflict: смена пары/режима при активной торговле
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	var req engine.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Code:    "bad_json",
			Details: err.Error(),
		})
		return
	}

	settings, err := h.engine.UpdateSettings(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// ToggleMode переключает режим simulation ↔ live.
//
// POST /api/v1/settings/mode
//
// Response 200 OK:
//
//	{"mode": "live"}
//
// Response 409 Conflict: торговля активна - сначала stop
func (h *SettingsHandler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	mode, err := h.engine.ToggleMode()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mode": mode})
}
