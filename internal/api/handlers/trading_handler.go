package handlers

import (
	"net/http"

	"tradesim/internal/engine"
)

// TradingHandler обрабатывает HTTP запросы запуска и остановки стратегии.
//
// Endpoints:
// - POST /api/v1/trading/start - запустить автоматическую торговлю
// - POST /api/v1/trading/stop - остановить (идемпотентно)
// - GET /api/v1/trading/status - текущее состояние стратегии
type TradingHandler struct {
	engine EngineInterface
}

// NewTradingHandler создает новый TradingHandler с внедрением зависимостей.
func NewTradingHandler(eng EngineInterface) *TradingHandler {
	return &TradingHandler{engine: eng}
}

// StartTrading запускает стратегию и выставляет первый ордер.
//
// POST /api/v1/trading/start
//
// Response 200 OK:
//
//	{"message": "trading started", "data": {"state": "ORDER_PENDING"}}
//
// Response 409 Conflict: торговля уже активна или нет текущей цены
func (h *TradingHandler) StartTrading(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	if err := h.engine.StartTrading(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{
		Message: "trading started",
		Data:    map[string]string{"state": h.engine.State()},
	})
}

// StopTrading останавливает стратегию и снимает отложенный ордер.
//
// Идемпотентна: повторный stop возвращает тот же успешный ответ.
//
// POST /api/v1/trading/stop
//
// Response 200 OK:
//
//	{"message": "trading stopped", "data": {"state": "IDLE"}}
func (h *TradingHandler) StopTrading(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	h.engine.StopTrading()

	writeJSON(w, http.StatusOK, SuccessResponse{
		Message: "trading stopped",
		Data:    map[string]string{"state": h.engine.State()},
	})
}

// GetStatus возвращает текущее состояние стратегии.
//
// GET /api/v1/trading/status
//
// Response 200 OK:
//
//	{"state": "ORDER_PENDING", "description": "...", "active": true}
func (h *TradingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	state := h.engine.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":       state,
		"description": engine.StateInfo(state),
		"active":      engine.IsTrading(state),
	})
}
