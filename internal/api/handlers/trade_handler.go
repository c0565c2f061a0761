package handlers

import (
	"net/http"

	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// TradeHandler обрабатывает HTTP запросы к журналу сделок и показателям.
//
// Endpoints:
// - GET /api/v1/trades?period=today|week|month - журнал сделок
// - GET /api/v1/balance - текущие балансы
// - GET /api/v1/metrics - агрегированные показатели торговли
type TradeHandler struct {
	engine EngineInterface
}

// NewTradeHandler создает новый TradeHandler с внедрением зависимостей.
func NewTradeHandler(eng EngineInterface) *TradeHandler {
	return &TradeHandler{engine: eng}
}

// GetTrades возвращает журнал сделок от новых к старым.
//
// GET /api/v1/trades?period=today|week|month
//
// Query Parameters:
// - period (optional): граница фильтрации; без нее возвращается весь журнал
//
// Response 200 OK:
//
//	[{"id": "...", "action": "buy", "price": 19700, ...}, ...]
//
// Response 400 Bad Request:
//
//	{"error": "invalid period", "valid_periods": ["today", "week", "month"]}
func (h *TradeHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	period := r.URL.Query().Get("period")
	if period != "" {
		validPeriods := map[string]bool{
			"today": true,
			"week":  true,
			"month": true,
		}
		if !validPeriods[period] {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":         "invalid period",
				"valid_periods": []string{"today", "week", "month"},
			})
			return
		}
	}

	trades := h.engine.Trades()
	if since := utils.PeriodStart(period); !since.IsZero() {
		filtered := make([]models.Trade, 0, len(trades))
		for _, trade := range trades {
			if !trade.Timestamp.Before(since) {
				filtered = append(filtered, trade)
			}
		}
		trades = filtered
	}

	// Пустой журнал сериализуется как [], не null
	if trades == nil {
		trades = []models.Trade{}
	}

	writeJSON(w, http.StatusOK, trades)
}

// GetBalance возвращает текущие балансы симуляции.
//
// GET /api/v1/balance
//
// Response 200 OK:
//
//	{"base": 1.01, "quote": 19803.0}
func (h *TradeHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Balance())
}

// GetMetrics возвращает агрегированные показатели торговли.
//
// GET /api/v1/metrics
//
// Response 200 OK:
//
//	{
//	  "total_trades": 4,
//	  "successful_trades": 4,
//	  "total_profit": 5.99,
//	  "roi": 3.0,
//	  "win_rate": 100
//	}
func (h *TradeHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Metrics())
}
