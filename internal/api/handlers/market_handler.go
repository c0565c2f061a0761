package handlers

import (
	"net/http"

	"tradesim/internal/engine"
	"tradesim/internal/models"
)

// MarketHandler обрабатывает HTTP запросы к ценовому ряду.
//
// Endpoints:
// - GET /api/v1/market/price - текущая цена
// - GET /api/v1/market/history - история цен (≤ лимита окна)
type MarketHandler struct {
	engine EngineInterface
}

// NewMarketHandler создает новый MarketHandler с внедрением зависимостей.
func NewMarketHandler(eng EngineInterface) *MarketHandler {
	return &MarketHandler{engine: eng}
}

// GetPrice возвращает текущую цену выбранной пары.
//
// GET /api/v1/market/price
//
// Response 200 OK:
//
//	{"pair": "BTCUSDT", "price": 19843.12}
//
// Response 409 Conflict: цены еще нет
func (h *MarketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	price, ok := h.engine.CurrentPrice()
	if !ok {
		writeError(w, engine.ErrNoPriceAvailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pair":  h.engine.Settings().Pair,
		"price": price,
	})
}

// GetHistory возвращает историю цен от старых точек к новым.
//
// GET /api/v1/market/history
//
// Response 200 OK:
//
//	{
//	  "pair": "BTCUSDT",
//	  "history": [{"timestamp": "...", "price": 19820.5}, ...]
//	}
func (h *MarketHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	history := h.engine.PriceHistory()
	// Пустое окно сериализуется как [], не null
	if history == nil {
		history = []models.PriceTick{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pair":    h.engine.Settings().Pair,
		"history": history,
	})
}
