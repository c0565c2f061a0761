package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// OrderHandler обрабатывает HTTP запросы к отложенному ордеру.
//
// Endpoints:
// - GET /api/v1/orders/pending - текущий отложенный ордер (или null)
// - POST /api/v1/orders/{id}/execute - принудительное исполнение
//   (эмуляция достижения целевой цены)
type OrderHandler struct {
	engine EngineInterface
}

// NewOrderHandler создает новый OrderHandler с внедрением зависимостей.
func NewOrderHandler(eng EngineInterface) *OrderHandler {
	return &OrderHandler{engine: eng}
}

// PendingOrderResponse - отложенный ордер с расстоянием до цели
type PendingOrderResponse struct {
	Order *models.PendingOrder `json:"order"`

	// Расстояние текущей цены до целевой в процентах; отсутствует,
	// когда ордера или цены нет
	PercentToTarget *float64 `json:"percent_to_target,omitempty"`
}

// GetPendingOrder возвращает текущий отложенный ордер.
//
// GET /api/v1/orders/pending
//
// Response 200 OK:
//
//	{"order": {...}, "percent_to_target": 0.72}
//	{"order": null}
func (h *OrderHandler) GetPendingOrder(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	resp := PendingOrderResponse{Order: h.engine.PendingOrder()}
	if resp.Order != nil {
		if price, ok := h.engine.CurrentPrice(); ok {
			pct := utils.PercentToTarget(price, resp.Order.TargetPrice)
			resp.PercentToTarget = &pct
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ExecuteOrder принудительно исполняет ордер по его целевой цене.
//
// POST /api/v1/orders/{id}/execute
//
// Response 200 OK:
//
//	{"message": "order executed"}
//
// Response 404 Not Found: ордера с таким id нет (или уже исполнен)
func (h *OrderHandler) ExecuteOrder(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "engine not initialized"})
		return
	}

	orderID := mux.Vars(r)["id"]
	if err := h.engine.SimulateTargetReached(orderID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Message: "order executed"})
}
