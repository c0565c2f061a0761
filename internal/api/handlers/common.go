package handlers

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"tradesim/internal/engine"
	"tradesim/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EngineInterface - командная поверхность движка, видимая handlers.
//
// Интерфейс на стороне потребителя: в тестах подменяется MockEngine
// (см. mocks_test.go), в рантайме реализуется *engine.Engine.
type EngineInterface interface {
	Settings() models.Settings
	UpdateSettings(req *engine.UpdateSettingsRequest) (models.Settings, error)
	ToggleMode() (string, error)

	StartTrading() error
	StopTrading()
	State() string

	CurrentPrice() (float64, bool)
	PriceHistory() []models.PriceTick

	PendingOrder() *models.PendingOrder
	SimulateTargetReached(orderID string) error

	Trades() []models.Trade
	Balance() models.Balance
	Metrics() models.Metrics
}

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse стандартный формат успешного ответа
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// writeJSON сериализует payload и пишет его с данным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError мапит ошибку движка на HTTP статус и пишет ErrorResponse
//
// Маппинг:
// - ошибки валидации настроек → 400
// - нарушения state-guard'ов и отсутствие цены → 409
// - неизвестный ордер → 404
// - все остальное → 500
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case engine.IsValidationError(err):
		status = http.StatusBadRequest
		code = "validation_failed"
	case engine.IsInvalidStateError(err):
		status = http.StatusConflict
		code = "invalid_state"
	case engine.IsNoPriceError(err):
		status = http.StatusConflict
		code = "no_price"
	case errors.Is(err, engine.ErrOrderNotFound):
		status = http.StatusNotFound
		code = "order_not_found"
	}

	writeJSON(w, status, ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
