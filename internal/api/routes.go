package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradesim/internal/api/handlers"
	"tradesim/internal/api/middleware"
	"tradesim/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Engine handlers.EngineInterface
	Hub    *websocket.Hub
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута и применяет middleware.
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /settings/
//	│   ├── GET / - текущие настройки стратегии
//	│   ├── PATCH / - частичное обновление настроек
//	│   └── POST /mode - переключение simulation ↔ live
//	├── /trading/
//	│   ├── POST /start - запустить автоматическую торговлю
//	│   ├── POST /stop - остановить (идемпотентно)
//	│   └── GET /status - текущее состояние стратегии
//	├── /market/
//	│   ├── GET /price - текущая цена пары
//	│   └── GET /history - история цен (окно ≤ 100 точек)
//	├── /orders/
//	│   ├── GET /pending - отложенный ордер (или null)
//	│   └── POST /{id}/execute - принудительное исполнение
//	├── GET /trades?period=today|week|month - журнал сделок
//	├── GET /balance - текущие балансы
//	└── GET /metrics - показатели торговли
//
// /metrics - Prometheus exposition
// /ws/stream - WebSocket для real-time обновлений
// /health - health check
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var (
		settingsHandler *handlers.SettingsHandler
		tradingHandler  *handlers.TradingHandler
		marketHandler   *handlers.MarketHandler
		orderHandler    *handlers.OrderHandler
		tradeHandler    *handlers.TradeHandler
	)
	if deps != nil && deps.Engine != nil {
		settingsHandler = handlers.NewSettingsHandler(deps.Engine)
		tradingHandler = handlers.NewTradingHandler(deps.Engine)
		marketHandler = handlers.NewMarketHandler(deps.Engine)
		orderHandler = handlers.NewOrderHandler(deps.Engine)
		tradeHandler = handlers.NewTradeHandler(deps.Engine)
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Settings routes
	if settingsHandler != nil {
		api.HandleFunc("/settings", settingsHandler.GetSettings).Methods("GET")
		api.HandleFunc("/settings", settingsHandler.UpdateSettings).Methods("PATCH")
		api.HandleFunc("/settings/mode", settingsHandler.ToggleMode).Methods("POST")
	}

	// Trading routes
	if tradingHandler != nil {
		api.HandleFunc("/trading/start", tradingHandler.StartTrading).Methods("POST")
		api.HandleFunc("/trading/stop", tradingHandler.StopTrading).Methods("POST")
		api.HandleFunc("/trading/status", tradingHandler.GetStatus).Methods("GET")
	}

	// Market routes
	if marketHandler != nil {
		api.HandleFunc("/market/price", marketHandler.GetPrice).Methods("GET")
		api.HandleFunc("/market/history", marketHandler.GetHistory).Methods("GET")
	}

	// Order routes
	if orderHandler != nil {
		api.HandleFunc("/orders/pending", orderHandler.GetPendingOrder).Methods("GET")
		api.HandleFunc("/orders/{id}/execute", orderHandler.ExecuteOrder).Methods("POST")
	}

	// Trade / balance / metrics routes
	if tradeHandler != nil {
		api.HandleFunc("/trades", tradeHandler.GetTrades).Methods("GET")
		api.HandleFunc("/balance", tradeHandler.GetBalance).Methods("GET")
		api.HandleFunc("/metrics", tradeHandler.GetMetrics).Methods("GET")
	}

	// Prometheus exposition
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
