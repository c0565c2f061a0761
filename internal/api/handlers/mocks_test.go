package handlers

import (
	"sync"

	"tradesim/internal/engine"
	"tradesim/internal/models"
)

// ============ Mock Engine ============

// MockEngine мок для EngineInterface
type MockEngine struct {
	mu sync.Mutex

	settings models.Settings
	state    string

	price    float64
	hasPrice bool
	history  []models.PriceTick

	order   *models.PendingOrder
	trades  []models.Trade
	balance models.Balance
	metrics models.Metrics

	updateErr  error
	toggleErr  error
	startErr   error
	executeErr error

	// Счетчики вызовов
	startCalls   int
	stopCalls    int
	executeCalls int
}

// NewMockEngine создает мок движка с настройками по умолчанию
func NewMockEngine() *MockEngine {
	return &MockEngine{
		settings: models.DefaultSettings(),
		state:    engine.StateIdle,
		balance: models.Balance{
			Base:  models.InitialBaseBalance,
			Quote: models.InitialQuoteBalance,
		},
	}
}

func (m *MockEngine) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *MockEngine) UpdateSettings(req *engine.UpdateSettingsRequest) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return m.settings, m.updateErr
	}

	if req.Mode != nil {
		m.settings.Mode = *req.Mode
	}
	if req.Pair != nil {
		m.settings.Pair = *req.Pair
	}
	if req.RatePercentage != nil {
		m.settings.RatePercentage = *req.RatePercentage
	}
	if req.Amount != nil {
		m.settings.Amount = *req.Amount
	}
	if req.LastAction != nil {
		m.settings.LastAction = *req.LastAction
	}
	return m.settings, nil
}

func (m *MockEngine) ToggleMode() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.toggleErr != nil {
		return "", m.toggleErr
	}
	if m.settings.Mode == models.ModeSimulation {
		m.settings.Mode = models.ModeLive
	} else {
		m.settings.Mode = models.ModeSimulation
	}
	return m.settings.Mode, nil
}

func (m *MockEngine) StartTrading() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startCalls++
	if m.startErr != nil {
		return m.startErr
	}
	m.settings.Active = true
	m.state = engine.StateOrderPending
	return nil
}

func (m *MockEngine) StopTrading() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopCalls++
	m.settings.Active = false
	m.state = engine.StateIdle
	m.order = nil
}

func (m *MockEngine) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockEngine) CurrentPrice() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.price, m.hasPrice
}

func (m *MockEngine) PriceHistory() []models.PriceTick {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history
}

func (m *MockEngine) PendingOrder() *models.PendingOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		return nil
	}
	cp := *m.order
	return &cp
}

func (m *MockEngine) SimulateTargetReached(orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.executeCalls++
	if m.executeErr != nil {
		return m.executeErr
	}
	if m.order == nil || m.order.ID != orderID {
		return engine.ErrOrderNotFound
	}
	m.order = nil
	return nil
}

func (m *MockEngine) Trades() []models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trades
}

func (m *MockEngine) Balance() models.Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

func (m *MockEngine) Metrics() models.Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// ============ Setters для тестовых сценариев ============

func (m *MockEngine) SetPrice(price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.price = price
	m.hasPrice = true
}

func (m *MockEngine) SetOrder(order *models.PendingOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = order
}

func (m *MockEngine) SetTrades(trades []models.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = trades
}

func (m *MockEngine) SetHistory(history []models.PriceTick) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = history
}

func (m *MockEngine) SetMetrics(metrics models.Metrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = metrics
}
