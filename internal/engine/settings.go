package engine

import (
	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// UpdateSettingsRequest представляет частичное обновление настроек.
// Все поля опциональны - обновляются только переданные.
type UpdateSettingsRequest struct {
	Mode           *string  `json:"mode,omitempty"`
	Pair           *string  `json:"pair,omitempty"`
	RatePercentage *float64 `json:"rate_percentage,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	LastAction     *string  `json:"last_action,omitempty"`
}

// SettingsStore владеет настройками стратегии и флагом активности.
//
// Валидирует и применяет частичные обновления. Пока Active=true смена
// режима и пары запрещена - сначала stop(). Отклоненное обновление не
// меняет ничего: сначала валидируются все поля, затем применяется merge.
//
// Не потокобезопасен сам по себе: сериализуется владельцем (Engine).
type SettingsStore struct {
	s models.Settings
}

// NewSettingsStore создает хранилище с настройками по умолчанию
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{s: models.DefaultSettings()}
}

// Get возвращает снимок текущих настроек
func (st *SettingsStore) Get() models.Settings {
	return st.s
}

// Apply валидирует и применяет частичное обновление.
//
// Возвращает флаг смены пары (вызывающему нужно пересеять PriceFeed)
// и ошибку. При ошибке настройки остаются прежними.
func (st *SettingsStore) Apply(req *UpdateSettingsRequest) (pairChanged bool, err error) {
	// Сначала валидируем все поля, применяем только потом
	if req.Mode != nil {
		if *req.Mode != models.ModeSimulation && *req.Mode != models.ModeLive {
			return false, ErrInvalidMode
		}
		if st.s.Active && *req.Mode != st.s.Mode {
			return false, ErrModeChangeWhileActive
		}
	}

	if req.Pair != nil {
		if utils.ValidateSymbol(*req.Pair) != nil {
			return false, ErrInvalidPair
		}
		if st.s.Active && *req.Pair != st.s.Pair {
			return false, ErrPairChangeWhileActive
		}
	}

	if req.RatePercentage != nil && utils.ValidateRatePercentage(*req.RatePercentage) != nil {
		return false, ErrInvalidRatePercentage
	}

	if req.Amount != nil && utils.ValidateAmount(*req.Amount) != nil {
		return false, ErrInvalidAmount
	}

	if req.LastAction != nil {
		if *req.LastAction != models.ActionBuy && *req.LastAction != models.ActionSell {
			return false, ErrInvalidAction
		}
	}

	// Merge
	if req.Mode != nil {
		st.s.Mode = *req.Mode
	}
	if req.Pair != nil {
		pairChanged = *req.Pair != st.s.Pair
		st.s.Pair = *req.Pair
	}
	if req.RatePercentage != nil {
		st.s.RatePercentage = *req.RatePercentage
	}
	if req.Amount != nil {
		st.s.Amount = *req.Amount
	}
	if req.LastAction != nil {
		st.s.LastAction = *req.LastAction
	}

	return pairChanged, nil
}

// ToggleMode переключает режим simulation ↔ live.
//
// Запрещено при активной торговле. Возвращает новый режим.
func (st *SettingsStore) ToggleMode() (string, error) {
	if st.s.Active {
		return "", ErrModeChangeWhileActive
	}

	if st.s.Mode == models.ModeSimulation {
		st.s.Mode = models.ModeLive
	} else {
		st.s.Mode = models.ModeSimulation
	}
	return st.s.Mode, nil
}

// SetActive выставляет флаг активности
func (st *SettingsStore) SetActive(active bool) {
	st.s.Active = active
}

// SetLastAction фиксирует последнее исполненное действие
func (st *SettingsStore) SetLastAction(action string) {
	st.s.LastAction = action
}
