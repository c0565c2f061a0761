package engine

import "tradesim/internal/models"

// Ledger - append-only журнал исполненных сделок и текущие балансы.
//
// Сделки хранятся от новых к старым. Балансы мутируются только здесь,
// строго синхронно с добавлением сделки: других путей изменения Balance
// в системе нет.
//
// Не потокобезопасен сам по себе: сериализуется владельцем (Engine).
type Ledger struct {
	trades  []models.Trade
	balance models.Balance
}

// NewLedger создает журнал со стартовыми балансами симуляции
func NewLedger() *Ledger {
	return &Ledger{
		balance: models.Balance{
			Base:  models.InitialBaseBalance,
			Quote: models.InitialQuoteBalance,
		},
	}
}

// Append добавляет сделку и атомарно применяет дельту баланса.
//
// buy:  base += amount, quote -= total
// sell: base -= amount, quote += total
func (l *Ledger) Append(trade models.Trade) {
	// Новые сделки в начало
	l.trades = append([]models.Trade{trade}, l.trades...)

	if trade.Action == models.ActionBuy {
		l.balance.Base += trade.Amount
		l.balance.Quote -= trade.Total
	} else {
		l.balance.Base -= trade.Amount
		l.balance.Quote += trade.Total
	}
}

// Trades возвращает копию журнала (новые первыми)
func (l *Ledger) Trades() []models.Trade {
	out := make([]models.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Balance возвращает снимок текущих балансов
func (l *Ledger) Balance() models.Balance {
	return l.balance
}

// Len возвращает количество сделок
func (l *Ledger) Len() int {
	return len(l.trades)
}
