package websocket

import (
	"bytes"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

var jsonFast = jsoniter.ConfigCompatibleWithStandardLibrary

// Пул JSON-буферов: убирает аллокации на каждом Broadcast
var jsonBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// Hub управляет всеми активными WebSocket соединениями
//
// Назначение:
// Центральный менеджер для broadcast сообщений всем подключенным клиентам.
// Обеспечивает real-time обновления данных на frontend без необходимости polling.
//
// Функции:
// - Регистрация новых WebSocket клиентов
// - Отмена регистрации отключенных клиентов
// - Broadcast сообщений всем активным клиентам
// - Маршрутизация сообщений по типам (priceUpdate, orderUpdate, tradeExecuted, ...)
// - Очистка отключенных и медленных соединений
// - Потокобезопасная работа с клиентами (sync.RWMutex)
//
// Hub реализует engine.EventHub: движок излучает семантические события,
// hub превращает их в типизированные сообщения и рассылает.
//
// Использование:
// 1. Создать hub: hub := NewHub(logger)
// 2. Запустить в горутине: go hub.Run()
// 3. Передать движку как EventHub
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Broadcast канал для отправки сообщений всем клиентам
	broadcast chan []byte

	// Регистрация нового клиента
	register chan *Client

	// Отмена регистрации клиента
	unregister chan *Client

	// Остановка главного цикла
	done chan struct{}

	// Счетчик сообщений, отброшенных при переполнении broadcast-канала
	droppedMessages atomic.Int64

	// Mutex для потокобезопасного доступа к clients
	mu sync.RWMutex

	log *utils.Logger
}

// NewHub создает новый Hub
func NewHub(logger *utils.Logger) *Hub {
	if logger == nil {
		logger = utils.L()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.WithComponent("websocket"),
	}
}

// Stop останавливает главный цикл Hub
func (h *Hub) Stop() {
	close(h.done)
}

// Run запускает главный цикл Hub
//
// Должен запускаться в отдельной горутине: go hub.Run()
// Обрабатывает регистрацию, отмену регистрации и broadcast.
//
// Рассылка идет без удержания Lock: список клиентов копируется под
// коротким RLock, медленные клиенты удаляются отдельным Write Lock.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			// Закрываем все клиентские каналы и выходим
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			ConnectedClients.Set(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			ConnectedClients.Set(float64(total))
			h.log.Info("client connected", zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			ConnectedClients.Set(float64(total))
			h.log.Info("client disconnected", zap.Int("total_clients", total))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает обрабатывать сообщения
					toRemove = append(toRemove, client)
				}
			}

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				total := len(h.clients)
				h.mu.Unlock()
				ConnectedClients.Set(float64(total))
				h.log.Warn("removed slow clients",
					zap.Int("removed", len(toRemove)),
					zap.Int("total_clients", total),
				)
			}
		}
	}
}

// Broadcast сериализует сообщение и ставит его в очередь рассылки.
// Использует sync.Pool для буферов и jsoniter для сериализации.
func (h *Hub) Broadcast(message interface{}) {
	buf := jsonBufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	if err := jsonFast.NewEncoder(buf).Encode(message); err != nil {
		h.log.Error("failed to marshal broadcast message", zap.Error(err))
		jsonBufferPool.Put(buf)
		return
	}

	// Убираем trailing newline от Encode
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	// Копируем данные: буфер вернется в пул
	msgCopy := make([]byte, len(data))
	copy(msgCopy, data)
	jsonBufferPool.Put(buf)

	h.BroadcastRaw(msgCopy)
}

// BroadcastRaw ставит уже сериализованное сообщение в очередь рассылки.
//
// Не блокирует: вызывается из движка под его мьютексом, поэтому при
// переполнении канала сообщение отбрасывается, а не стопорит торговлю.
func (h *Hub) BroadcastRaw(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.droppedMessages.Add(1)
		DroppedMessagesTotal.Inc()
	}
}

// DroppedMessages возвращает количество отброшенных сообщений
func (h *Hub) DroppedMessages() int64 {
	return h.droppedMessages.Load()
}

// ============================================================
// engine.EventHub
// ============================================================

// BroadcastPriceUpdate отправляет новую точку ценового ряда
func (h *Hub) BroadcastPriceUpdate(tick models.PriceTick) {
	h.Broadcast(&PriceUpdateMessage{
		BaseMessage: baseMessage(MessageTypePriceUpdate),
		Data:        tick,
	})
}

// BroadcastOrderUpdate отправляет текущий отложенный ордер (nil → data=null)
func (h *Hub) BroadcastOrderUpdate(order *models.PendingOrder) {
	h.Broadcast(&OrderUpdateMessage{
		BaseMessage: baseMessage(MessageTypeOrderUpdate),
		Data:        order,
	})
}

// BroadcastTradeExecuted отправляет исполненную сделку
func (h *Hub) BroadcastTradeExecuted(trade models.Trade) {
	h.Broadcast(&TradeExecutedMessage{
		BaseMessage: baseMessage(MessageTypeTradeExecuted),
		Data:        trade,
	})
}

// BroadcastBalanceUpdate отправляет балансы после сделки
func (h *Hub) BroadcastBalanceUpdate(balance models.Balance) {
	h.Broadcast(&BalanceUpdateMessage{
		BaseMessage: baseMessage(MessageTypeBalanceUpdate),
		Data:        balance,
	})
}

// BroadcastMetricsUpdate отправляет показатели торговли
func (h *Hub) BroadcastMetricsUpdate(metrics models.Metrics) {
	h.Broadcast(&MetricsUpdateMessage{
		BaseMessage: baseMessage(MessageTypeMetricsUpdate),
		Data:        metrics,
	})
}

// BroadcastNotification отправляет уведомление
func (h *Hub) BroadcastNotification(notif models.Notification) {
	h.Broadcast(&NotificationMessage{
		BaseMessage: baseMessage(MessageTypeNotification),
		Data:        notif,
	})
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
