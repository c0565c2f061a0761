package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConnectedClients - количество подключенных WebSocket клиентов
var ConnectedClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "tradesim",
		Subsystem: "websocket",
		Name:      "connected_clients",
		Help:      "Current number of connected WebSocket clients",
	},
)

// DroppedMessagesTotal - сообщения, отброшенные при переполнении broadcast-канала
var DroppedMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "websocket",
		Name:      "dropped_messages_total",
		Help:      "Total number of broadcast messages dropped due to backpressure",
	},
)
