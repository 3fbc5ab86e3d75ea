package live

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to live feed websockets.
type Handler struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewHandler builds the /ws/live handler.
func NewHandler(hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Handler {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Handler{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	sub := NewSubscriber(id, conn, h.writeTimeout, h.logger, func(id string) {
		h.hub.Remove(id)
		h.logger.Info("live subscriber disconnected", zap.String("subscriber_id", id))
	})
	h.hub.Add(r.Context(), sub)

	go sub.Start()
	h.logger.Info("live subscriber connected", zap.String("subscriber_id", id))
}
