package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chatcall/internal/middleware"
	ws "chatcall/internal/websocket"
)

// WebSocketHandler поднимает соединение до WebSocket. Аутентификация
// выполняется middleware до апгрейда, ровно один раз на соединение:
// без валидного токена сессия не создаётся и события не обрабатываются.
type WebSocketHandler struct {
	hub      *ws.Hub
	events   *EventDispatcher
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, events *EventDispatcher) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	username := c.GetString(middleware.UsernameKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, userID.(uuid.UUID), username)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.events)
}
