package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 512 * 1024 // 512KB
)

// ClientEventHandler обрабатывает события живого соединения
type ClientEventHandler interface {
	HandleEvent(client *Client, evt *Event) error
	HandleDisconnect(client *Client, roomIDs []uuid.UUID)
}

// Client — эфемерная сессия одного соединения. Создаётся только после
// успешной аутентификации и живёт до разрыва соединения.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Rooms    map[uuid.UUID]bool
	Hub      *Hub
	mu       sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, username string) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Rooms:    make(map[uuid.UUID]bool),
		Hub:      hub,
	}
}

// ReadPump читает события от клиента и передаёт их обработчику.
// События одного соединения обрабатываются строго по одному.
func (c *Client) ReadPump(handler ClientEventHandler) {
	defer func() {
		roomIDs := c.Hub.Unregister(c)
		if handler != nil {
			handler.HandleDisconnect(c, roomIDs)
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		err := c.Conn.ReadJSON(&evt)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Идентичность отправителя всегда берётся из сессии
		evt.SenderID = c.UserID
		evt.SenderName = c.Username

		if handler != nil {
			if err := handler.HandleEvent(c, &evt); err != nil {
				log.Printf("Error handling %s from %s: %v", evt.Type, c.UserID, err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump отправляет события клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent ставит событие в очередь отправки этому соединению
func (c *Client) SendEvent(t EventType, data interface{}) error {
	evt, err := NewEvent(t, data)
	if err != nil {
		return err
	}

	encoded, err := evt.Encode()
	if err != nil {
		return err
	}

	select {
	case c.Send <- encoded:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// SendError отправляет событие error только этому соединению
func (c *Client) SendError(message string) {
	c.SendEvent(EventError, map[string]string{
		"message": message,
	})
}

func (c *Client) IsInRoom(roomID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Rooms[roomID]
}

func (c *Client) RoomIDs() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]uuid.UUID, 0, len(c.Rooms))
	for roomID := range c.Rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}
