package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub владеет всем состоянием подписок: кто подключен, какие соединения
// принадлежат пользователю и кто подписан на какую комнату. Создаётся один
// раз при старте сервера и передаётся обработчикам явно, без глобальных
// переменных. Все методы безопасны для конкурентного вызова; подписки на
// одну комнату сериализуются общим мьютексом, поэтому конкурентные join
// сходятся к одному множеству подписчиков.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Соединения по UserID (один пользователь может иметь несколько соединений)
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	// Подписчики комнат
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:       make(map[uuid.UUID]map[uuid.UUID]*Client),
	}
}

// Register регистрирует аутентифицированное соединение
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	log.Printf("Client registered: %s (User: %s)", client.ID, client.UserID)
}

// Unregister снимает соединение со всех подписок и возвращает список комнат,
// на которые оно было подписано, чтобы вызывающий мог доубрать состояние
// звонков.
func (h *Hub) Unregister(client *Client) []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return nil
	}

	subscribed := client.RoomIDs()
	for _, roomID := range subscribed {
		h.removeFromRoomUnsafe(client, roomID)
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (User: %s)", client.ID, client.UserID)

	return subscribed
}

// Subscribe подписывает соединение на события комнаты. Повторная подписка
// ничего не меняет.
func (h *Hub) Subscribe(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}

	h.rooms[roomID][client.ID] = client
	client.mu.Lock()
	client.Rooms[roomID] = true
	client.mu.Unlock()
}

func (h *Hub) removeFromRoomUnsafe(client *Client, roomID uuid.UUID) {
	if room, ok := h.rooms[roomID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	client.mu.Lock()
	delete(client.Rooms, roomID)
	client.mu.Unlock()
}

// SendToAll отправляет событие всем подключенным соединениям
func (h *Hub) SendToAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		h.deliver(client, message)
	}
}

// SendToRoom отправляет событие всем подписчикам комнаты
func (h *Hub) SendToRoom(roomID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomExceptUnsafe(roomID, message, uuid.Nil)
}

// SendToRoomExcept отправляет событие подписчикам комнаты, кроме одного
// соединения (обычно отправителя)
func (h *Hub) SendToRoomExcept(roomID uuid.UUID, message []byte, excludeID uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomExceptUnsafe(roomID, message, excludeID)
}

func (h *Hub) sendToRoomExceptUnsafe(roomID uuid.UUID, message []byte, excludeID uuid.UUID) {
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			if client.ID != excludeID {
				h.deliver(client, message)
			}
		}
	}
}

// SendToUser отправляет событие всем соединениям пользователя
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.userClients[userID]; ok {
		for _, client := range clients {
			h.deliver(client, message)
		}
	}
}

func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Printf("Client %s send channel full, dropping event", client.ID)
	}
}

// RoomUserIDs возвращает пользователей, подписанных на комнату
func (h *Hub) RoomUserIDs(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userMap := make(map[uuid.UUID]bool)
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			userMap[client.UserID] = true
		}
	}

	users := make([]uuid.UUID, 0, len(userMap))
	for userID := range userMap {
		users = append(users, userID)
	}
	return users
}

// Stop закрывает все соединения при остановке сервера
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.userClients = make(map[uuid.UUID]map[uuid.UUID]*Client)
	h.rooms = make(map[uuid.UUID]map[uuid.UUID]*Client)
}
