package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatcall/internal/database"
)

// DirectoryHandler отдаёт справочные списки для клиентов: комнаты и
// пользователей. Всё остальное взаимодействие идёт через WebSocket.
type DirectoryHandler struct {
	db *database.Database
}

func NewDirectoryHandler(db *database.Database) *DirectoryHandler {
	return &DirectoryHandler{db: db}
}

// ListRooms возвращает все комнаты со списками участников
func (h *DirectoryHandler) ListRooms(c *gin.Context) {
	rooms, err := h.db.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	result := make([]gin.H, len(rooms))
	for i := range rooms {
		room := formatRoom(&rooms[i])
		result[i] = gin.H{
			"id":        room.ID,
			"name":      room.Name,
			"createdBy": room.CreatedBy,
			"members":   room.Members,
			"createdAt": room.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"rooms": result})
}

// ListUsers возвращает всех пользователей без учётных данных
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	users, err := h.db.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	result := make([]gin.H, len(users))
	for i, user := range users {
		result[i] = gin.H{
			"id":       user.ID,
			"username": user.Username,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": result})
}
