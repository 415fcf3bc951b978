package database

import (
	"github.com/google/uuid"

	"chatcall/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.Preload("Members").First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetRoomByName(name string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Preload("Members").First(&room, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := d.db.Preload("Members").Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// AddMember добавляет пользователя в комнату. Повторное добавление
// не создаёт дубликатов: upsert в room_members ничего не меняет.
func (d *Database) AddMember(roomID, userID uuid.UUID) error {
	room := models.Room{ID: roomID}
	user := models.User{ID: userID}
	return d.db.Model(&room).Association("Members").Append(&user)
}

func (d *Database) IsMember(roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Table("room_members").
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
