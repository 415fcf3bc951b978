package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"chatcall/internal/models"
)

// SaveMessage присваивает сообщению следующий Seq внутри комнаты и сохраняет его.
func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		err := tx.Model(&models.Message{}).
			Where("room_id = ?", message.RoomID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}
		message.Seq = maxSeq + 1
		return tx.Create(message).Error
	})
}

func (d *Database) GetMessage(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (d *Database) SetMessageDeleted(id uuid.UUID, deleted bool) error {
	return d.db.Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_deleted", deleted).Error
}

// GetRoomHistory возвращает последние limit сообщений комнаты,
// отсортированные от старых к новым.
func (d *Database) GetRoomHistory(roomID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.
		Where("room_id = ?", roomID).
		Order("created_at DESC, seq DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Разворачиваем порядок, чтобы старые сообщения были первыми
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
