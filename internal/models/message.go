package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_messages_room_seq"`
	SenderID uuid.UUID `gorm:"type:uuid;not null"`
	Text     string    `gorm:"not null"`
	// Seq нумерует сообщения комнаты в порядке вставки,
	// чтобы разрешать совпадения по created_at.
	Seq       int64     `gorm:"not null;uniqueIndex:uq_messages_room_seq"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	Sender User `gorm:"foreignKey:SenderID"`
	Room   Room `gorm:"foreignKey:RoomID"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
