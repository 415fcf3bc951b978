package dto

import "github.com/google/uuid"

// CallAddress — адресная часть сигнального события. Остальной payload
// (SDP, ICE candidate) реле не интерпретирует и пересылает как есть.
type CallAddress struct {
	RoomID uuid.UUID `json:"roomId"`
	Target uuid.UUID `json:"target,omitempty"`
}
