package models

import "github.com/gogonoten/johotel/src/types"

type Room struct {
	ID         uint               `gorm:"primarykey" json:"id"`
	RoomNumber int                `gorm:"uniqueIndex;not null" json:"room_number"`
	Category   types.RoomCategory `gorm:"type:text;not null;default:'standard'" json:"category"`

	Reservations []Reservation `gorm:"foreignKey:room_id" json:"reservations,omitempty"`

	types.Timestamps
}
