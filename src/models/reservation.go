package models

import (
	"time"

	"github.com/gogonoten/johotel/src/types"
)

// Reservation is a confirmed stay for one room. CheckIn and CheckOut are
// absolute instants written in UTC; the pair forms the half-open interval
// [CheckIn, CheckOut).
type Reservation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	RoomID    uint      `gorm:"not null;index:idx_reservations_room_interval,priority:1" json:"room_id"`
	CheckIn   time.Time `gorm:"type:timestamptz;not null;index:idx_reservations_room_interval,priority:2" json:"check_in"`
	CheckOut  time.Time `gorm:"type:timestamptz;not null;index:idx_reservations_room_interval,priority:3" json:"check_out"`
	Confirmed bool      `gorm:"not null" json:"is_confirmed"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Room *Room `gorm:"foreignKey:room_id" json:"room,omitempty"`

	types.Timestamps
}
