package models

import "github.com/gogonoten/johotel/src/types"

type User struct {
	ID    uint           `gorm:"primarykey" json:"id"`
	Name  string         `json:"name,omitempty"`
	Email string         `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  types.UserRole `gorm:"default:'guest'" json:"role,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:user_id" json:"reservations,omitempty"`

	types.Timestamps
}
