package scopes

import (
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithConfirmed(db *gorm.DB) *gorm.DB {
	return db.Where("confirmed = ?", true)
}

func ForRoom(roomID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("room_id = ?", roomID)
	}
}

// Overlapping matches rows whose [check_in, check_out) intersects
// [checkIn, checkOut). Touching endpoints do not match.
func Overlapping(checkIn, checkOut time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	}
}

func CheckInBetween(from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("check_in > ? AND check_in <= ?", from, to)
	}
}
