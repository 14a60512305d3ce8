package types

import (
	"fmt"
	"strings"
	"time"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type JSONB map[string]any

type RoomCategory string

const (
	ROOM_STANDARD RoomCategory = "standard"
	ROOM_FAMILY   RoomCategory = "family"
	ROOM_SUITE    RoomCategory = "suite"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case ROOM_STANDARD, ROOM_FAMILY, ROOM_SUITE:
		return true
	}
	return false
}

// DisplayName is the label used in guest-facing messages.
func (c RoomCategory) DisplayName() string {
	switch c {
	case ROOM_STANDARD:
		return "Standard room"
	case ROOM_FAMILY:
		return "Family room"
	case ROOM_SUITE:
		return "Suite"
	}
	return string(c)
}

func ParseRoomCategory(s string) (RoomCategory, error) {
	c := RoomCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown room category %q", s)
	}
	return c, nil
}

type UserRole string

const (
	ROLE_GUEST   UserRole = "guest"
	ROLE_MANAGER UserRole = "manager"
	ROLE_ADMIN   UserRole = "admin"
)

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateReservationRequestBody struct {
	RoomID   uint      `json:"room_id" binding:"required"`
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required,gttime=CheckIn"`
}

type QuoteQueryParams struct {
	CheckIn  time.Time `form:"check_in" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	CheckOut time.Time `form:"check_out" binding:"required,gttime=CheckIn" time_format:"2006-01-02T15:04:05Z07:00"`
}

// RangeQueryParams bounds a [from, to) window; zero values are replaced
// by handler defaults.
type RangeQueryParams struct {
	From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type APIResponseRoom struct {
	ID          uint         `json:"id"`
	RoomNumber  int          `json:"room_number"`
	Category    RoomCategory `json:"room_type"`
	Label       string       `json:"label,omitempty"`
	BasePrice   string       `json:"base_price,omitempty"`
	IsAvailable *bool        `json:"is_available,omitempty"`
}

type APIResponseSpan struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type APIResponseReservation struct {
	ID          uint         `json:"id"`
	RoomID      uint         `json:"room_id"`
	RoomNumber  int          `json:"room_number"`
	Category    RoomCategory `json:"room_type,omitempty"`
	CheckIn     time.Time    `json:"check_in"`
	CheckOut    time.Time    `json:"check_out"`
	Nights      int          `json:"nights,omitempty"`
	IsConfirmed bool         `json:"is_confirmed"`
	TotalPrice  string       `json:"total_price"`

	User *APIResponseUser `json:"user,omitempty"`
}

type APIResponseConfirmation struct {
	APIResponseReservation
	NumberOfGuests int    `json:"number_of_guests"`
	HotelName      string `json:"hotel_name"`
}

type APIResponseUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type APIResponseQuote struct {
	RoomID     uint         `json:"room_id"`
	Category   RoomCategory `json:"room_type"`
	Nights     int          `json:"nights"`
	TotalPrice string       `json:"total_price"`
}
