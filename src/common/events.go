package common

import (
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/reservations"
	"github.com/gogonoten/johotel/src/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventReservationCreated  EventType = "reservation.created"
	EventReservationCanceled EventType = "reservation.canceled"
	EventReservationReminder EventType = "reservation.reminder"
)

// ReservationEvent is the payload handed to notifiers after a decision.
type ReservationEvent struct {
	ID            string             `json:"id"`
	Type          EventType          `json:"type"`
	OccurredAt    time.Time          `json:"occurred_at"`
	ReservationID uint               `json:"reservation_id"`
	UserID        uint               `json:"user_id"`
	Email         string             `json:"email,omitempty"`
	RoomID        uint               `json:"room_id,omitempty"`
	RoomNumber    int                `json:"room_number,omitempty"`
	Category      types.RoomCategory `json:"room_type,omitempty"`
	CheckIn       *time.Time         `json:"check_in,omitempty"`
	CheckOut      *time.Time         `json:"check_out,omitempty"`
	Nights        int                `json:"nights,omitempty"`
	TotalPrice    string             `json:"total_price,omitempty"`
}

func newEvent(t EventType, now time.Time) ReservationEvent {
	return ReservationEvent{ID: uuid.NewString(), Type: t, OccurredAt: now.UTC()}
}

func NewCreatedEvent(conf *reservations.Confirmation, email string, now time.Time) ReservationEvent {
	e := newEvent(EventReservationCreated, now)
	r := conf.Reservation
	e.ReservationID = r.ID
	e.UserID = r.UserID
	e.Email = email
	e.RoomID = r.RoomID
	e.RoomNumber = conf.RoomNumber
	e.Category = conf.Category
	e.CheckIn, e.CheckOut = &r.CheckIn, &r.CheckOut
	e.Nights = conf.Nights
	e.TotalPrice = conf.TotalPrice.String()
	return e
}

func NewCanceledEvent(userID, reservationID uint, now time.Time) ReservationEvent {
	e := newEvent(EventReservationCanceled, now)
	e.ReservationID = reservationID
	e.UserID = userID
	return e
}

// NewReminderEvent expects r.Room and r.User to be loaded; missing
// associations leave the matching fields empty.
func NewReminderEvent(r models.Reservation, nights int, price decimal.Decimal, now time.Time) ReservationEvent {
	e := newEvent(EventReservationReminder, now)
	e.ReservationID = r.ID
	e.UserID = r.UserID
	e.RoomID = r.RoomID
	e.CheckIn, e.CheckOut = &r.CheckIn, &r.CheckOut
	e.Nights = nights
	e.TotalPrice = price.String()
	if r.Room != nil {
		e.RoomNumber = r.Room.RoomNumber
		e.Category = r.Room.Category
	}
	if r.User != nil {
		e.Email = r.User.Email
	}
	return e
}
