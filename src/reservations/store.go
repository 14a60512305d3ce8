package reservations

import (
	"context"
	"time"

	"github.com/gogonoten/johotel/src/models"
)

// Overlaps reports whether the half-open intervals [a1, a2) and [b1, b2)
// intersect.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && a2.After(b1)
}

type RoomLookup interface {
	// GetRoom returns ErrNotFound when the room does not exist.
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
}

// Tx is the write side of an admission. It is only valid inside the
// callback given to Store.WithRoomLock.
type Tx interface {
	ExistsOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error)
	Insert(ctx context.Context, r *models.Reservation) (uint, error)
}

type Store interface {
	RoomLookup

	// WithRoomLock holds an exclusive admission claim on the room while fn
	// runs. Writes made through tx become visible only if fn returns nil.
	// A missing room yields ErrNotFound without calling fn.
	WithRoomLock(ctx context.Context, roomID uint, fn func(room *models.Room, tx Tx) error) error

	ExistsOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, id uint) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	// ListCheckInsBetween returns confirmed reservations with from < check_in <= to.
	ListCheckInsBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	// ListOverlapping returns confirmed reservations intersecting [from, to),
	// limited to roomID unless it is zero.
	ListOverlapping(ctx context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
