// Package reservations admits and cancels room reservations. Admission is
// serialized per room so that two concurrent requests for intersecting
// intervals on the same room can never both be confirmed.
package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/pricing"
	"github.com/gogonoten/johotel/src/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultCancellationWindow = 24 * time.Hour

type Config struct {
	Rates              *pricing.RateTable
	CancellationWindow time.Duration
	Clock              Clock
	// Rooms overrides the read path used for room lookups outside an
	// admission, e.g. a cache in front of the store.
	Rooms RoomLookup
}

type Service struct {
	store  Store
	rooms  RoomLookup
	rates  pricing.RateTable
	window time.Duration
	clock  Clock
	logger *zap.Logger
}

// Confirmation describes a reservation that has just been admitted.
type Confirmation struct {
	Reservation models.Reservation
	RoomNumber  int
	Category    types.RoomCategory
	Nights      int
	TotalPrice  decimal.Decimal
}

// Listing is a stored reservation with its derived price. TotalPrice is zero
// when the stay cannot be priced.
type Listing struct {
	Reservation models.Reservation
	Nights      int
	TotalPrice  decimal.Decimal
}

type Availability struct {
	Room      models.Room
	Available bool
}

type Quote struct {
	Room       models.Room
	Nights     int
	TotalPrice decimal.Decimal
}

func NewService(store Store, cfg Config, logger *zap.Logger) *Service {
	s := &Service{
		store:  store,
		rooms:  store,
		rates:  pricing.DefaultRates(),
		window: DefaultCancellationWindow,
		clock:  RealClock{},
		logger: logger,
	}
	if cfg.Rates != nil {
		s.rates = *cfg.Rates
	}
	if cfg.CancellationWindow > 0 {
		s.window = cfg.CancellationWindow
	}
	if cfg.Clock != nil {
		s.clock = cfg.Clock
	}
	if cfg.Rooms != nil {
		s.rooms = cfg.Rooms
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateReservation admits a stay of [checkIn, checkOut) in the room for the
// user. The room is locked for the whole check-then-insert sequence, so on
// any error nothing has been written.
func (s *Service) CreateReservation(ctx context.Context, userID, roomID uint, checkIn, checkOut time.Time) (*Confirmation, error) {
	checkIn, checkOut = checkIn.UTC(), checkOut.UTC()
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidStay
	}
	nights := pricing.Nights(checkIn, checkOut)
	if nights <= 0 {
		return nil, ErrInvalidStay
	}

	var conf *Confirmation
	err := s.store.WithRoomLock(ctx, roomID, func(room *models.Room, tx Tx) error {
		overlap, err := tx.ExistsOverlap(ctx, roomID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}

		price, ok := s.rates.PriceForStay(room.Category, checkIn, checkOut)
		if !ok {
			return fmt.Errorf("no rate for room %d category %q", room.ID, room.Category)
		}

		now := s.clock.Now().UTC()
		reservation := models.Reservation{
			UserID:     userID,
			RoomID:     roomID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Confirmed:  true,
			Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		id, err := tx.Insert(ctx, &reservation)
		if err != nil {
			return err
		}
		reservation.ID = id

		conf = &Confirmation{
			Reservation: reservation,
			RoomNumber:  room.RoomNumber,
			Category:    room.Category,
			Nights:      nights,
			TotalPrice:  price,
		}
		return nil
	})
	if err != nil {
		if IsExpected(err) {
			s.logger.Info("reservation rejected",
				zap.Uint("user_id", userID), zap.Uint("room_id", roomID),
				zap.Time("check_in", checkIn), zap.Time("check_out", checkOut), zap.Error(err))
			return nil, err
		}
		s.logger.Error("reservation failed", zap.Uint("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info("reservation confirmed",
		zap.Uint("id", conf.Reservation.ID), zap.Uint("user_id", userID), zap.Uint("room_id", roomID),
		zap.Int("nights", nights), zap.String("total_price", conf.TotalPrice.String()))
	return conf, nil
}

// Cancel removes the reservation if it belongs to userID and its check-in
// lies strictly after now plus the cancellation window.
func (s *Service) Cancel(ctx context.Context, userID, reservationID uint) error {
	reservation, err := s.store.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load reservation %d: %w", reservationID, err)
	}
	if reservation.UserID != userID {
		return ErrForbidden
	}
	deadline := s.clock.Now().Add(s.window)
	if !reservation.CheckIn.After(deadline) {
		return ErrTooLate
	}

	if err := s.store.Delete(ctx, reservationID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete reservation %d: %w", reservationID, err)
	}
	s.logger.Info("reservation cancelled", zap.Uint("id", reservationID), zap.Uint("user_id", userID))
	return nil
}

// HasOverlap is a read-only probe. Its answer may be stale by the time the
// caller acts on it; admission re-checks under the room lock.
func (s *Service) HasOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return s.store.ExistsOverlap(ctx, roomID, checkIn.UTC(), checkOut.UTC())
}

func (s *Service) PriceForStay(category types.RoomCategory, checkIn, checkOut time.Time) (decimal.Decimal, bool) {
	return s.rates.PriceForStay(category, checkIn, checkOut)
}

func (s *Service) BaseRate(category types.RoomCategory) (decimal.Decimal, bool) {
	return s.rates.BaseRate(category)
}

func (s *Service) Quote(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (*Quote, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	price, ok := s.rates.PriceForStay(room.Category, checkIn, checkOut)
	if !ok {
		return nil, ErrInvalidStay
	}
	return &Quote{Room: *room, Nights: pricing.Nights(checkIn, checkOut), TotalPrice: price}, nil
}

func (s *Service) Room(ctx context.Context, roomID uint) (*models.Room, error) {
	return s.rooms.GetRoom(ctx, roomID)
}

func (s *Service) Rooms(ctx context.Context) ([]models.Room, error) {
	return s.store.ListRooms(ctx)
}

// RoomAvailability lists every room and whether it is free for the whole
// of [from, to).
func (s *Service) RoomAvailability(ctx context.Context, from, to time.Time) ([]Availability, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	taken, err := s.store.ListOverlapping(ctx, 0, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	busy := make(map[uint]bool, len(taken))
	for _, r := range taken {
		busy[r.RoomID] = true
	}
	out := make([]Availability, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, Availability{Room: room, Available: !busy[room.ID]})
	}
	return out, nil
}

// BookedSpans returns the confirmed reservations of the room that intersect
// [from, to), ordered by check-in.
func (s *Service) BookedSpans(ctx context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.store.ListOverlapping(ctx, roomID, from.UTC(), to.UTC())
}

func (s *Service) ListForUser(ctx context.Context, userID uint) ([]Listing, error) {
	rows, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations for user %d: %w", userID, err)
	}
	return s.listings(rows), nil
}

func (s *Service) ListAll(ctx context.Context) ([]Listing, error) {
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return s.listings(rows), nil
}

// UpcomingCheckIns returns confirmed reservations with from < check_in <= to.
func (s *Service) UpcomingCheckIns(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	return s.store.ListCheckInsBetween(ctx, from.UTC(), to.UTC())
}

func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) listings(rows []models.Reservation) []Listing {
	out := make([]Listing, 0, len(rows))
	for _, r := range rows {
		l := Listing{Reservation: r, Nights: pricing.Nights(r.CheckIn, r.CheckOut), TotalPrice: decimal.Zero}
		if r.Room != nil {
			if price, ok := s.rates.PriceForStay(r.Room.Category, r.CheckIn, r.CheckOut); ok {
				l.TotalPrice = price
			}
		}
		out = append(out, l)
	}
	return out
}
