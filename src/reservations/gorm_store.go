package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/models/scopes"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps reservations in Postgres. Admission locks the room row
// with SELECT ... FOR UPDATE; the reservations_no_overlap exclusion
// constraint rejects anything that slips past it.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) WithRoomLock(ctx context.Context, roomID uint, fn func(room *models.Room, tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
			Scopes(scopes.WithID(roomID)).
			First(&room).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		return fn(&room, &gormTx{tx: tx})
	})
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) ExistsOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return existsOverlap(t.tx.WithContext(ctx), roomID, checkIn, checkOut)
}

func (t *gormTx) Insert(ctx context.Context, r *models.Reservation) (uint, error) {
	if err := t.tx.WithContext(ctx).Create(r).Error; err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return r.ID, nil
}

func existsOverlap(db *gorm.DB, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Reservation{}).
		Scopes(scopes.ForRoom(roomID), scopes.WithConfirmed, scopes.Overlapping(checkIn, checkOut)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("overlap query: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ExistsOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return existsOverlap(s.db.WithContext(ctx), roomID, checkIn, checkOut)
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Order("room_number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", userID).
		Order("check_in").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Order("check_in").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) ListCheckInsBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithConfirmed, scopes.CheckInBetween(from, to)).
		Preload("User").
		Preload("Room").
		Order("check_in").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) ListOverlapping(ctx context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Scopes(scopes.WithConfirmed, scopes.Overlapping(from, to))
	if roomID != 0 {
		q = q.Scopes(scopes.ForRoom(roomID))
	}
	var list []models.Reservation
	if err := q.Order("check_in").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
