package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(gormDB, zap.NewNop()), mock
}

func roomRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "room_number", "category"}).AddRow(1, 101, "standard")
}

const (
	lockRoomSQL     = `SELECT \* FROM "rooms" WHERE id = \$1 .*FOR UPDATE`
	countOverlapSQL = `SELECT count\(\*\) FROM "reservations" WHERE room_id = \$1 AND confirmed = \$2`
)

func TestGormStoreAdmitCommits(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewService(store, Config{Clock: fixedClock{testNow}}, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRows())
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(1, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	conf, err := svc.CreateReservation(context.Background(), 7, 1, day(2), day(4))
	require.NoError(t, err)
	assert.Equal(t, uint(5), conf.Reservation.ID)
	assert.Equal(t, 101, conf.RoomNumber)
	assert.Equal(t, "2000", conf.TotalPrice.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAdmitOverlapRollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewService(store, Config{Clock: fixedClock{testNow}}, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRows())
	mock.ExpectQuery(countOverlapSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateReservation(context.Background(), 7, 1, day(2), day(4))
	assert.ErrorIs(t, err, ErrOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAdmitMissingRoom(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewService(store, Config{Clock: fixedClock{testNow}}, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.CreateReservation(context.Background(), 7, 42, day(2), day(4))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAdmitInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewService(store, Config{Clock: fixedClock{testNow}}, nil)
	violation := errors.New(`conflicting key value violates exclusion constraint "reservations_no_overlap"`)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WillReturnRows(roomRows())
	mock.ExpectQuery(countOverlapSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "reservations"`).WillReturnError(violation)
	mock.ExpectRollback()

	_, err := svc.CreateReservation(context.Background(), 7, 1, day(2), day(4))
	require.Error(t, err)
	assert.False(t, IsExpected(err))
	assert.ErrorIs(t, err, violation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reservations" WHERE "reservations"."id" = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	assert.NoError(t, store.Delete(context.Background(), 5))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reservations"`).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, store.Delete(context.Background(), 6), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreGet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "check_in", "check_out", "confirmed"}).
			AddRow(5, 7, 1, day(2), day(4), true))
	r, err := store.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint(7), r.UserID)
	assert.True(t, r.Confirmed)

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = store.Get(context.Background(), 6)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreListByUserPreloadsRoom(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE user_id = \$1 ORDER BY check_in`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "check_in", "check_out", "confirmed"}).
			AddRow(5, 7, 1, day(2), day(4), true))
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1`).
		WillReturnRows(roomRows())

	list, err := store.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Room)
	assert.Equal(t, 101, list[0].Room.RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreExistsOverlapOutsideTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	in, out := day(2), day(4)

	mock.ExpectQuery(countOverlapSQL).
		WithArgs(1, true, out, in).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ok, err := store.ExistsOverlap(context.Background(), 1, in, out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreListCheckInsBetween(t *testing.T) {
	store, mock := newMockStore(t)
	from := testNow
	to := testNow.Add(time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE confirmed = \$1 AND \(check_in > \$2 AND check_in <= \$3\)`).
		WithArgs(true, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := store.ListCheckInsBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
