package reservations

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/pricing"
	"github.com/gogonoten/johotel/src/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Monday 2025-09-01 12:00 UTC
var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 9, d, 14, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(
		models.Room{ID: 1, RoomNumber: 101, Category: types.ROOM_STANDARD},
		models.Room{ID: 2, RoomNumber: 201, Category: types.ROOM_FAMILY},
		models.Room{ID: 3, RoomNumber: 301, Category: types.ROOM_SUITE},
	)
	svc := NewService(store, Config{Clock: fixedClock{testNow}}, zap.NewNop())
	return svc, store
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 time.Time
		want           bool
	}{
		{"disjoint", day(2), day(4), day(5), day(7), false},
		{"back to back", day(2), day(4), day(4), day(6), false},
		{"back to back reversed", day(4), day(6), day(2), day(4), false},
		{"partial", day(2), day(5), day(4), day(6), true},
		{"contained", day(2), day(8), day(4), day(5), true},
		{"identical", day(2), day(4), day(2), day(4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a1, tt.a2, tt.b1, tt.b2))
			assert.Equal(t, tt.want, Overlaps(tt.b1, tt.b2, tt.a1, tt.a2))
		})
	}
}

func TestCreateReservation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	conf, err := svc.CreateReservation(ctx, 7, 1, day(5), day(7))
	require.NoError(t, err)
	assert.NotZero(t, conf.Reservation.ID)
	assert.Equal(t, uint(7), conf.Reservation.UserID)
	assert.True(t, conf.Reservation.Confirmed)
	assert.Equal(t, 101, conf.RoomNumber)
	assert.Equal(t, types.ROOM_STANDARD, conf.Category)
	assert.Equal(t, 2, conf.Nights)
	// Friday and Saturday nights
	assert.Equal(t, "2300", conf.TotalPrice.String())
	assert.Equal(t, testNow, conf.Reservation.CreatedAt)
	assert.Equal(t, 1, store.Len())

	stored, err := store.Get(ctx, conf.Reservation.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckIn.Equal(day(5)))
	assert.True(t, stored.CheckOut.Equal(day(7)))
}

func TestCreateReservationStoresUTC(t *testing.T) {
	svc, _ := newTestService(t)
	cest := time.FixedZone("CEST", 2*60*60)
	in := time.Date(2025, 9, 2, 16, 0, 0, 0, cest)
	out := time.Date(2025, 9, 4, 16, 0, 0, 0, cest)

	conf, err := svc.CreateReservation(context.Background(), 1, 1, in, out)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, conf.Reservation.CheckIn.Location())
	assert.True(t, conf.Reservation.CheckIn.Equal(in))
}

func TestCreateReservationRejects(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 1, day(10), day(12))
	require.NoError(t, err)

	tests := []struct {
		name    string
		roomID  uint
		in, out time.Time
		want    error
	}{
		{"unknown room", 99, day(20), day(22), ErrNotFound},
		{"reversed interval", 1, day(22), day(20), ErrInvalidStay},
		{"empty interval", 1, day(20), day(20), ErrInvalidStay},
		{"same calendar day", 1, day(20), day(20).Add(3 * time.Hour), ErrInvalidStay},
		{"overlap start", 1, day(9), day(11), ErrOverlap},
		{"overlap inside", 1, day(10).Add(time.Hour), day(11), ErrOverlap},
		{"overlap identical", 1, day(10), day(12), ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := svc.CreateReservation(ctx, 2, tt.roomID, tt.in, tt.out)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, conf)
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestCreateReservationBackToBack(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 1, day(10), day(12))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 2, 1, day(12), day(14))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 3, 1, day(8), day(10))
	require.NoError(t, err)
	// same interval, different room
	_, err = svc.CreateReservation(ctx, 4, 2, day(10), day(12))
	require.NoError(t, err)

	assert.Equal(t, 4, store.Len())
}

func TestCreateReservationConcurrent(t *testing.T) {
	svc, store := newTestService(t)
	const workers = 32

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		overlaps  int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user uint) {
			defer wg.Done()
			<-start
			// every request intersects [day(10), day(12))
			_, err := svc.CreateReservation(context.Background(), user, 3, day(10).Add(-time.Duration(user%3)*time.Hour), day(12))
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				successes++
			case ErrOverlap:
				overlaps++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint(i + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, overlaps)
	assert.Equal(t, 1, store.Len())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		checkIn time.Time
		user    uint
		want    error
	}{
		{"well ahead", testNow.Add(72 * time.Hour), 1, nil},
		{"one second past the window", testNow.Add(24*time.Hour + time.Second), 1, nil},
		{"exactly at the window", testNow.Add(24 * time.Hour), 1, ErrTooLate},
		{"one second inside the window", testNow.Add(24*time.Hour - time.Second), 1, ErrTooLate},
		{"other user", testNow.Add(72 * time.Hour), 2, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(models.Room{ID: 1, RoomNumber: 101, Category: types.ROOM_STANDARD})
			// admit with a clock far in the past so the check-in is not in the past
			admit := NewService(store, Config{Clock: fixedClock{testNow.Add(-48 * time.Hour)}}, nil)
			conf, err := admit.CreateReservation(ctx, 1, 1, tt.checkIn, tt.checkIn.Add(48*time.Hour))
			require.NoError(t, err)

			svc := NewService(store, Config{Clock: fixedClock{testNow}}, nil)
			err = svc.Cancel(ctx, tt.user, conf.Reservation.ID)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, 0, store.Len())
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestCancelNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Cancel(context.Background(), 1, 42), ErrNotFound)
}

func TestCancelFreesInterval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conf, err := svc.CreateReservation(ctx, 1, 1, day(10), day(12))
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 1, conf.Reservation.ID))

	_, err = svc.CreateReservation(ctx, 2, 1, day(10), day(12))
	assert.NoError(t, err)
	assert.ErrorIs(t, svc.Cancel(ctx, 1, conf.Reservation.ID), ErrNotFound)
}

func TestCancellationWindowConfigurable(t *testing.T) {
	store := NewMemoryStore(models.Room{ID: 1, RoomNumber: 101, Category: types.ROOM_STANDARD})
	svc := NewService(store, Config{Clock: fixedClock{testNow}, CancellationWindow: 72 * time.Hour}, nil)
	ctx := context.Background()

	conf, err := svc.CreateReservation(ctx, 1, 1, testNow.Add(48*time.Hour), testNow.Add(96*time.Hour))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Cancel(ctx, 1, conf.Reservation.ID), ErrTooLate)
}

func TestListings(t *testing.T) {
	svc, store := newTestService(t)
	store.AddUser(models.User{ID: 1, Name: "Ada", Email: "ada@example.com"})
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 2, day(5), day(6))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 1, 1, day(2), day(4))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 2, 1, day(8), day(9))
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, uint(1), mine[0].Reservation.RoomID)
	assert.Equal(t, "2000", mine[0].TotalPrice.String())
	assert.Equal(t, "1725", mine[1].TotalPrice.String())
	require.NotNil(t, mine[0].Reservation.User)
	assert.Equal(t, "Ada", mine[0].Reservation.User.Name)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListingsUnpriceableFallsBackToZero(t *testing.T) {
	svc, store := newTestService(t)
	store.AddRoom(models.Room{ID: 9, RoomNumber: 901, Category: types.RoomCategory("penthouse")})
	store.reservations[50] = models.Reservation{ID: 50, UserID: 1, RoomID: 9, CheckIn: day(2), CheckOut: day(4), Confirmed: true}

	list, err := svc.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalPrice.Equal(decimal.Zero))
}

func TestQuote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Quote(ctx, 3, day(4), day(7))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, "8250", q.TotalPrice.String())

	_, err = svc.Quote(ctx, 3, day(4), day(4))
	assert.ErrorIs(t, err, ErrInvalidStay)
	_, err = svc.Quote(ctx, 99, day(4), day(6))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomRates(t *testing.T) {
	rates := pricing.RateTable{
		Nightly:          map[types.RoomCategory]decimal.Decimal{types.ROOM_STANDARD: decimal.NewFromInt(500)},
		WeekendSurcharge: decimal.Zero,
	}
	store := NewMemoryStore(models.Room{ID: 1, RoomNumber: 101, Category: types.ROOM_STANDARD})
	svc := NewService(store, Config{Rates: &rates, Clock: fixedClock{testNow}}, nil)

	conf, err := svc.CreateReservation(context.Background(), 1, 1, day(5), day(7))
	require.NoError(t, err)
	assert.Equal(t, "1000", conf.TotalPrice.String())
}

func TestUpcomingCheckIns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 1, day(2), day(3))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 1, 2, day(5), day(6))
	require.NoError(t, err)

	due, err := svc.UpcomingCheckIns(ctx, testNow, testNow.Add(26*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, uint(1), due[0].RoomID)
	assert.NotNil(t, due[0].Room)
}

func TestRoomAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 2, day(10), day(12))
	require.NoError(t, err)

	list, err := svc.RoomAvailability(ctx, day(11), day(13))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 101, list[0].Room.RoomNumber)
	assert.True(t, list[0].Available)
	assert.False(t, list[1].Available)
	assert.True(t, list[2].Available)

	list, err = svc.RoomAvailability(ctx, day(12), day(13))
	require.NoError(t, err)
	assert.True(t, list[1].Available)
}

func TestBookedSpans(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, 1, day(14), day(16))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 2, 1, day(10), day(12))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, 3, 2, day(10), day(12))
	require.NoError(t, err)

	spans, err := svc.BookedSpans(ctx, 1, day(1), day(30))
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.True(t, spans[0].CheckIn.Equal(day(10)))
	assert.True(t, spans[1].CheckIn.Equal(day(14)))

	_, err = svc.BookedSpans(ctx, 99, day(1), day(30))
	assert.ErrorIs(t, err, ErrNotFound)
}
