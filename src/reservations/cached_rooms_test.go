package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLookup struct {
	RoomLookup
	calls int
}

func (c *countingLookup) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	c.calls++
	return c.RoomLookup.GetRoom(ctx, id)
}

func setupCache(t *testing.T) (*CachedRooms, *countingLookup, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingLookup{RoomLookup: NewMemoryStore(
		models.Room{ID: 3, RoomNumber: 301, Category: types.ROOM_SUITE},
	)}
	return NewCachedRooms(inner, rdb, time.Minute, zap.NewNop()), inner, mr
}

func TestCachedRoomsHit(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()

	room, err := cache.GetRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 301, room.RoomNumber)
	assert.True(t, mr.Exists("room:3"))
	assert.Equal(t, time.Minute, mr.TTL("room:3"))

	room, err = cache.GetRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, types.ROOM_SUITE, room.Category)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedRoomsExpiry(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()

	_, err := cache.GetRoom(ctx, 3)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cache.GetRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedRoomsMissingRoomNotCached(t *testing.T) {
	cache, _, mr := setupCache(t)

	_, err := cache.GetRoom(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("room:9"))
}

func TestCachedRoomsMalformedEntry(t *testing.T) {
	cache, inner, mr := setupCache(t)
	require.NoError(t, mr.Set("room:3", "{not json"))

	room, err := cache.GetRoom(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 301, room.RoomNumber)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedRoomsRedisDown(t *testing.T) {
	cache, inner, mr := setupCache(t)
	mr.Close()

	room, err := cache.GetRoom(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 301, room.RoomNumber)
	assert.Equal(t, 1, inner.calls)
}
