package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gogonoten/johotel/src/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRoomCacheTTL = 10 * time.Minute

// CachedRooms serves room lookups from Redis and falls through to the
// wrapped lookup on a miss. Rooms are seeded data and never change at
// runtime, so entries are only dropped on expiry. Redis failures degrade
// to uncached reads.
type CachedRooms struct {
	rooms  RoomLookup
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRooms(rooms RoomLookup, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRooms {
	if ttl <= 0 {
		ttl = DefaultRoomCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRooms{rooms: rooms, rdb: rdb, ttl: ttl, logger: logger}
}

func roomKey(id uint) string {
	return fmt.Sprintf("room:%d", id)
}

func (c *CachedRooms) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	val, err := c.rdb.Get(ctx, roomKey(id)).Bytes()
	switch {
	case err == nil:
		var room models.Room
		if err := json.Unmarshal(val, &room); err == nil {
			return &room, nil
		}
		c.logger.Warn("discarding malformed room cache entry", zap.Uint("room_id", id))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("room cache read failed", zap.Uint("room_id", id), zap.Error(err))
	}

	room, err := c.rooms.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(room)
	if err != nil {
		return room, nil
	}
	if err := c.rdb.Set(ctx, roomKey(id), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("room cache write failed", zap.Uint("room_id", id), zap.Error(err))
	}
	return room, nil
}
