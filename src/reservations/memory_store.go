package reservations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gogonoten/johotel/src/models"
)

// MemoryStore is a process-local Store. It backs tests and single-node
// deployments without a database.
type MemoryStore struct {
	mu           sync.RWMutex
	rooms        map[uint]models.Room
	users        map[uint]models.User
	reservations map[uint]models.Reservation
	nextID       uint

	roomLocks sync.Map // uint -> *sync.Mutex
}

func NewMemoryStore(rooms ...models.Room) *MemoryStore {
	s := &MemoryStore{
		rooms:        make(map[uint]models.Room),
		users:        make(map[uint]models.User),
		reservations: make(map[uint]models.Reservation),
	}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *MemoryStore) AddRoom(room models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

func (s *MemoryStore) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}

func (s *MemoryStore) roomLock(roomID uint) *sync.Mutex {
	l, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func (s *MemoryStore) WithRoomLock(ctx context.Context, roomID uint, fn func(room *models.Room, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	room, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	tx := &memoryTx{store: s}
	if err := fn(&room, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range tx.pending {
		s.reservations[r.ID] = r
	}
	return nil
}

type memoryTx struct {
	store   *MemoryStore
	pending []models.Reservation
}

func (t *memoryTx) ExistsOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	for _, r := range t.pending {
		if r.RoomID == roomID && r.Confirmed && Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return t.store.ExistsOverlap(ctx, roomID, checkIn, checkOut)
}

func (t *memoryTx) Insert(_ context.Context, r *models.Reservation) (uint, error) {
	t.store.mu.Lock()
	t.store.nextID++
	r.ID = t.store.nextID
	t.store.mu.Unlock()

	stored := *r
	stored.User, stored.Room = nil, nil
	t.pending = append(t.pending, stored)
	return r.ID, nil
}

func (s *MemoryStore) ExistsOverlap(_ context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.RoomID == roomID && r.Confirmed && Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id uint) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID uint) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool { return r.UserID == userID }), nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]models.Reservation, error) {
	return s.filter(func(models.Reservation) bool { return true }), nil
}

func (s *MemoryStore) ListCheckInsBetween(_ context.Context, from, to time.Time) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool {
		return r.Confirmed && r.CheckIn.After(from) && !r.CheckIn.After(to)
	}), nil
}

func (s *MemoryStore) ListOverlapping(_ context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool {
		return r.Confirmed && (roomID == 0 || r.RoomID == roomID) && Overlaps(r.CheckIn, r.CheckOut, from, to)
	}), nil
}

// filter returns matches ordered by check-in with Room and User attached.
func (s *MemoryStore) filter(keep func(models.Reservation) bool) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reservation, 0)
	for _, r := range s.reservations {
		if !keep(r) {
			continue
		}
		if room, ok := s.rooms[r.RoomID]; ok {
			r.Room = &room
		}
		if user, ok := s.users[r.UserID]; ok {
			r.User = &user
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out
}
