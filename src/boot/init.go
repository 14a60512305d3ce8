package boot

import (
	"context"

	"github.com/gogonoten/johotel/src/common"
	"github.com/gogonoten/johotel/src/db"
	"github.com/gogonoten/johotel/src/lib"
	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const createNoOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
		` + models.ReservationNoOverlapDDL + `;
	END IF;
END
$$;
`

// Room inventory: 1-300 standard, 301-360 family, 361-400 suite.
const (
	lastStandardRoom = 300
	lastFamilyRoom   = 360
	lastRoom         = 400
)

func InitDb() *gorm.DB {
	db := db.GetDb()
	if err := Migrate(db); err != nil {
		zap.L().Fatal("error migration", zap.Error(err))
	}
	if err := SeedRooms(db); err != nil {
		zap.L().Fatal("error seeding rooms", zap.Error(err))
	}
	return db
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Reservation{},
	)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return err
		}
		return tx.Exec(createNoOverlapConstraint).Error
	})
}

func DefaultRooms() []models.Room {
	rooms := make([]models.Room, 0, lastRoom)
	for i := 1; i <= lastRoom; i++ {
		category := types.ROOM_SUITE
		switch {
		case i <= lastStandardRoom:
			category = types.ROOM_STANDARD
		case i <= lastFamilyRoom:
			category = types.ROOM_FAMILY
		}
		rooms = append(rooms, models.Room{ID: uint(i), RoomNumber: i, Category: category})
	}
	return rooms
}

// SeedRooms inserts the room inventory, leaving existing rows untouched.
func SeedRooms(db *gorm.DB) error {
	return db.
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(DefaultRooms(), 100).
		Error
}

func InitScheduler(reminders *common.ReminderJob) {
	sched, err := lib.GetScheduler()
	if err != nil {
		zap.L().Error("error initializing scheduler", zap.Error(err))
		return
	}
	if reminders != nil {
		if _, err := reminders.Schedule(); err != nil {
			zap.L().Error("error scheduling check-in reminders", zap.Error(err))
		}
	}
	zap.L().Info("starting scheduler", zap.Int("jobs", len(sched.Jobs())))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		zap.L().Error("error stopping scheduler", zap.Error(err))
	}
}

// InitBroker creates the Kafka topic used for reservation events in local
// environments. Elsewhere the SQS queue is provisioned externally.
func InitBroker(topic string) {
	results, err := lib.KafkaCreateTopics(context.Background(), topic)
	if err != nil {
		zap.L().Warn("error creating kafka topics", zap.Error(err))
		return
	}
	for _, r := range results {
		zap.L().Info("kafka topic", zap.String("topic", r.Topic), zap.String("result", r.Error.String()))
	}
}
