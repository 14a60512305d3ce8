package db

import (
	"time"

	"github.com/gogonoten/johotel/src/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// GetDb opens the shared connection on first use and panics if the
// database is unreachable.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := Open(config.GetDSN())
	if err != nil {
		zap.L().Error("error connecting to database", zap.Error(err))
		panic(err)
	}
	db = _db
	return _db
}

func Open(dsn string) (*gorm.DB, error) {
	level := logger.Warn
	if config.IsLocal() {
		level = logger.Info
	}
	_db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := _db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return _db, nil
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
