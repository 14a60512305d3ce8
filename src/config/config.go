package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const TIME_PARSE_FORMAT = time.RFC3339

const (
	DefaultCancellationWindow = 24 * time.Hour
	DefaultReminderInterval   = time.Hour
	DefaultRoomCacheTTL       = 10 * time.Minute
	DefaultHotelName          = "JoHotel"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := GetEnv("DATABASE_PORT", "5432")
	DATABASE_SSLMODE := GetEnv("DATABASE_SSLMODE", "disable")
	DATABASE_TIMEZONE := GetEnv("DATABASE_TIMEZONE", "UTC")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// LoadEnv reads .env from the working directory when running locally.
func LoadEnv() error {
	if !IsLocal() {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return godotenv.Load(path.Join(cwd, ".env"))
}

func APIEnv() string {
	return GetEnv("API_ENV", "local")
}

func IsLocal() bool {
	return APIEnv() == "local"
}

func IsProd() bool {
	return APIEnv() == "production"
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func GetBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// GetDuration parses values such as "24h" or "90m". Invalid or
// non-positive values fall back.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func CancellationWindow() time.Duration {
	return GetDuration("CANCELLATION_WINDOW", DefaultCancellationWindow)
}

func ReminderInterval() time.Duration {
	return GetDuration("REMINDER_INTERVAL", DefaultReminderInterval)
}

func RoomCacheTTL() time.Duration {
	return GetDuration("ROOM_CACHE_TTL", DefaultRoomCacheTTL)
}

func MaintenanceMode() bool {
	return GetBool("MAINTENANCE_MODE")
}

func HotelName() string {
	return GetEnv("HOTEL_NAME", DefaultHotelName)
}

func ReservationEventsQueue() string {
	return GetEnv("RESERVATION_EVENTS_QUEUE", "reservation-events")
}

func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}
