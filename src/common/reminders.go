package common

import (
	"context"
	"errors"
	"time"

	"github.com/gogonoten/johotel/src/lib"
	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/pricing"
	"github.com/gogonoten/johotel/src/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const ReminderLead = 24 * time.Hour

type UpcomingLister interface {
	UpcomingCheckIns(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	PriceForStay(category types.RoomCategory, checkIn, checkOut time.Time) (decimal.Decimal, bool)
	Now() time.Time
}

// ReminderJob notifies guests whose check-in falls in
// (now+ReminderLead, now+ReminderLead+interval]. Consecutive runs cover
// adjacent windows, so each reservation is reminded once.
type ReminderJob struct {
	source   UpcomingLister
	notifier Notifier
	interval time.Duration
	logger   *zap.Logger
}

func NewReminderJob(source UpcomingLister, notifier Notifier, interval time.Duration, logger *zap.Logger) *ReminderJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderJob{source: source, notifier: notifier, interval: interval, logger: logger}
}

func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	from := j.source.Now().Add(ReminderLead)
	to := from.Add(j.interval)
	due, err := j.source.UpcomingCheckIns(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, r := range due {
		price := decimal.Zero
		if r.Room != nil {
			if p, ok := j.source.PriceForStay(r.Room.Category, r.CheckIn, r.CheckOut); ok {
				price = p
			}
		}
		event := NewReminderEvent(r, pricing.Nights(r.CheckIn, r.CheckOut), price, j.source.Now())
		if err := j.notifier.Notify(ctx, event); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// Schedule registers the job with the shared gocron scheduler.
func (j *ReminderJob) Schedule() (*string, error) {
	return lib.CreateCronJob("checkin-reminders", func() {
		sent, err := j.Run(context.Background())
		if err != nil {
			j.logger.Error("check-in reminders", zap.Int("sent", sent), zap.Error(err))
			return
		}
		j.logger.Info("check-in reminders", zap.Int("sent", sent))
	}, j.interval)
}
