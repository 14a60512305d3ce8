// Package pricing computes the total price of a stay from the room category
// and the calendar nights it covers.
package pricing

import (
	"time"

	"github.com/gogonoten/johotel/src/types"
	"github.com/shopspring/decimal"
)

// RateTable holds the nightly base rate per category and the surcharge
// multiplier applied to every Friday and Saturday night.
type RateTable struct {
	Nightly          map[types.RoomCategory]decimal.Decimal
	WeekendSurcharge decimal.Decimal
}

func DefaultRates() RateTable {
	return RateTable{
		Nightly: map[types.RoomCategory]decimal.Decimal{
			types.ROOM_STANDARD: decimal.NewFromInt(1000),
			types.ROOM_FAMILY:   decimal.NewFromInt(1500),
			types.ROOM_SUITE:    decimal.NewFromInt(2500),
		},
		WeekendSurcharge: decimal.RequireFromString("0.15"),
	}
}

// Nights counts the calendar nights between the UTC dates of checkIn and
// checkOut. Time of day is ignored.
func Nights(checkIn, checkOut time.Time) int {
	in := civilDate(checkIn)
	out := civilDate(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

func (r RateTable) BaseRate(category types.RoomCategory) (decimal.Decimal, bool) {
	base, ok := r.Nightly[category]
	return base, ok
}

// PriceForStay returns false when the stay covers no calendar night or the
// category has no rate.
func (r RateTable) PriceForStay(category types.RoomCategory, checkIn, checkOut time.Time) (decimal.Decimal, bool) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return decimal.Zero, false
	}
	base, ok := r.BaseRate(category)
	if !ok {
		return decimal.Zero, false
	}

	surcharge := r.WeekendSurcharge.Mul(base)
	total := base.Mul(decimal.NewFromInt(int64(nights)))
	first := civilDate(checkIn)
	for i := 0; i < nights; i++ {
		switch first.AddDate(0, 0, i).Weekday() {
		case time.Friday, time.Saturday:
			total = total.Add(surcharge)
		}
	}
	return total, true
}

// PriceForStay prices a stay with the default rate table.
func PriceForStay(category types.RoomCategory, checkIn, checkOut time.Time) (decimal.Decimal, bool) {
	return DefaultRates().PriceForStay(category, checkIn, checkOut)
}

func civilDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
