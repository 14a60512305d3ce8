package reservations

import "errors"

// Expected outcomes of an admission or cancellation. Anything else returned
// by the Service is a storage failure.
var (
	ErrNotFound    = errors.New("not found")
	ErrOverlap     = errors.New("room is already reserved in this period")
	ErrForbidden   = errors.New("reservation belongs to another user")
	ErrTooLate     = errors.New("cancellation window has elapsed")
	ErrInvalidStay = errors.New("stay must cover at least one night")
)

// IsExpected reports whether err is one of the decision outcomes above.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOverlap) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrTooLate) ||
		errors.Is(err, ErrInvalidStay)
}
