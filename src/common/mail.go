package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogonoten/johotel/src/lib"
)

const dateLayout = "Monday, 2 January 2006"

type SendMailFunc func(ctx context.Context, input *lib.SendMailInput) error

// ConfirmationMailer emails the guest on admission and before check-in.
// Other events and events without an address are ignored.
type ConfirmationMailer struct {
	hotel string
	from  string
	send  SendMailFunc
}

func NewConfirmationMailer(hotel, from string, send SendMailFunc) *ConfirmationMailer {
	if send == nil {
		send = lib.SendMail
	}
	return &ConfirmationMailer{hotel: hotel, from: from, send: send}
}

func (m *ConfirmationMailer) Notify(ctx context.Context, event ReservationEvent) error {
	if event.Email == "" || event.CheckIn == nil || event.CheckOut == nil {
		return nil
	}
	var subject string
	switch event.Type {
	case EventReservationCreated:
		subject = fmt.Sprintf("Booking confirmation - %s", m.hotel)
	case EventReservationReminder:
		subject = fmt.Sprintf("Your stay at %s starts tomorrow", m.hotel)
	default:
		return nil
	}
	return m.send(ctx, &lib.SendMailInput{
		From:     m.from,
		FromName: m.hotel,
		To:       []string{event.Email},
		Subject:  subject,
		Body:     m.body(event),
	})
}

func (m *ConfirmationMailer) body(e ReservationEvent) string {
	var b strings.Builder
	if e.Type == EventReservationReminder {
		fmt.Fprintf(&b, "We look forward to welcoming you at %s.\n\n", m.hotel)
	} else {
		fmt.Fprintf(&b, "Thank you for booking with %s.\n\n", m.hotel)
	}
	fmt.Fprintf(&b, "Reservation: #%d\n", e.ReservationID)
	fmt.Fprintf(&b, "Room: %d (%s)\n", e.RoomNumber, e.Category.DisplayName())
	fmt.Fprintf(&b, "Check-in: %s\n", e.CheckIn.Format(dateLayout))
	fmt.Fprintf(&b, "Check-out: %s\n", e.CheckOut.Format(dateLayout))
	fmt.Fprintf(&b, "Nights: %d\n", e.Nights)
	fmt.Fprintf(&b, "Total price: %s DKK\n", e.TotalPrice)
	return b.String()
}
