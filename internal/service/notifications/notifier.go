package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

// MailSender is satisfied by email.Sender.
type MailSender interface {
	SendReservationMail(ctx context.Context, mail email.ReservationMail) error
}

type Notifier struct {
	reservations repository.ReservationRepository
	flights      repository.FlightRepository
	accounts     repository.AccountRepository
	sender       MailSender
	now          func() time.Time
}

type NotifierOption func(*Notifier)

func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		n.now = now
	}
}

func NewNotifier(
	reservations repository.ReservationRepository,
	flights repository.FlightRepository,
	accounts repository.AccountRepository,
	sender MailSender,
	opts ...NotifierOption,
) *Notifier {
	notifier := &Notifier{
		reservations: reservations,
		flights:      flights,
		accounts:     accounts,
		sender:       sender,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier
}

// SendReservationInformation emails the reservation details for the leg
// that still matters: the outbound one while it has not departed, else the
// return leg when there is one. A reservation deleted between enqueue and
// execution is a no-op, not an error.
func (n *Notifier) SendReservationInformation(ctx context.Context, reservationID uuid.UUID) error {
	reservation, err := n.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	flight, err := n.relevantLeg(ctx, reservation)
	if err != nil {
		return err
	}

	author, err := n.accounts.GetByID(ctx, reservation.AuthorID)
	if err != nil {
		return err
	}

	return n.sender.SendReservationMail(ctx, email.ReservationMail{
		Recipient:     author.Email,
		FullName:      author.FullName(),
		Designation:   flight.Designation(),
		Departure:     flight.ExpectedDeparture,
		ReservationID: reservation.ID.String(),
		Heading:       "Your Flight Reservation Details",
		Subject:       fmt.Sprintf("Your Flight Reservation for %s", flight.Designation()),
	})
}

// SendWithRetry bounds retries of transport failures. Anything that is not
// an external failure is terminal on the first attempt.
func (n *Notifier) SendWithRetry(ctx context.Context, reservationID uuid.UUID, maxRetries int, delay time.Duration) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := n.SendReservationInformation(ctx, reservationID)
		if err == nil {
			return nil
		}

		var ext *domain.ExternalError
		if !errors.As(err, &ext) {
			return err
		}
		lastErr = err

		if attempt < maxRetries {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// SendReminders mails every active reservation with a leg departing today
// that has not been reminded yet, and flags each one sent.
func (n *Notifier) SendReminders(ctx context.Context) (int, error) {
	now := n.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	due, err := n.reservations.DueReminders(ctx, start, end)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, reservation := range due {
		flight, err := n.relevantLeg(ctx, &reservation)
		if err != nil {
			log.Printf("reminder for reservation %s: %v", reservation.ID, err)
			continue
		}

		author, err := n.accounts.GetByID(ctx, reservation.AuthorID)
		if err != nil {
			log.Printf("reminder for reservation %s: %v", reservation.ID, err)
			continue
		}

		err = n.sender.SendReservationMail(ctx, email.ReservationMail{
			Recipient:     author.Email,
			FullName:      author.FullName(),
			Designation:   flight.Designation(),
			Departure:     flight.ExpectedDeparture,
			ReservationID: reservation.ID.String(),
			Heading:       "Your Flight is Coming Up Soon",
			Subject:       fmt.Sprintf("Flight Reservation For %s", author.FullName()),
		})
		if err != nil {
			log.Printf("reminder for reservation %s: %v", reservation.ID, err)
			continue
		}

		if err := n.reservations.MarkReminderSent(ctx, reservation.ID); err != nil {
			log.Printf("mark reminder sent for reservation %s: %v", reservation.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (n *Notifier) relevantLeg(ctx context.Context, reservation *domain.Reservation) (*domain.Flight, error) {
	flight, err := n.flights.GetByID(ctx, reservation.FirstFlightID)
	if err != nil {
		return nil, err
	}

	if flight.ExpectedDeparture.Before(n.now()) && reservation.ReturnFlightID != nil {
		return n.flights.GetByID(ctx, *reservation.ReturnFlightID)
	}
	return flight, nil
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
