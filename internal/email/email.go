package email

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/template"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport delivers a rendered message. The production transport is wired
// in main; LogTransport stands in where no mail relay is configured.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

type LogTransport struct{}

func (LogTransport) Deliver(_ context.Context, msg Message) error {
	log.Printf("send email to %s: %s", msg.To, msg.Subject)
	return nil
}

// ReservationMail is the data rendered into reservation emails.
type ReservationMail struct {
	Recipient     string
	FullName      string
	Designation   string
	Departure     time.Time
	ReservationID string
	Heading       string
	Subject       string
	AppURL        string
}

var bodyTemplate = template.Must(template.New("reservation").Parse(
	`Hello {{.FullName}},

{{.Heading}}

Flight {{.Designation}} departs {{.Departure.Format "Mon, 02 Jan 2006 15:04 MST"}}.

View your reservation: {{.AppURL}}/api/v1/reservations/{{.ReservationID}}/
`))

type Sender struct {
	transport  Transport
	fromDomain string
	appURL     string
}

func NewSender(transport Transport, fromDomain, appURL string) *Sender {
	if transport == nil {
		transport = LogTransport{}
	}
	return &Sender{transport: transport, fromDomain: fromDomain, appURL: appURL}
}

func (s *Sender) SendReservationMail(ctx context.Context, mail ReservationMail) error {
	mail.AppURL = s.appURL

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, mail); err != nil {
		return fmt.Errorf("render reservation mail: %w", err)
	}

	msg := Message{
		From:    fmt.Sprintf("Flight Booking Reservations <reservations@%s>", s.fromDomain),
		To:      mail.Recipient,
		Subject: mail.Subject,
		Body:    body.String(),
	}
	if err := s.transport.Deliver(ctx, msg); err != nil {
		return &domain.ExternalError{Op: "deliver reservation mail", Err: err}
	}
	return nil
}
