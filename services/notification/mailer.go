// File: services/notification/mailer.go
package notification

import (
	"context"
	"fmt"

	"concierge/models"

	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers confirmation emails over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	if host == "" || from == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}, nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, booking models.Booking) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", booking.Email)
	msg.SetHeader("Subject", "Your booking is confirmed")
	msg.SetBody("text/plain", confirmationBody(booking))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func confirmationBody(b models.Booking) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour booking is confirmed. Here are the details:\n\n"+
			"Booking ID: %s\nService: %s\nDate: %s\nTime: %s\nPhone: %s\n\n"+
			"If you need to make changes, just reply to this email.\n",
		b.Name, b.ID, b.BookingType, b.Date, b.Time, b.Phone)
}
