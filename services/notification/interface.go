package notification

import (
	"context"

	"concierge/models"
)

// Notifier sends the booking confirmation notice. A failure here is non-fatal
// to the booking itself; callers surface it as a status event only.
type Notifier interface {
	SendConfirmation(ctx context.Context, booking models.Booking) error
}
