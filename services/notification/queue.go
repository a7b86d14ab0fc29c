// File: services/notification/queue.go
package notification

import (
	"context"
	"fmt"

	"concierge/models"
	"concierge/services/tasks"

	"github.com/hibiken/asynq"
)

// QueueNotifier hands confirmation emails to the background worker instead of
// blocking the turn on SMTP.
type QueueNotifier struct {
	client *asynq.Client
}

func NewQueueNotifier(opts asynq.RedisClientOpt) *QueueNotifier {
	return &QueueNotifier{client: asynq.NewClient(opts)}
}

func (q *QueueNotifier) SendConfirmation(ctx context.Context, booking models.Booking) error {
	task, opts, err := tasks.NewConfirmationTask(booking)
	if err != nil {
		return fmt.Errorf("failed to build confirmation task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue confirmation email: %w", err)
	}
	return nil
}

func (q *QueueNotifier) Close() error {
	return q.client.Close()
}
