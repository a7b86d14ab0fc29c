package tasks

import (
	"encoding/json"

	"concierge/models"

	"github.com/hibiken/asynq"
)

const TypeSendConfirmation = "confirmation:send"

// NewConfirmationTask builds the queued task carrying a confirmed booking to
// the email worker.
func NewConfirmationTask(booking models.Booking) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(booking)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
