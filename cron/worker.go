package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"concierge/config"
	"concierge/models"
	"concierge/services/notification"
	"concierge/services/tasks"

	"github.com/hibiken/asynq"
)

// InitConfirmationWorker runs the async email worker in background.
func InitConfirmationWorker(mailer notification.Notifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendConfirmation, handleConfirmationTask(mailer))

	// Start async worker with retry logic
	go func() {
		log.Println("[ConfirmationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ConfirmationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ConfirmationWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleConfirmationTask(mailer notification.Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var booking models.Booking
		if err := json.Unmarshal(task.Payload(), &booking); err != nil {
			log.Printf("[ConfirmationWorker] invalid payload: %v", err)
			return err
		}

		if err := mailer.SendConfirmation(ctx, booking); err != nil {
			log.Printf("[ConfirmationWorker] failed to send confirmation for booking %s: %v", booking.ID, err)
			return err
		}
		return nil
	}
}
