package intelligence

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/api/googleapi"
)

// ServiceError wraps a failed call to the hosted generation or embedding
// service. Transient failures (network, rate limits, 5xx) are retried;
// validation-class failures (bad request, auth) are not.
type ServiceError struct {
	Op        string
	Err       error
	Transient bool
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func wrapServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Op: op, Err: err, Transient: isTransient(err)}
}

func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

const maxAttempts = 3

// withRetry runs fn up to maxAttempts times, backing off exponentially
// between attempts. Only transient failures are retried.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = fn()
		if err == nil {
			return nil
		}
		var serr *ServiceError
		if !errors.As(err, &serr) || !serr.Transient {
			return err
		}
	}
	return err
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
