package booking

import "fmt"

// ValidationError reports a rejected slot value. It is recoverable: the
// machine re-prompts for the same slot and the state does not advance.
type ValidationError struct {
	Slot    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Slot, e.Message)
}

func NewValidationError(slot, msg string) error {
	return &ValidationError{
		Slot:    slot,
		Message: msg,
	}
}
