package booking

import (
	"regexp"
	"strings"
	"time"

	"concierge/models"
)

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// time layouts accepted for the time slot, tried in order.
var timeLayouts = []string{"15:04", "3:04PM", "3:04 PM", "3PM", "3 PM"}

func validateName(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", NewValidationError("name", "Please provide a valid name.")
	}
	return value, nil
}

func validateEmail(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !emailPattern.MatchString(value) {
		return "", NewValidationError("email",
			"That email address doesn't look valid. Please enter a valid email (e.g. name@example.com).")
	}
	return value, nil
}

func validatePhone(value string) (string, error) {
	digits := nonDigitPattern.ReplaceAllString(value, "")
	if len(digits) < 7 || len(digits) > 15 {
		return "", NewValidationError("phone",
			"Please provide a valid phone number (7 to 15 digits).")
	}
	return digits, nil
}

func validateBookingType(value string, allowed []string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", NewValidationError("booking_type", "Please provide a valid booking type.")
	}
	if len(allowed) == 0 {
		return value, nil
	}
	for _, svc := range allowed {
		if strings.EqualFold(svc, value) {
			return svc, nil
		}
	}
	return "", NewValidationError("booking_type",
		"That service isn't offered. Available options: "+strings.Join(allowed, ", ")+".")
}

func validateDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", NewValidationError("date", "Please enter a valid date in the format YYYY-MM-DD.")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return "", NewValidationError("date", "That date has already passed. Please pick today or a later date.")
	}
	return parsed.Format("2006-01-02"), nil
}

func validateTime(value string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, normalized)
		if err == nil {
			return parsed.Format("15:04"), nil
		}
	}
	return "", NewValidationError("time",
		"Please enter a valid time, e.g. 14:30 or 2:30 PM.")
}

// validateSlot dispatches to the slot's dedicated rule and returns the
// normalized value to store.
func (m *Machine) validateSlot(slot models.Slot, value string) (string, error) {
	switch slot {
	case models.SlotName:
		return validateName(value)
	case models.SlotEmail:
		return validateEmail(value)
	case models.SlotPhone:
		return validatePhone(value)
	case models.SlotType:
		return validateBookingType(value, m.ServiceTypes)
	case models.SlotDate:
		return validateDate(value, m.now())
	case models.SlotTime:
		return validateTime(value)
	}
	return strings.TrimSpace(value), nil
}
