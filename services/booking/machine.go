// File: services/booking/machine.go
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge/models"
)

// Machine owns the slot-filling booking flow: which slot each state collects,
// per-slot validation, and the confirmation gate. It mutates only the session
// it is handed and performs no I/O, so each method is safe to call from the
// single turn that owns the session.
type Machine struct {
	// ServiceTypes optionally constrains booking_type to a configured set.
	ServiceTypes []string
	// Clock is used for the date-not-in-the-past rule. Defaults to time.Now.
	Clock func() time.Time
}

func NewMachine(serviceTypes []string) *Machine {
	return &Machine{ServiceTypes: serviceTypes}
}

func (m *Machine) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

// collectingOrder maps each collecting state to the slot it gathers and the
// state that follows a successful fill.
var collectingOrder = []struct {
	state models.DialogueState
	slot  models.Slot
	next  models.DialogueState
}{
	{models.StateCollectingName, models.SlotName, models.StateCollectingEmail},
	{models.StateCollectingEmail, models.SlotEmail, models.StateCollectingPhone},
	{models.StateCollectingPhone, models.SlotPhone, models.StateCollectingType},
	{models.StateCollectingType, models.SlotType, models.StateCollectingDate},
	{models.StateCollectingDate, models.SlotDate, models.StateCollectingTime},
	{models.StateCollectingTime, models.SlotTime, models.StateAwaitingConfirmation},
}

var slotPrompts = map[models.Slot]string{
	models.SlotName:  "To get started, what's your full name?",
	models.SlotEmail: "Please provide your email address.",
	models.SlotPhone: "What is the best phone number to reach you?",
	models.SlotType:  "What type of booking would you like to make (e.g. consultation, demo, reservation)?",
	models.SlotDate:  "On which date would you like the booking? (format: YYYY-MM-DD)",
	models.SlotTime:  "At what time? (e.g. 14:30 or 2:30 PM)",
}

// Start resets the session to the beginning of a fresh booking flow and
// returns the first slot prompt.
func (m *Machine) Start(sess *models.ConversationSession) string {
	sess.Draft = models.NewBookingDraft()
	sess.State = models.StateCollectingName
	return slotPrompts[models.SlotName]
}

// Prompt returns the outstanding question for the session's current state,
// used to re-prompt after an unresolved turn.
func (m *Machine) Prompt(sess *models.ConversationSession) string {
	if sess.State == models.StateAwaitingConfirmation {
		return m.Summary(sess.Draft) + "\n\nPlease confirm: do you want me to place this booking? (yes/no)"
	}
	for _, step := range collectingOrder {
		if step.state == sess.State {
			return slotPrompts[step.slot]
		}
	}
	return ""
}

// Collect validates the incoming message against the current slot's rule.
// On success the slot is stored, flagged valid, and the state advances; once
// the time slot is filled the reply carries the summary and confirmation
// question. On failure the state is unchanged and the reply carries the
// validation error together with the same slot's prompt.
func (m *Machine) Collect(sess *models.ConversationSession, input string) string {
	for _, step := range collectingOrder {
		if step.state != sess.State {
			continue
		}
		if sess.Draft == nil {
			sess.Draft = models.NewBookingDraft()
		}
		value, err := m.validateSlot(step.slot, input)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return verr.Message + " " + slotPrompts[step.slot]
			}
			return slotPrompts[step.slot]
		}
		m.store(sess.Draft, step.slot, value)
		sess.State = step.next
		if step.next == models.StateAwaitingConfirmation {
			return m.Summary(sess.Draft) + "\n\nPlease confirm: do you want me to place this booking? (yes/no)"
		}
		return slotPrompts[nextSlot(step.next)]
	}
	return m.Prompt(sess)
}

// Cancel discards the draft and moves the session to the cancelled terminal state.
func (m *Machine) Cancel(sess *models.ConversationSession) string {
	sess.Draft = nil
	sess.State = models.StateCancelled
	return "Okay, I've cancelled this booking request. If you'd like to start over, just let me know."
}

// Record builds the immutable booking snapshot from a complete draft. It is
// the only path from draft to record and refuses unconfirmed or
// partially-invalid drafts.
func (m *Machine) Record(sess *models.ConversationSession) (*models.Booking, error) {
	if sess.State != models.StateAwaitingConfirmation {
		return nil, fmt.Errorf("booking not awaiting confirmation (state %s)", sess.State)
	}
	if sess.Draft == nil || !sess.Draft.Complete() {
		return nil, fmt.Errorf("booking draft is incomplete")
	}
	return &models.Booking{
		Name:        sess.Draft.Name,
		Email:       sess.Draft.Email,
		Phone:       sess.Draft.Phone,
		BookingType: sess.Draft.BookingType,
		Date:        sess.Draft.Date,
		Time:        sess.Draft.Time,
		Status:      "confirmed",
	}, nil
}

// Summary renders the draft as a human-readable block shown at the
// confirmation gate.
func (m *Machine) Summary(d *models.BookingDraft) string {
	if d == nil {
		d = models.NewBookingDraft()
	}
	lines := []string{
		"Here are your booking details:",
		"- Name: " + orNA(d.Name),
		"- Email: " + orNA(d.Email),
		"- Phone: " + orNA(d.Phone),
		"- Booking type: " + orNA(d.BookingType),
		"- Date: " + orNA(d.Date),
		"- Time: " + orNA(d.Time),
	}
	return strings.Join(lines, "\n")
}

func (m *Machine) store(d *models.BookingDraft, slot models.Slot, value string) {
	switch slot {
	case models.SlotName:
		d.Name = value
	case models.SlotEmail:
		d.Email = value
	case models.SlotPhone:
		d.Phone = value
	case models.SlotType:
		d.BookingType = value
	case models.SlotDate:
		d.Date = value
	case models.SlotTime:
		d.Time = value
	}
	d.Valid[slot] = true
}

func nextSlot(state models.DialogueState) models.Slot {
	for _, step := range collectingOrder {
		if step.state == state {
			return step.slot
		}
	}
	return models.SlotName
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
