// File: services/chat/intent.go
package chat

import (
	"regexp"
	"strings"

	"concierge/models"
)

// Intent classifies one user message given the session's dialogue state.
type Intent string

const (
	IntentStartBooking    Intent = "START_BOOKING"
	IntentContinueBooking Intent = "CONTINUE_BOOKING"
	IntentConfirm         Intent = "CONFIRM"
	IntentDeny            Intent = "DENY"
	IntentCancel          Intent = "CANCEL"
	IntentAskQuestion     Intent = "ASK_QUESTION"
	IntentUnknown         Intent = "UNKNOWN"
)

// intentRule pairs a pattern with the intent it signals. Rules live in
// explicit tables so each can be unit-tested apart from the state machine.
type intentRule struct {
	pattern *regexp.Regexp
	intent  Intent
}

// bookingRules detect the wish to start a booking outside an active flow.
var bookingRules = []intentRule{
	{regexp.MustCompile(`\bbook\b`), IntentStartBooking},
	{regexp.MustCompile(`\bmake\s+a\s+booking\b`), IntentStartBooking},
	{regexp.MustCompile(`\bcreate\s+a\s+booking\b`), IntentStartBooking},
	{regexp.MustCompile(`\breserve\b`), IntentStartBooking},
	{regexp.MustCompile(`\breservation\b`), IntentStartBooking},
	{regexp.MustCompile(`\bschedule\b`), IntentStartBooking},
	{regexp.MustCompile(`\bappointment\b`), IntentStartBooking},
	// Outside an active flow these still belong to the booking surface; the
	// flow starts fresh since there is no draft to amend.
	{regexp.MustCompile(`\bcancel\s+my\s+booking\b`), IntentStartBooking},
	{regexp.MustCompile(`\bchange\s+my\s+booking\b`), IntentStartBooking},
}

// metaWords force ASK_QUESTION even when a booking keyword appears, so that
// "tell me about the booking assistant project" stays a question.
var metaWords = []string{"project", "requirements", "objective", "overview", "how it works"}

// cancelRules exit an active flow from any non-terminal state.
var cancelRules = []intentRule{
	{regexp.MustCompile(`^cancel$`), IntentCancel},
	{regexp.MustCompile(`\bcancel\s+(it|this|the\s+booking|my\s+booking)\b`), IntentCancel},
	{regexp.MustCompile(`\b(stop|nevermind|never\s+mind|forget\s+it)\b`), IntentCancel},
}

// confirmRules and denyRules resolve the yes/no confirmation question.
var confirmRules = []intentRule{
	{regexp.MustCompile(`^(yes|y|yeah|yep|sure|confirm|ok|okay)\b`), IntentConfirm},
}

var denyRules = []intentRule{
	{regexp.MustCompile(`^(no|n|nope)\b`), IntentDeny},
}

func matchAny(rules []intentRule, text string) (Intent, bool) {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.intent, true
		}
	}
	return IntentUnknown, false
}

// DetectIntent is a pure function of (state, text). Mid-booking it prefers
// the flow-control intents; otherwise it decides between starting a booking
// and asking a question.
func DetectIntent(state models.DialogueState, text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return IntentUnknown
	}

	if state.InBooking() {
		if intent, ok := matchAny(cancelRules, normalized); ok {
			return intent
		}
		if state == models.StateAwaitingConfirmation {
			if intent, ok := matchAny(confirmRules, normalized); ok {
				return intent
			}
			if intent, ok := matchAny(denyRules, normalized); ok {
				return intent
			}
			return IntentUnknown
		}
		// Any other text while collecting is treated as the slot answer.
		return IntentContinueBooking
	}

	for _, word := range metaWords {
		if strings.Contains(normalized, word) {
			return IntentAskQuestion
		}
	}
	if intent, ok := matchAny(bookingRules, normalized); ok {
		return intent
	}
	return IntentAskQuestion
}
