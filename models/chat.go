package models

import "time"

// DialogueState tags where a conversation session is in the booking flow.
type DialogueState string

const (
	StateIdle                 DialogueState = "IDLE"
	StateCollectingName       DialogueState = "COLLECTING_NAME"
	StateCollectingEmail      DialogueState = "COLLECTING_EMAIL"
	StateCollectingPhone      DialogueState = "COLLECTING_PHONE"
	StateCollectingType       DialogueState = "COLLECTING_TYPE"
	StateCollectingDate       DialogueState = "COLLECTING_DATE"
	StateCollectingTime       DialogueState = "COLLECTING_TIME"
	StateAwaitingConfirmation DialogueState = "AWAITING_CONFIRMATION"
	StateConfirmed            DialogueState = "CONFIRMED"
	StateCancelled            DialogueState = "CANCELLED"
)

// Terminal reports whether the state ends the current booking flow.
func (s DialogueState) Terminal() bool {
	return s == StateConfirmed || s == StateCancelled
}

// InBooking reports whether a booking draft is actively being collected or confirmed.
func (s DialogueState) InBooking() bool {
	return s != StateIdle && !s.Terminal()
}

// Message is one turn entry in a conversation history.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationSession is the per-session state owned by the chat orchestrator.
// It is exclusively owned by the turn currently processing it.
type ConversationSession struct {
	ID       string        `json:"sessionId"`
	Messages []Message     `json:"messages"`
	State    DialogueState `json:"state"`
	Draft    *BookingDraft `json:"draft,omitempty"`
}

func NewConversationSession(id string) *ConversationSession {
	return &ConversationSession{ID: id, State: StateIdle}
}

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// StatusEvent is a human-readable outcome notice for display, never for control flow.
type StatusEvent struct {
	Kind    string `json:"kind"` // e.g. "booking_saved", "email_failed"
	Message string `json:"message"`
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	SessionID string        `json:"session_id"`
	Reply     string        `json:"reply"`
	Events    []StatusEvent `json:"events,omitempty"`
}
