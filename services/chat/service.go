// File: services/chat/service.go
package chat

import (
	"context"
	"strings"
	"time"

	bookingsRepo "concierge/database/repository/bookings"
	"concierge/models"
	"concierge/services/booking"
	"concierge/services/notification"
	"concierge/services/rag"

	"go.uber.org/zap"
)

const (
	generateTimeout = 30 * time.Second
	persistTimeout  = 10 * time.Second
)

// DefaultChatService processes one user turn at a time per session: it loads
// the session, routes the message by intent, runs either the booking flow or
// the retrieval path, and writes the session back. Every collaborator failure
// maps to an assistant-visible message and a consistent state; no turn
// crashes the session.
type DefaultChatService struct {
	Store      SessionStore
	Machine    *booking.Machine
	Retriever  *rag.Retriever
	Composer   *rag.Composer
	Generator  Generator
	Repo       bookingsRepo.BookingRepository
	Notifier   notification.Notifier
	Logger     *zap.Logger
	MaxHistory int
}

func NewDefaultChatService(
	store SessionStore,
	machine *booking.Machine,
	retriever *rag.Retriever,
	composer *rag.Composer,
	generator Generator,
	repo bookingsRepo.BookingRepository,
	notifier notification.Notifier,
	logger *zap.Logger,
	maxHistory int,
) *DefaultChatService {
	if maxHistory <= 0 {
		maxHistory = 25
	}
	return &DefaultChatService{
		Store:      store,
		Machine:    machine,
		Retriever:  retriever,
		Composer:   composer,
		Generator:  generator,
		Repo:       repo,
		Notifier:   notifier,
		Logger:     logger,
		MaxHistory: maxHistory,
	}
}

// ProcessTurn handles one user message and returns the assistant reply plus
// display-only status events.
func (s *DefaultChatService) ProcessTurn(ctx context.Context, sessionID, userText string) (*models.ChatResponse, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userText = strings.TrimSpace(userText)
	if userText == "" {
		reply := "Please type a message so I can assist you."
		s.addMessage(sess, "assistant", reply)
		if err := s.Store.Put(ctx, sess); err != nil {
			return nil, err
		}
		return &models.ChatResponse{SessionID: sess.ID, Reply: reply}, nil
	}

	s.addMessage(sess, "user", userText)

	intent := DetectIntent(sess.State, userText)
	reply, events := s.dispatch(ctx, sess, intent, userText)

	s.addMessage(sess, "assistant", reply)
	if err := s.Store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &models.ChatResponse{SessionID: sess.ID, Reply: reply, Events: events}, nil
}

func (s *DefaultChatService) dispatch(ctx context.Context, sess *models.ConversationSession, intent Intent, text string) (string, []models.StatusEvent) {
	switch intent {
	case IntentStartBooking:
		return s.Machine.Start(sess), nil
	case IntentContinueBooking:
		return s.Machine.Collect(sess, text), nil
	case IntentCancel, IntentDeny:
		if sess.State.InBooking() {
			return s.Machine.Cancel(sess), nil
		}
		return s.answerQuestion(ctx, sess, text)
	case IntentConfirm:
		return s.confirmBooking(ctx, sess)
	case IntentAskQuestion:
		return s.answerQuestion(ctx, sess, text)
	default:
		// Unresolved intent: re-ask the last outstanding question rather
		// than failing the turn.
		if sess.State == models.StateAwaitingConfirmation {
			return "Please answer with 'yes' to confirm the booking or 'no' to cancel.", nil
		}
		if sess.State.InBooking() {
			return "I didn't catch that. " + s.Machine.Prompt(sess), nil
		}
		return "I'm not sure what you mean. You can ask me a question or say 'book' to make a booking.", nil
	}
}

// confirmBooking runs the CONFIRMED transition: snapshot the draft, persist
// it, then queue the notification. A persistence failure keeps the session at
// AWAITING_CONFIRMATION so the user can retry the confirmation; a
// notification failure is reported but never rolls the booking back.
func (s *DefaultChatService) confirmBooking(ctx context.Context, sess *models.ConversationSession) (string, []models.StatusEvent) {
	record, err := s.Machine.Record(sess)
	if err != nil {
		s.Logger.Warn("confirmation rejected", zap.String("session", sess.ID), zap.Error(err))
		return "I don't have a completed booking to confirm. Say 'book' to start one.", nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	id, err := s.Repo.Create(saveCtx, *record)
	if err != nil {
		s.Logger.Error("booking save failed", zap.String("session", sess.ID), zap.Error(err))
		events := []models.StatusEvent{{Kind: "booking_save_failed", Message: "booking could not be saved: " + err.Error()}}
		return "I couldn't save your booking just now. Please say 'yes' again to retry, or 'no' to cancel.", events
	}
	record.ID = id

	sess.State = models.StateConfirmed
	sess.Draft = nil
	events := []models.StatusEvent{{Kind: "booking_saved", Message: "booking saved with ID " + id}}

	if err := s.Notifier.SendConfirmation(ctx, *record); err != nil {
		s.Logger.Warn("confirmation email failed", zap.String("booking", id), zap.Error(err))
		events = append(events, models.StatusEvent{Kind: "email_failed", Message: "email failed: " + err.Error()})
	} else {
		events = append(events, models.StatusEvent{Kind: "email_queued", Message: "confirmation email queued for " + record.Email})
	}

	return "Great, your booking is confirmed! Your booking ID is " + id + ".", events
}

// answerQuestion runs the retrieval path. An earlier identical question is
// answered from history without a new generation call.
func (s *DefaultChatService) answerQuestion(ctx context.Context, sess *models.ConversationSession, question string) (string, []models.StatusEvent) {
	if previous := s.previousAnswer(sess, question); previous != "" {
		return "You asked a similar question earlier. Here's the answer I shared before:\n\n" + previous, nil
	}

	retrieved, err := s.Retriever.Retrieve(ctx, question)
	if err != nil {
		s.Logger.Warn("retrieval failed", zap.Error(err))
		// Degrade to an ungrounded answer rather than failing the turn.
		retrieved = nil
	}

	prompt := s.Composer.Build(question, sess.Messages, retrieved)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	answer, err := s.Generator.Generate(genCtx, prompt.Text)
	if err != nil {
		s.Logger.Error("generation failed", zap.Error(err))
		return "I'm having trouble answering right now. Please try again in a moment.",
			[]models.StatusEvent{{Kind: "generation_failed", Message: "answer service unavailable: " + err.Error()}}
	}

	var events []models.StatusEvent
	if !prompt.Grounded {
		events = append(events, models.StatusEvent{Kind: "no_grounding", Message: "no document context was found for this answer"})
	}
	return answer, events
}

// previousAnswer returns the assistant reply that followed an identical
// (normalized) user question earlier in this session, if any.
func (s *DefaultChatService) previousAnswer(sess *models.ConversationSession, question string) string {
	normalized := normalizeText(question)
	// The question just asked is already the last history entry; skip it.
	for i := 0; i < len(sess.Messages)-1; i++ {
		msg := sess.Messages[i]
		if msg.Role != "user" || normalizeText(msg.Content) != normalized {
			continue
		}
		for j := i + 1; j < len(sess.Messages)-1; j++ {
			if sess.Messages[j].Role == "assistant" {
				return sess.Messages[j].Content
			}
		}
	}
	return ""
}

func (s *DefaultChatService) addMessage(sess *models.ConversationSession, role, content string) {
	sess.Messages = append(sess.Messages, models.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if overflow := len(sess.Messages) - s.MaxHistory; overflow > 0 {
		sess.Messages = sess.Messages[overflow:]
	}
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
