package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"concierge/models"
	"concierge/services/booking"
	"concierge/services/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	lastPrompt string
	err        error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return "generated answer", nil
}

type fakeRepo struct {
	saved   []models.Booking
	failing bool
}

func (f *fakeRepo) Create(ctx context.Context, b models.Booking) (string, error) {
	if f.failing {
		return "", errors.New("storage unavailable")
	}
	b.ID = fmt.Sprintf("bk-%d", len(f.saved)+1)
	f.saved = append(f.saved, b)
	return b.ID, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	for i := range f.saved {
		if f.saved[i].ID == id {
			return &f.saved[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) List(ctx context.Context) ([]models.Booking, error) {
	return f.saved, nil
}

type fakeNotifier struct {
	sent []models.Booking
	err  error
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, b models.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, b)
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return hashVector(text), nil
}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t)
	}
	return out, nil
}

func hashVector(text string) []float64 {
	v := make([]float64, 8)
	for i, r := range text {
		v[i%8] += float64(r%31) / 31
	}
	return v
}

type harness struct {
	svc      *DefaultChatService
	repo     *fakeRepo
	notifier *fakeNotifier
	gen      *fakeGenerator
	store    *MemorySessionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	machine := booking.NewMachine(nil)
	machine.Clock = func() time.Time {
		return time.Date(2029, 12, 31, 12, 0, 0, 0, time.UTC)
	}
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	gen := &fakeGenerator{}
	store := NewMemorySessionStore()
	retriever := rag.NewRetriever(rag.NewChunker(100, 20), fakeEmbedder{}, 3, zap.NewNop())
	svc := NewDefaultChatService(store, machine, retriever, rag.NewComposer(2000), gen, repo, notifier, zap.NewNop(), 25)
	return &harness{svc: svc, repo: repo, notifier: notifier, gen: gen, store: store}
}

func (h *harness) turn(t *testing.T, text string) *models.ChatResponse {
	t.Helper()
	resp, err := h.svc.ProcessTurn(context.Background(), "sess-1", text)
	require.NoError(t, err)
	return resp
}

func (h *harness) state(t *testing.T) models.DialogueState {
	t.Helper()
	sess, err := h.store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	return sess.State
}

func TestHappyPathBookingScenario(t *testing.T) {
	h := newHarness(t)

	inputs := []string{
		"I want to make a booking",
		"Alice",
		"alice@example.com",
		"9876543210",
		"consultation",
		"2030-01-01",
		"10:00",
		"yes",
	}
	var last *models.ChatResponse
	for _, input := range inputs {
		last = h.turn(t, input)
	}

	assert.Equal(t, models.StateConfirmed, h.state(t))
	require.Len(t, h.repo.saved, 1, "exactly one booking must be persisted")
	saved := h.repo.saved[0]
	assert.Equal(t, "Alice", saved.Name)
	assert.Equal(t, "alice@example.com", saved.Email)
	assert.Equal(t, "9876543210", saved.Phone)
	assert.Equal(t, "consultation", saved.BookingType)
	assert.Equal(t, "2030-01-01", saved.Date)
	assert.Equal(t, "10:00", saved.Time)

	require.Len(t, h.notifier.sent, 1)
	assert.Contains(t, last.Reply, "confirmed")

	kinds := eventKinds(last.Events)
	assert.Contains(t, kinds, "booking_saved")
	assert.Contains(t, kinds, "email_queued")
}

func TestInvalidEmailThenValidProceeds(t *testing.T) {
	h := newHarness(t)
	h.turn(t, "I want to make a booking")
	h.turn(t, "Alice")

	resp := h.turn(t, "not-an-email")
	assert.Equal(t, models.StateCollectingEmail, h.state(t))
	assert.Contains(t, resp.Reply, "email")

	h.turn(t, "alice@example.com")
	assert.Equal(t, models.StateCollectingPhone, h.state(t))
}

func TestDenyAtConfirmationCancelsWithoutPersistence(t *testing.T) {
	h := newHarness(t)
	for _, input := range []string{
		"book", "Alice", "alice@example.com", "9876543210",
		"consultation", "2030-01-01", "10:00",
	} {
		h.turn(t, input)
	}
	require.Equal(t, models.StateAwaitingConfirmation, h.state(t))

	h.turn(t, "no")
	assert.Equal(t, models.StateCancelled, h.state(t))
	assert.Empty(t, h.repo.saved, "deny must not persist anything")
	assert.Empty(t, h.notifier.sent)
}

func TestPersistenceFailureKeepsConfirmationRetryable(t *testing.T) {
	h := newHarness(t)
	for _, input := range []string{
		"book", "Alice", "alice@example.com", "9876543210",
		"consultation", "2030-01-01", "10:00",
	} {
		h.turn(t, input)
	}

	h.repo.failing = true
	resp := h.turn(t, "yes")
	assert.Equal(t, models.StateAwaitingConfirmation, h.state(t), "failed save must not advance")
	assert.Contains(t, eventKinds(resp.Events), "booking_save_failed")
	assert.Empty(t, h.repo.saved)

	// The user retries the confirmation once storage recovers.
	h.repo.failing = false
	h.turn(t, "yes")
	assert.Equal(t, models.StateConfirmed, h.state(t))
	assert.Len(t, h.repo.saved, 1)
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("smtp down")
	for _, input := range []string{
		"book", "Alice", "alice@example.com", "9876543210",
		"consultation", "2030-01-01", "10:00",
	} {
		h.turn(t, input)
	}

	resp := h.turn(t, "yes")
	assert.Equal(t, models.StateConfirmed, h.state(t), "email failure must not roll back the booking")
	assert.Len(t, h.repo.saved, 1)
	assert.Contains(t, eventKinds(resp.Events), "email_failed")
}

func TestQuestionAgainstEmptyIndexFlagsNoGrounding(t *testing.T) {
	h := newHarness(t)

	resp := h.turn(t, "What are your opening hours?")
	assert.Equal(t, "generated answer", resp.Reply)
	assert.Contains(t, eventKinds(resp.Events), "no_grounding")
	assert.Contains(t, h.gen.lastPrompt, "No documents have been ingested yet")
}

func TestRepeatedQuestionReusesEarlierAnswer(t *testing.T) {
	h := newHarness(t)
	first := h.turn(t, "What are your opening hours?")

	repeat := h.turn(t, "what are  your opening hours?")
	assert.Contains(t, repeat.Reply, "earlier")
	assert.Contains(t, repeat.Reply, first.Reply)
}

func TestGenerationFailureDegradesGracefully(t *testing.T) {
	h := newHarness(t)
	h.gen.err = errors.New("model unavailable")

	resp := h.turn(t, "What are your opening hours?")
	assert.Contains(t, resp.Reply, "trouble")
	assert.Contains(t, eventKinds(resp.Events), "generation_failed")
	assert.Equal(t, models.StateIdle, h.state(t), "a failed answer must not disturb dialogue state")
}

func TestUnknownAtConfirmationReprompts(t *testing.T) {
	h := newHarness(t)
	for _, input := range []string{
		"book", "Alice", "alice@example.com", "9876543210",
		"consultation", "2030-01-01", "10:00",
	} {
		h.turn(t, input)
	}

	resp := h.turn(t, "maybe tomorrow")
	assert.Equal(t, models.StateAwaitingConfirmation, h.state(t))
	assert.Contains(t, resp.Reply, "'yes'")
}

func TestEmptyMessagePrompts(t *testing.T) {
	h := newHarness(t)
	resp := h.turn(t, "   ")
	assert.Contains(t, resp.Reply, "type a message")
}

func TestHistoryCapped(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 30; i++ {
		h.turn(t, fmt.Sprintf("question number %d?", i))
	}
	sess, err := h.store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(sess.Messages), 25)
}

func eventKinds(events []models.StatusEvent) []string {
	kinds := make([]string, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
