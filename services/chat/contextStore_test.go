package chat

import (
	"context"
	"testing"

	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReturnsFreshSession(t *testing.T) {
	store := NewMemorySessionStore()

	sess, err := store.Get(context.Background(), "new-session")
	require.NoError(t, err)
	assert.Equal(t, "new-session", sess.ID)
	assert.Equal(t, models.StateIdle, sess.State)
	assert.Empty(t, sess.Messages)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	sess.State = models.StateCollectingName
	sess.Messages = append(sess.Messages, models.Message{Role: "user", Content: "hi"})
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollectingName, got.State)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestMemoryStoreGetCopiesSession(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	sess.Messages = append(sess.Messages, models.Message{Role: "user", Content: "original"})
	require.NoError(t, store.Put(ctx, sess))

	first, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	first.Messages[0].Content = "mutated"
	first.State = models.StateCancelled

	second, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", second.Messages[0].Content, "callers must not share backing storage")
	assert.Equal(t, models.StateIdle, second.State)
}

func TestMemoryStoreEndRemovesSession(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	sess.State = models.StateConfirmed
	require.NoError(t, store.Put(ctx, sess))
	require.NoError(t, store.End(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State, "an ended session starts over")
}
