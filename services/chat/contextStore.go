// File: services/chat/contextStore.go
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "chat:session:"

// SessionStore owns the session-keyed mapping consulted at the start of every
// turn. The session returned by Get is exclusively owned by that turn until
// it is written back with Put.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationSession, error)
	Put(ctx context.Context, sess *models.ConversationSession) error
	End(ctx context.Context, sessionID string) error
}

// RedisSessionStore persists sessions in Redis with a TTL, so an abandoned
// conversation expires on its own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationSession, error) {
	key := sessionPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.NewConversationSession(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.ConversationSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, sess *models.ConversationSession) error {
	key := sessionPrefix + sess.ID
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) End(ctx context.Context, sessionID string) error {
	key := sessionPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}

// MemorySessionStore keeps sessions in a process-local map. Used in tests and
// single-process deployments.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.ConversationSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.ConversationSession)}
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return models.NewConversationSession(sessionID), nil
	}
	// Hand out a copy; the turn owns it until Put.
	clone := *sess
	clone.Messages = append([]models.Message(nil), sess.Messages...)
	if sess.Draft != nil {
		draft := *sess.Draft
		draft.Valid = make(map[models.Slot]bool, len(sess.Draft.Valid))
		for k, v := range sess.Draft.Valid {
			draft.Valid[k] = v
		}
		clone.Draft = &draft
	}
	return &clone, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, sess *models.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
