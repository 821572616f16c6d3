package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deppfellow/askmate/internal/repository"
	"github.com/google/uuid"
)

type session struct {
	userID    int
	expiresAt time.Time
}

// SessionStore keeps sessions in a map; expired entries are dropped on read.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, userID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.sessions[token] = session{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *SessionStore) Get(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	if s.ttl > 0 && s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	return sess.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
