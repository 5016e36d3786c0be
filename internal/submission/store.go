// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// DefaultSessionTTL bounds how long an unscored session stays resolvable.
const DefaultSessionTTL = 2 * time.Hour

const sweepInterval = 5 * time.Minute

// Store provides operations to save and retrieve practice sessions.
//
// Sessions are short-lived records that live from task generation until the
// learner's submission has been scored. A scored session stays readable so
// the client can re-fetch its report; only the TTL sweep removes rows.
type Store interface {
	// Save stores a session with a generated sessionId (UUID).
	// Returns the generated sessionId.
	Save(ctx context.Context, session *Session) (string, error)

	// Get retrieves a session by sessionId regardless of its current status.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Claim atomically transitions a session from "pending" to "claimed".
	// Only one concurrent scoring request can win the claim; subsequent
	// callers get an error because the session is no longer claimable.
	Claim(ctx context.Context, sessionID string) (*Session, error)

	// Complete marks a session as completed and attaches its score. The
	// session remains readable until the TTL sweep removes it.
	Complete(ctx context.Context, sessionID string, score any) error

	// Delete removes a session. Intended for cleanup, not active flows.
	Delete(ctx context.Context, sessionID string) error

	// Close stops the background TTL sweep.
	Close()
}

type memoryStore struct {
	logger commons.Logger
	now    func() time.Time
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stopOnce sync.Once
	stopCh   chan struct{}
}

// StoreOption adjusts store construction.
type StoreOption func(*memoryStore)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *memoryStore) { s.now = now }
}

// WithTTL overrides how long sessions stay resolvable.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *memoryStore) { s.ttl = ttl }
}

// NewStore creates an in-memory session store with a background TTL sweep.
func NewStore(logger commons.Logger, opts ...StoreOption) Store {
	s := &memoryStore{
		logger:   logger,
		now:      time.Now,
		ttl:      DefaultSessionTTL,
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.sweepLoop()
	return s
}

func (s *memoryStore) Save(ctx context.Context, session *Session) (string, error) {
	if session == nil {
		return "", fmt.Errorf("nil session")
	}
	if session.SessionID == "" {
		session.SessionID = uuid.New().String()
	}
	if session.Status == "" {
		session.Status = StatusPending
	}
	now := s.now()
	session.CreatedAt = now
	session.UpdatedAt = now

	s.mu.Lock()
	s.sessions[session.SessionID] = session
	s.mu.Unlock()

	s.logger.Infof("saved session: sessionId=%s, section=%s, task=%s",
		session.SessionID, session.Section, session.TaskID)
	return session.SessionID, nil
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	copied := *session
	return &copied, nil
}

func (s *memoryStore) Claim(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if session.Status != StatusPending {
		return nil, fmt.Errorf("session %s not found or already claimed", sessionID)
	}
	session.Status = StatusClaimed
	session.UpdatedAt = s.now()

	s.logger.Debugf("claimed session: sessionId=%s, section=%s", sessionID, session.Section)
	copied := *session
	return &copied, nil
}

func (s *memoryStore) Complete(ctx context.Context, sessionID string, score any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	session.Status = StatusCompleted
	session.Score = score
	session.UpdatedAt = s.now()

	s.logger.Debugf("completed session: sessionId=%s", sessionID)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	s.logger.Debugf("deleted session: sessionId=%s", sessionID)
	return nil
}

func (s *memoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *memoryStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes sessions older than the TTL, whatever their status.
func (s *memoryStore) sweep() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Infof("session sweep removed %d expired sessions", removed)
	}
}
