// Package session keeps signed-in web sessions in process memory.
//
// A session binds the browser cookie to the account email and carries the
// per-browser selections the index relies on: the current story and a unit
// queued as a template for the next add-unit form. Sessions are lost on
// restart.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/talevortex/internal/platform/id"
)

// Session holds the state of one signed-in browser.
type Session struct {
	ID             string
	Email          string
	DisplayName    string
	StoryID        string
	TemplateUnitID string
	ExpiresAt      time.Time
}

// Store is a thread-safe in-memory session store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
	newID    func() (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore creates an empty store whose sessions live for ttl.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		newID:    id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime of new sessions.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create starts a session for email.
func (s *Store) Create(email, displayName string) (Session, error) {
	sessionID, err := s.newID()
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:          sessionID,
		Email:       strings.TrimSpace(email),
		DisplayName: displayName,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session for id unless it is missing or expired.
func (s *Store) Get(sessionID string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.Delete(sessionID)
		return Session{}, false
	}
	return sess, true
}

// Update applies fn to a live session and stores the result.
func (s *Store) Update(sessionID string, fn func(*Session)) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, sessionID)
		return Session{}, false
	}
	fn(&sess)
	sess.ID = sessionID
	s.sessions[sessionID] = sess
	return sess, true
}

// Delete removes a session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// ForgetStory clears storyID from every session that selected it.
func (s *Store) ForgetStory(storyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, sess := range s.sessions {
		if sess.StoryID == storyID {
			sess.StoryID = ""
			s.sessions[key] = sess
		}
	}
}

type contextKey struct{}

// WithSession attaches sess to ctx.
func WithSession(ctx context.Context, sess Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session attached by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}
