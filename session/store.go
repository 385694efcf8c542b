package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Session bundles one user's viewer and chat state. Sessions live only in
// memory; nothing is shared across them and everything is discarded when the
// session is removed or goes idle.
type Session struct {
	ID         uuid.UUID
	AnalysisID *uuid.UUID
	Viewer     *Viewer
	Chat       *ChatManager
	CreatedAt  time.Time

	lastActive time.Time
}

// Store keeps the live sessions and evicts idle ones on a schedule.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	maxIdle  time.Duration
	janitor  *cron.Cron
}

// NewStore creates a session store evicting sessions idle longer than maxIdle.
func NewStore(maxIdle time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		maxIdle:  maxIdle,
	}
}

// Create registers a new session.
func (s *Store) Create(analysisID *uuid.UUID, viewer *Viewer, chat *ChatManager) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New(),
		AnalysisID: analysisID,
		Viewer:     viewer,
		Chat:       chat,
		CreatedAt:  now,
		lastActive: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a session and marks it active.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastActive = time.Now()
	}
	return sess, ok
}

// Remove drops a session and cancels its timers.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Viewer.Close()
	}
}

// PurgeIdle evicts every session idle longer than maxIdle and returns how
// many were removed. Evicted viewers are closed so no play timer outlives
// its session.
func (s *Store) PurgeIdle() int {
	cutoff := time.Now().Add(-s.maxIdle)

	s.mu.Lock()
	expired := make([]*Session, 0)
	for id, sess := range s.sessions {
		if sess.lastActive.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Viewer.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor schedules periodic idle-session eviction.
func (s *Store) StartJanitor(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if purged := s.PurgeIdle(); purged > 0 {
			log.Printf("Session janitor evicted %d idle session(s)", purged)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.janitor = c
	return nil
}

// Close stops the janitor and tears down every session.
func (s *Store) Close() {
	if s.janitor != nil {
		s.janitor.Stop()
	}

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Viewer.Close()
	}
}
