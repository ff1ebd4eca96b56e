// Package session keeps one lookup orchestrator per client (browser tab).
package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/effects"
	"github.com/i474232898/weather-lookup/internal/widget"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
)

// Session is a client's orchestrator plus the effects renderer mounted for it.
type Session struct {
	ID       string
	Widget   *widget.Orchestrator
	Renderer *effects.Renderer

	lastSeen time.Time
}

// View renders the session's current state.
func (s *Session) View() widget.View {
	return s.Widget.Snapshot().View(s.Renderer)
}

// Store is a concurrency-safe in-memory registry of sessions.
type Store struct {
	mu sync.RWMutex

	data map[string]*Session

	// retention configuration
	maxSessions int           // evict least recently used beyond this (0 = unlimited)
	maxAge      time.Duration // idle time after which a session is swept (0 = never)

	clock    func() time.Time
	onChange func(n int)
}

// NewStore creates a new Store with optional limits.
// If maxSessions is <= 0, it is treated as unlimited.
func NewStore(maxSessions int, maxAge time.Duration) *Store {
	return &Store{
		data:        make(map[string]*Session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		clock:       time.Now,
	}
}

// OnChange registers a callback invoked with the session count after every change.
func (s *Store) OnChange(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Create registers a new session for w and enforces the count limit.
func (s *Store) Create(w *widget.Orchestrator) *Session {
	id := uuid.New()
	sess := &Session{
		ID:       id.String(),
		Widget:   w,
		Renderer: effects.NewRenderer(seedFrom(id)),
	}

	s.mu.Lock()
	sess.lastSeen = s.clock()
	s.data[sess.ID] = sess

	var evicted []*Session
	if s.maxSessions > 0 && len(s.data) > s.maxSessions {
		evicted = s.evictOldestLocked(len(s.data)-s.maxSessions, sess.ID)
	}
	n, notify := len(s.data), s.onChange
	s.mu.Unlock()

	closeAll(evicted)
	if notify != nil {
		notify(n)
	}
	return sess
}

// Get returns the session for id and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastSeen = s.clock()
	return sess, nil
}

// Delete closes and removes the session for id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.data[id]
	if ok {
		delete(s.data, id)
	}
	n, notify := len(s.data), s.onChange
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	sess.Widget.Close()
	if notify != nil {
		notify(n)
	}
	return nil
}

// Sweep closes sessions idle for longer than maxAge and returns how many were removed.
func (s *Store) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	cutoff := s.clock().Add(-s.maxAge)
	var expired []*Session
	for id, sess := range s.data {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.data, id)
		}
	}
	n, notify := len(s.data), s.onChange
	s.mu.Unlock()

	closeAll(expired)
	if len(expired) > 0 && notify != nil {
		notify(n)
	}
	return len(expired)
}

// Each calls fn for every live session. fn must not call back into the store.
func (s *Store) Each(fn func(*Session)) {
	s.mu.RLock()
	list := make([]*Session, 0, len(s.data))
	for _, sess := range s.data {
		list = append(list, sess)
	}
	s.mu.RUnlock()

	for _, sess := range list {
		fn(sess)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close closes every session and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.data))
	for id, sess := range s.data {
		all = append(all, sess)
		delete(s.data, id)
	}
	s.mu.Unlock()

	closeAll(all)
}

func (s *Store) evictOldestLocked(count int, keep string) []*Session {
	all := make([]*Session, 0, len(s.data))
	for id, sess := range s.data {
		if id != keep {
			all = append(all, sess)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].lastSeen.Before(all[j].lastSeen) })

	evicted := all[:count]
	for _, sess := range evicted {
		delete(s.data, sess.ID)
	}
	return evicted
}

func closeAll(list []*Session) {
	for _, sess := range list {
		sess.Widget.Close()
	}
}

func seedFrom(id uuid.UUID) uint64 {
	var seed uint64
	for _, b := range id[:8] {
		seed = seed<<8 | uint64(b)
	}
	return seed
}
