// Package runtime handles session bookkeeping and event propagation.
// It orchestrates delivery without containing domain rules.
package runtime

import (
	"sync"

	"d-hub/contract"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Session is one live client connection: an opaque send-handle plus the
// set of server ids this connection has authenticated against. Sessions
// are owned exclusively by a SessionSet; the dispatcher may flip auth
// flags but never membership.
type Session struct {
	ID   string
	Addr string

	sink contract.EventSink

	mu         sync.Mutex
	authorized map[string]struct{}
}

// NewSession wraps a send-handle into a tracked session.
func NewSession(sink contract.EventSink, addr string) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Addr:       addr,
		sink:       sink,
		authorized: make(map[string]struct{}),
	}
}

// Deliver hands a serialized event to the session's sink.
func (s *Session) Deliver(payload []byte) error {
	return s.sink.Deliver(payload)
}

// Close closes the underlying sink. Idempotency is the sink's business.
func (s *Session) Close() {
	s.sink.Close()
}

// Authorize marks this session as authenticated for one server.
// Authentication is server-scoped: a session can hold flags for several
// servers at once.
func (s *Session) Authorize(discordServerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[discordServerID] = struct{}{}
}

// Authorized reports whether the session authenticated for a server.
func (s *Session) Authorized(discordServerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.authorized[discordServerID]
	return ok
}

// SessionSet tracks every open session. Pure bookkeeping with its own
// lock, independent of the roster's.
type SessionSet struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

func NewSessionSet() *SessionSet {
	return &SessionSet{sessions: make(map[*Session]struct{})}
}

func (set *SessionSet) Add(s *Session) {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.sessions[s] = struct{}{}
}

// Remove detaches a session and reports whether it was present, so a
// broadcast eviction and a normal disconnect cannot double-close it.
func (set *SessionSet) Remove(s *Session) bool {
	set.mu.Lock()
	defer set.mu.Unlock()
	if _, ok := set.sessions[s]; !ok {
		return false
	}
	delete(set.sessions, s)
	return true
}

// Snapshot returns a point-in-time copy of the set so callers can iterate
// and write without holding the lock across slow per-session sends.
func (set *SessionSet) Snapshot() []*Session {
	set.mu.RLock()
	defer set.mu.RUnlock()
	return lo.Keys(set.sessions)
}

func (set *SessionSet) Len() int {
	set.mu.RLock()
	defer set.mu.RUnlock()
	return len(set.sessions)
}
