// Package history keeps per-session conversation logs in memory.
//
// Each session holds an insertion-ordered, size-bounded message list. History
// lives for the lifetime of the process; there is no expiry and no
// persistence.
package history

import (
	"sync"
	"time"
)

// Message roles. The dashboard and the wire format both use these strings.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// DefaultMaxMessages is the per-session retention bound.
const DefaultMaxMessages = 100

// Message is a single history entry. Immutable once stored.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type session struct {
	mu   sync.Mutex
	msgs []Message
}

// Store maps session identifiers to bounded message logs. All methods are
// safe for concurrent use; operations on distinct sessions do not contend
// beyond the brief map lookup.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	maxSize  int
	now      func() time.Time
}

// NewStore creates a Store keeping at most maxSize messages per session.
// maxSize <= 0 selects DefaultMaxMessages.
func NewStore(maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxMessages
	}
	return &Store{
		sessions: make(map[string]*session),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

func (s *Store) get(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	return sess
}

// lockSession returns the session locked and still registered in the map.
// A concurrent Clear between lookup and lock orphans the old entry; writing
// to it would lose the message, so re-check membership and retry.
func (s *Store) lockSession(sessionID string) *session {
	for {
		sess := s.get(sessionID)
		sess.mu.Lock()
		s.mu.Lock()
		current := s.sessions[sessionID]
		s.mu.Unlock()
		if current == sess {
			return sess
		}
		sess.mu.Unlock()
	}
}

// Append records one message for the session, creating the session on first
// use. When the bound is exceeded the oldest messages are dropped.
func (s *Store) Append(sessionID, role, content string) {
	sess := s.lockSession(sessionID)
	defer sess.mu.Unlock()
	s.appendLocked(sess, role, content)
}

// AppendExchange records the user query and the bot response as one critical
// section, so concurrent requests on the same session cannot interleave their
// message pairs and session order matches arrival order.
func (s *Store) AppendExchange(sessionID, query, response string) {
	sess := s.lockSession(sessionID)
	defer sess.mu.Unlock()
	s.appendLocked(sess, RoleUser, query)
	s.appendLocked(sess, RoleBot, response)
}

func (s *Store) appendLocked(sess *session, role, content string) {
	sess.msgs = append(sess.msgs, Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now().Format(time.RFC3339),
	})
	if excess := len(sess.msgs) - s.maxSize; excess > 0 {
		sess.msgs = append(sess.msgs[:0], sess.msgs[excess:]...)
	}
}

// Get returns a snapshot of the session's messages in arrival order. Unknown
// sessions yield an empty slice. Later store mutations do not affect the
// returned slice.
func (s *Store) Get(sessionID string) []Message {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return []Message{}
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Message, len(sess.msgs))
	copy(out, sess.msgs)
	return out
}

// Clear removes the session entirely. Clearing an unknown session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of messages currently held for the session.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.msgs)
}
