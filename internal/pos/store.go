package pos

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/pkg/errors"
)

// SessionStore defines the interface for session storage operations.
// All cart access goes through With, which serializes mutations per store so
// no two operations on a cart ever race.
type SessionStore interface {
	// Create opens a new session with an empty cart in the given currency
	Create(unit currency.Unit) uuid.UUID

	// With runs fn against the session under the store lock and refreshes
	// the session's last-used time. Returns ErrNotFound for unknown ids.
	With(id uuid.UUID, fn func(s *Session) error) error

	// Delete closes a session, discarding its cart. No-op if absent.
	Delete(id uuid.UUID)

	// BeginCheckout marks the session's checkout as in flight. Returns
	// ErrCheckoutInProgress if a submission is already pending.
	BeginCheckout(id uuid.UUID) error

	// EndCheckout releases the checkout-pending flag
	EndCheckout(id uuid.UUID)

	// Sweep removes sessions idle for longer than ttl and returns how many
	// were removed. Sessions with a pending checkout are kept.
	Sweep(ttl time.Duration) int
}

// MemoryStore implements SessionStore with in-memory storage
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (s *MemoryStore) Create(unit currency.Unit) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	session := &Session{
		ID:         uuid.New(),
		Cart:       domain.NewCart(unit),
		CreatedAt:  now,
		LastUsedAt: now,
	}
	s.sessions[session.ID] = session
	return session.ID
}

func (s *MemoryStore) With(id uuid.UUID, fn func(session *Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return &errors.ErrNotFound{Resource: "session", ID: id.String()}
	}
	session.LastUsedAt = time.Now()
	return fn(session)
}

func (s *MemoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *MemoryStore) BeginCheckout(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return &errors.ErrNotFound{Resource: "session", ID: id.String()}
	}
	if session.CheckoutPending {
		return &errors.ErrCheckoutInProgress{SessionID: id.String()}
	}
	session.CheckoutPending = true
	session.LastUsedAt = time.Now()
	return nil
}

func (s *MemoryStore) EndCheckout(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[id]; exists {
		session.CheckoutPending = false
	}
}

func (s *MemoryStore) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, session := range s.sessions {
		if session.CheckoutPending {
			continue
		}
		if session.LastUsedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
