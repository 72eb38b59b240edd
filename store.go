package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoreOption customizes store construction.
type StoreOption func(*Store)

// WithStoreLogger overrides the logger used for persistence and sink failures.
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreActivitySink sets the ActivitySink used to publish session events.
func WithStoreActivitySink(sink ActivitySink) StoreOption {
	return func(s *Store) {
		s.activitySink = normalizeActivitySink(sink)
	}
}

// WithStoreClock injects a custom clock (useful for tests).
func WithStoreClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Store is the single source of truth for the process-wide Session. It is
// rehydrated from Persistence before the constructor returns, so the first
// Current call ever answered already reflects the persisted record. All
// mutation goes through the Orchestrator, Logout, and AcknowledgeFailure;
// consumers read through Current and Subscribe.
type Store struct {
	// writeMu serializes mutations and listener dispatch so every subscriber
	// observes the same totally ordered sequence of states.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session Session

	persistence  Persistence
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	listeners  map[int]func(Session)
	listenerID int
}

// New creates a Store seeded from the given persistence. A nil persistence
// falls back to an in-memory record, which effectively disables rehydration.
func New(persistence Persistence, opts ...StoreOption) *Store {
	if persistence == nil {
		persistence = NewMemoryPersistence()
	}

	s := &Store{
		persistence:  persistence,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
		session:      Session{Status: StatusAnonymous},
		listeners:    map[int]func(Session){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.rehydrate()

	return s
}

// rehydrate seeds the session from the persisted record. Absent, malformed,
// or unreadable records all degrade to an anonymous session.
func (s *Store) rehydrate() {
	record, err := s.persistence.Load()
	if err != nil {
		s.logger.Warn("session rehydration failed, starting anonymous: %v", err)
		return
	}

	if record == nil {
		return
	}

	if !record.Valid() {
		s.logger.Warn("discarding unrecognized persisted session record")
		if err := s.persistence.Clear(); err != nil {
			s.logger.Warn("failed to clear invalid session record: %v", err)
		}
		return
	}

	identity := record.Identity
	s.session = Session{
		Status:   StatusAuthenticated,
		Identity: &identity,
	}

	s.recordActivity(context.Background(), ActivityEvent{
		EventType:  ActivityEventRehydrated,
		UserID:     identity.ID,
		FromStatus: StatusAnonymous,
		ToStatus:   StatusAuthenticated,
	})
}

// Current returns a snapshot of the session. Synchronous, never blocks on
// provider I/O, safe to call from listeners.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	snapshot := s.session
	if s.session.Identity != nil {
		identity := *s.session.Identity
		snapshot.Identity = &identity
	}
	return snapshot
}

// Subscribe registers a listener invoked on every session change. The
// returned function unsubscribes it. Listeners run synchronously on the
// mutating goroutine and must not mutate the store.
func (s *Store) Subscribe(listener func(Session)) func() {
	if listener == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.listenerID
	s.listenerID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Logout clears the identity and the persisted record. Idempotent: calling
// it while already anonymous is a no-op. A logout issued while a login
// attempt is in flight is ignored; the attempt settles on its own.
func (s *Store) Logout(ctx context.Context) {
	_ = s.mutate(func(next *Session) error {
		from := next.Status

		switch next.Status {
		case StatusAnonymous:
			return errNoop
		case StatusAuthenticating:
			s.logger.Warn("logout ignored while a login attempt is in flight")
			return errNoop
		}

		var userID string
		if next.Identity != nil {
			userID = next.Identity.ID
		}

		next.Status = StatusAnonymous
		next.Identity = nil
		next.LastError = ""

		if err := s.persistence.Clear(); err != nil {
			s.logger.Warn("failed to clear persisted session: %v", err)
		}

		// recorded inside the critical section so the audit trail carries
		// the same total order listeners observe
		s.recordActivity(ctx, ActivityEvent{
			EventType:  ActivityEventLogout,
			UserID:     userID,
			FromStatus: from,
			ToStatus:   StatusAnonymous,
		})

		return nil
	})
}

// AcknowledgeFailure moves a failed session back to anonymous, clearing the
// displayed error. No-op in any other status.
func (s *Store) AcknowledgeFailure() {
	_ = s.mutate(func(next *Session) error {
		if next.Status != StatusFailed {
			return errNoop
		}
		next.Status = StatusAnonymous
		next.LastError = ""
		return nil
	})
}

// beginAttempt is the single-flight gate for login attempts. It atomically
// checks and claims the authenticating status.
func (s *Store) beginAttempt() error {
	return s.mutate(func(next *Session) error {
		switch next.Status {
		case StatusAuthenticating:
			return ErrLoginInProgress
		case StatusAuthenticated:
			return ErrAlreadyAuthenticated
		}

		if !canTransition(next.Status, StatusAuthenticating) {
			return invalidTransition(next.Status, StatusAuthenticating)
		}

		next.Status = StatusAuthenticating
		next.Identity = nil
		next.LastError = ""
		return nil
	})
}

// completeAttempt installs the identity and persists the session. The write
// happens before listeners observe the authenticated state, so a reload at
// any later point finds a consistent record.
func (s *Store) completeAttempt(identity Identity) error {
	return s.mutate(func(next *Session) error {
		if !canTransition(next.Status, StatusAuthenticated) {
			return invalidTransition(next.Status, StatusAuthenticated)
		}

		next.Status = StatusAuthenticated
		next.Identity = &identity
		next.LastError = ""

		if err := s.persistence.Save(PersistedRecord{
			Identity:      identity,
			Authenticated: true,
		}); err != nil {
			s.logger.Warn("failed to persist session record: %v", err)
		}

		return nil
	})
}

// failAttempt records the failure message. The identity stays empty and no
// record is persisted.
func (s *Store) failAttempt(message string) error {
	return s.mutate(func(next *Session) error {
		if !canTransition(next.Status, StatusFailed) {
			return invalidTransition(next.Status, StatusFailed)
		}

		next.Status = StatusFailed
		next.Identity = nil
		next.LastError = message
		return nil
	})
}

// errNoop aborts a mutation without surfacing an error to the caller.
var errNoop = errors.New("session: noop mutation")

func (s *Store) mutate(apply func(*Session) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.snapshotLocked()
	if err := apply(&next); err != nil {
		s.mu.Unlock()
		if err == errNoop {
			return nil
		}
		return err
	}
	s.session = next

	snapshot := s.snapshotLocked()
	listeners := make([]func(Session), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	// Dispatch still holds writeMu: a later mutation cannot overtake this
	// notification, so listeners see a monotonically advancing sequence.
	for _, l := range listeners {
		l(snapshot)
	}

	return nil
}

func (s *Store) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	sink := normalizeActivitySink(s.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("session activity sink error: %v", err)
	}
}

func invalidTransition(from, to Status) error {
	return ErrInvalidTransition.WithMetadata(map[string]any{
		"from": from,
		"to":   to,
	})
}
