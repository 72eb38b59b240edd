package session

import "sync"

// PersistedRecord is the durable on-device serialization of a session. Only
// the identity and the authenticated flag survive a reload; status and last
// error are transient by design.
type PersistedRecord struct {
	Identity      Identity `json:"identity"`
	Authenticated bool     `json:"authenticated"`
}

// Valid reports whether the record can seed an authenticated session. A
// record that fails this check is treated the same as no record at all.
func (r PersistedRecord) Valid() bool {
	return r.Authenticated && r.Identity.ID != "" && r.Identity.Role.IsValid()
}

// Persistence stores the last known identity between runs. Implementations
// are pure encode/decode: the Store is the only caller and swallows every
// error they return, so a broken backend degrades to "no session", never to
// a crash. Writes must be visible to the next Load in the same process.
type Persistence interface {
	Load() (*PersistedRecord, error)
	Save(record PersistedRecord) error
	Clear() error
}

// MemoryPersistence keeps the record in process memory. Useful for tests and
// demo flows where durability across restarts does not matter.
type MemoryPersistence struct {
	mu     sync.Mutex
	record *PersistedRecord
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// Load implements Persistence.
func (m *MemoryPersistence) Load() (*PersistedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record == nil {
		return nil, nil
	}

	record := *m.record
	return &record, nil
}

// Save implements Persistence.
func (m *MemoryPersistence) Save(record PersistedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = &record
	return nil
}

// Clear implements Persistence.
func (m *MemoryPersistence) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = nil
	return nil
}

var _ Persistence = (*MemoryPersistence)(nil)
