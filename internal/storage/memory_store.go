package storage

import (
	"sync"
	"time"
)

// memoryStore keeps ids for the lifetime of the process.
type memoryStore struct {
	mu              sync.Mutex
	ttl             time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	expiry          map[string]time.Time
	now             func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		ttl:             opts.TransactionTTL,
		cleanupInterval: opts.CleanupInterval,
		lastCleanup:     time.Now(),
		expiry:          make(map[string]time.Time),
		now:             time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SeenTransaction(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	exp, ok := m.expiry[id]
	if !ok {
		return false, nil
	}
	if !exp.After(now) {
		delete(m.expiry, id)
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) MarkTransaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)
	m.expiry[id] = now.Add(m.ttl)
	return nil
}

// sweepLocked drops expired ids at most once per cleanup interval. m.mu must be held.
func (m *memoryStore) sweepLocked(now time.Time) {
	if now.Sub(m.lastCleanup) < m.cleanupInterval {
		return
	}
	for id, exp := range m.expiry {
		if !exp.After(now) {
			delete(m.expiry, id)
		}
	}
	m.lastCleanup = now
}
