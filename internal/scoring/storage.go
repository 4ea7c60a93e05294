package scoring

import "sync"

// ScoreStorage defines the interface for loading and saving score data.
// This allows for mocking the storage layer during tests.
type ScoreStorage interface {
	// LoadAll loads all recorded games.
	LoadAll() ([]GameStats, error)
	// SaveAll replaces the recorded games.
	SaveAll(entries []GameStats) error
}

// MemoryStorage keeps scores for the lifetime of the process only.
type MemoryStorage struct {
	mu      sync.Mutex
	entries []GameStats
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) LoadAll() ([]GameStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]GameStats, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryStorage) SaveAll(entries []GameStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make([]GameStats, len(entries))
	copy(m.entries, entries)
	return nil
}
