package postgres

import (
	"context"
	"sync"

	"github.com/carbonsense/backend/internal/domain"
)

// MemoryRepository implements domain.ActivityRepository without a database.
// Used when DATABASE_URL is not set and in tests.
type MemoryRepository struct {
	mu   sync.Mutex
	logs map[string][]domain.ActivityEntry
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{logs: make(map[string][]domain.ActivityEntry)}
}

// Append adds an entry and keeps only the most recent MaxActivityEntries
func (r *MemoryRepository) Append(_ context.Context, key string, entry domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.logs[key], entry)
	if len(entries) > domain.MaxActivityEntries {
		entries = entries[len(entries)-domain.MaxActivityEntries:]
	}
	r.logs[key] = append([]domain.ActivityEntry(nil), entries...)
	return nil
}

// Recent returns up to limit entries, oldest first
func (r *MemoryRepository) Recent(_ context.Context, key string, limit int) ([]domain.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.logs[key]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return append([]domain.ActivityEntry(nil), entries...), nil
}

// Health always returns nil in memory mode
func (r *MemoryRepository) Health(_ context.Context) error {
	return nil
}
