package resolutions

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

type inMemoryRepository struct {
	mu           sync.RWMutex
	records      map[string]memoryEntry
	ttl          time.Duration
	timeProvider TimeProvider
}

// InMemoryConfig holds configuration for the in-memory repository
type InMemoryConfig struct {
	TTL          time.Duration // Optional, zero keeps records forever
	TimeProvider TimeProvider  // Optional, defaults to the system clock
}

// NewInMemoryRepository creates a new in-memory resolution repository
func NewInMemoryRepository(cfg *InMemoryConfig) Repository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = SystemTime()
	}

	return &inMemoryRepository{
		records:      make(map[string]memoryEntry),
		ttl:          cfg.TTL,
		timeProvider: tp,
	}
}

// Get retrieves a record by key. An expired record is dropped.
func (r *inMemoryRepository) Get(ctx context.Context, key string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.records[key]
	if exists && expired(entry, r.timeProvider.Now()) {
		delete(r.records, key)
		exists = false
	}
	if !exists {
		return nil, errors.NotFoundf("resolution not found: %s", key).WithMeta("key", key)
	}

	record := entry.record
	return &record, nil
}

// Put stores a record
func (r *inMemoryRepository) Put(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}
	if record.Key == "" {
		return errors.InvalidArgument("record key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeProvider.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	for key, existing := range r.records {
		if expired(existing, now) {
			delete(r.records, key)
		}
	}

	entry := memoryEntry{record: *record}
	if r.ttl > 0 {
		entry.expiresAt = now.Add(r.ttl)
	}
	r.records[record.Key] = entry

	return nil
}

// Delete removes a record
func (r *inMemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[key]; !exists {
		return errors.NotFoundf("resolution not found: %s", key).WithMeta("key", key)
	}
	delete(r.records, key)

	return nil
}

func expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}
