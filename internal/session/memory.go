package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a memory store whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Put saves session state
func (s *MemoryStore) Put(ctx context.Context, id string, state *State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(state)
	if err != nil {
		return err
	}

	s.cache.Set(id, data, s.ttl)
	return nil
}

// Get loads session state
func (s *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	return decode(value.([]byte))
}

// Delete removes session state
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

// Ping always succeeds for the memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of unexpired sessions
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
