// Package store provides the trust registry's persistence implementations:
// in-memory, PostgreSQL, and a Redis read-through cache that wraps either.
package store

import (
	"context"
	"sync"

	"trustledger/internal/trust/models"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
)

// InMemoryStore keeps the registry in process memory. It favors clarity over
// performance and is the default when PostgreSQL is not configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	owner   id.Address
	entries map[id.Address]models.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.Address]models.Entry)}
}

func (s *InMemoryStore) Owner(_ context.Context) (id.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner.IsZero() {
		return id.Address{}, sentinel.ErrNotFound
	}
	return s.owner, nil
}

func (s *InMemoryStore) SetOwner(_ context.Context, owner id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	return nil
}

// EnsureOwner seeds the owner only when none is set yet, so restarts never
// clobber an ownership transfer.
func (s *InMemoryStore) EnsureOwner(_ context.Context, owner id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner.IsZero() {
		s.owner = owner
	}
	return nil
}

func (s *InMemoryStore) IsTrusted(_ context.Context, bank id.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[bank].Trusted, nil
}

func (s *InMemoryStore) SetTrust(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Bank] = entry
	return nil
}
