// Package store provides the attestation ledger's persistence: in-memory and
// PostgreSQL. Per-user lists are append-only and keep insertion order.
package store

import (
	"context"
	"sync"

	"trustledger/internal/attestation/models"
	id "trustledger/pkg/domain"
)

// InMemoryStore keeps attestation lists in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	lists map[id.Address][]models.Attestation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lists: make(map[id.Address][]models.Attestation)}
}

func (s *InMemoryStore) Append(_ context.Context, user id.Address, att models.Attestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[user] = append(s.lists[user], att)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, user id.Address) ([]models.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[user]
	// Copy so callers can never mutate ledger state through the slice.
	out := make([]models.Attestation, len(list))
	copy(out, list)
	return out, nil
}
