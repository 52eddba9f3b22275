// Package store provides the loan ledger's persistence: in-memory and
// PostgreSQL. Per-user lists keep insertion order; records are addressed by
// position and mutated only through MarkPaid.
package store

import (
	"context"
	"sync"

	"trustledger/internal/loans/models"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
)

// InMemoryStore keeps loan lists in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	lists   map[id.Address][]models.LoanRecord
	nextSeq uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lists: make(map[id.Address][]models.LoanRecord), nextSeq: 1}
}

func (s *InMemoryStore) Append(_ context.Context, user id.Address, rec models.LoanRecord) (models.LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Seq = s.nextSeq
	s.nextSeq++
	s.lists[user] = append(s.lists[user], rec)
	return rec, nil
}

func (s *InMemoryStore) GetByIndex(_ context.Context, user id.Address, index uint64) (models.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[user]
	if index >= uint64(len(list)) {
		return models.LoanRecord{}, sentinel.ErrOutOfRange
	}
	return list[index], nil
}

// MarkPaid evaluates the unpaid precondition under the write lock, so only
// one of several concurrent payments transitions the record.
func (s *InMemoryStore) MarkPaid(_ context.Context, user id.Address, index uint64, paidAt uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[user]
	if index >= uint64(len(list)) {
		return sentinel.ErrOutOfRange
	}
	if list[index].Paid {
		return sentinel.ErrInvalidState
	}
	list[index].Paid = true
	list[index].PaidAt = paidAt
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, user id.Address) ([]models.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[user]
	out := make([]models.LoanRecord, len(list))
	copy(out, list)
	return out, nil
}
