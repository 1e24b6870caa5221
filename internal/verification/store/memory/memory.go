package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"idverify/internal/verification/models"
	id "idverify/pkg/domain"
	"idverify/pkg/platform/sentinel"
)

// InMemory is an append-only ResultStore for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.VerificationID]models.Record
	order   []id.VerificationID
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.VerificationID]models.Record)}
}

// Append stores a copy of record. Appending an existing ID is a conflict.
func (s *InMemory) Append(_ context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("verification record is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return fmt.Errorf("append verification %s: %w", record.ID, sentinel.ErrConflict)
	}
	s.records[record.ID] = *record
	s.order = append(s.order, record.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, verificationID id.VerificationID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[verificationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

// ListByCaller returns up to limit records for callerID, newest first.
func (s *InMemory) ListByCaller(_ context.Context, callerID id.UserID, limit int) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Record, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.records[s.order[i]]
		if r.CallerID != callerID {
			continue
		}
		out = append(out, &r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
