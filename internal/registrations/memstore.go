package registrations

import (
	"context"
	"sync"

	"github.com/jornageo/registration/internal/models"
)

// MemoryStore is an in-process store for local runs. Contents are lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	regs map[string]models.Registration
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regs: make(map[string]models.Registration)}
}

// Put overwrites any record with the same email.
func (s *MemoryStore) Put(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg.Email] = *reg
	return nil
}

// PutIfAbsent returns ErrDuplicate if the email is taken.
func (s *MemoryStore) PutIfAbsent(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regs[reg.Email]; ok {
		return ErrDuplicate
	}
	s.regs[reg.Email] = *reg
	return nil
}

// Get returns a copy of the record, or nil.
func (s *MemoryStore) Get(_ context.Context, email string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regs[email]
	if !ok {
		return nil, nil
	}
	return &reg, nil
}

// Scan returns all records in map order.
func (s *MemoryStore) Scan(_ context.Context) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Registration, 0, len(s.regs))
	for _, reg := range s.regs {
		list = append(list, reg)
	}
	return list, nil
}
