package registrations

import (
	"context"
	"errors"
	"sync"

	"github.com/jornageo/registration/internal/models"
)

var errUnavailable = errors.New("store unavailable")

// flakyStore wraps MemoryStore and injects failures per operation.
type flakyStore struct {
	*MemoryStore
	getErr  error
	putErr  error
	scanErr error

	mu    sync.Mutex
	gets  int
	puts  int
	scans int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, email string) (*models.Registration, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, email)
}

func (s *flakyStore) Put(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, reg)
}

func (s *flakyStore) PutIfAbsent(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.PutIfAbsent(ctx, reg)
}

func (s *flakyStore) Scan(ctx context.Context) ([]models.Registration, error) {
	s.mu.Lock()
	s.scans++
	s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	return s.MemoryStore.Scan(ctx)
}

// recorder records every call and returns err.
type recorder struct {
	mu    sync.Mutex
	calls []models.Registration
	err   error
}

func (r *recorder) Notify(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, *reg)
	return r.err
}

func (r *recorder) Write(ctx context.Context, reg *models.Registration) error {
	return r.Notify(ctx, reg)
}

// barrierStore reads the store, then holds the first n Get callers until all of them have read,
// forcing concurrent submissions to interleave check-check-write-write. Later calls pass straight through.
type barrierStore struct {
	*MemoryStore

	mu      sync.Mutex
	waiting int
	release chan struct{}
}

func newBarrierStore(n int) *barrierStore {
	return &barrierStore{MemoryStore: NewMemoryStore(), waiting: n, release: make(chan struct{})}
}

func (s *barrierStore) Get(ctx context.Context, email string) (*models.Registration, error) {
	reg, err := s.MemoryStore.Get(ctx, email)

	s.mu.Lock()
	if s.waiting == 0 {
		s.mu.Unlock()
		return reg, err
	}
	s.waiting--
	if s.waiting == 0 {
		close(s.release)
	}
	s.mu.Unlock()

	<-s.release
	return reg, err
}
