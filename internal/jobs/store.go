package jobs

import (
	"errors"
	"sync"

	"vidfetch-server/internal/models"
)

// ErrNotFound covers both never-issued and already-reaped ids; the store
// keeps no tombstones, so callers cannot tell the two apart.
var ErrNotFound = errors.New("job not found")

// Store is the process-wide source of truth for in-flight and finished
// jobs. It is injectable so tests run against the same contract the
// server does.
type Store interface {
	Create(job *models.Job)
	Get(id string) (models.Job, error)
	Update(id string, mutate func(*models.Job)) error
	Delete(id string) error
	Range(fn func(job models.Job) bool)
}

// MemoryStore backs the Store with a mutex-guarded map. All state is
// volatile: a restart forgets every job.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*models.Job)}
}

func (s *MemoryStore) Create(job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a snapshot copy so pollers never observe a half-applied
// update.
func (s *MemoryStore) Get(id string) (models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrNotFound
	}
	return *job, nil
}

func (s *MemoryStore) Update(id string, mutate func(*models.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	mutate(job)
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

// Range visits a snapshot of all jobs, so callbacks may freely call back
// into the store.
func (s *MemoryStore) Range(fn func(job models.Job) bool) {
	s.mu.RLock()
	snapshot := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		snapshot = append(snapshot, *job)
	}
	s.mu.RUnlock()

	for _, job := range snapshot {
		if !fn(job) {
			return
		}
	}
}
