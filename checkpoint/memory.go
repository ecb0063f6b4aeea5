package checkpoint

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps checkpoints in an in-process map. Suitable for tests
// and single-process deployments; checkpoints do not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	checkpoints map[string]*Checkpoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		checkpoints: make(map[string]*Checkpoint),
	}
}

// Load returns a copy of the stored checkpoint, or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy out so callers can't mutate the stored snapshot.
	return cp.Clone(), nil
}

// Save stores a copy of the checkpoint.
func (s *MemoryStore) Save(ctx context.Context, cp *Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cp.Clone()
	stored.UpdatedAt = time.Now()
	s.checkpoints[cp.SessionID] = stored
	return nil
}

// Exists reports whether a checkpoint exists for the session.
func (s *MemoryStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.checkpoints[sessionID]
	return ok, nil
}

// Delete removes a session's checkpoint. Retention is an external
// policy; the engine never calls this.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.checkpoints, sessionID)
	return nil
}

// Len returns the number of stored checkpoints.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.checkpoints)
}
