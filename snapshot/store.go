package snapshot

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var (
	_ Store = NewMemStore()
	_ Store = RedisStore{}
)

// A Store saves the Snapshot of each Type, keyed by the Type's name.
// Putting a Snapshot replaces any earlier one of the same Type.
type Store interface {
	Get(ctx context.Context, typeName string) (Snapshot, error)
	Put(ctx context.Context, s Snapshot) error
	Types(ctx context.Context) ([]string, error)
}

// A MemStore keeps Snapshots in memory.
//
// Restarts empty a MemStore; it suits tests and single process use.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]Snapshot
}

// NewMemStore constructs an empty *MemStore.
func NewMemStore() *MemStore { return &MemStore{m: make(map[string]Snapshot)} }

// Get retrieves the Snapshot of the Type named typeName.
func (s *MemStore) Get(ctx context.Context, typeName string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.m[typeName]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: snapshot of %s", ErrNotFound, typeName)
	}

	return snap, nil
}

// Put saves snap.
func (s *MemStore) Put(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[snap.Type] = snap
	return nil
}

// Types lists the names of the Types with a Snapshot, sorted.
func (s *MemStore) Types(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out, nil
}
