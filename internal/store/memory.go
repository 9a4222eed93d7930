package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
)

// MemoryStore is a ProfileStore held in process memory. A single mutex
// serializes writers, which is all a single-process server needs.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	settled  map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: map[string]Profile{},
		settled:  map[string]string{},
	}
}

func (m *MemoryStore) Get(_ context.Context, playerID string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[playerID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return p, nil
}

// Put creates or replaces a profile, bumping its version.
func (m *MemoryStore) Put(_ context.Context, ps economics.PlayerState) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := Profile{PlayerState: ps, Version: m.profiles[ps.ID].Version + 1}
	m.profiles[ps.ID] = p
	return p, nil
}

func (m *MemoryStore) ApplyDelta(_ context.Context, playerID, eventID string, d economics.Deltas) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.settled[eventID]; ok {
		return Profile{}, fmt.Errorf("%w: %s (player %s)", ErrAlreadySettled, eventID, owner)
	}
	p, ok := m.profiles[playerID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	p.PlayerState = apply(p.PlayerState, d)
	p.Version++
	m.profiles[playerID] = p
	m.settled[eventID] = playerID
	return p, nil
}
