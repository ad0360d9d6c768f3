package world

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tickforge/tickforge/pkg/sequence"
)

// Store owns all live entities, keyed by id.
//
// Creation is a two-step protocol: Create allocates an entity that is not yet
// visible to systems, so the caller can populate Props first; Add makes it
// live. Reads hand out snapshot iterators, never live views, so systems can
// add and remove entities mid-tick without invalidating anyone's iteration.
type Store struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	return &Store{
		entities: make(map[string]*Entity),
	}
}

// Create allocates a fresh entity with a unique id and a default transform
// (unit scale). The entity is not visible to systems until Add is called.
func (s *Store) Create(kind string, position Vec3) *Entity {
	return &Entity{
		ID:   uuid.NewString(),
		Kind: kind,
		Transform: Transform{
			Position: position,
			Scale:    Vec3{X: 1, Y: 1, Z: 1},
		},
		Props: make(Props),
	}
}

// Add makes an entity live. Returns ErrDuplicateID if the id already exists.
func (s *Store) Add(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.entities[e.ID] = e
	return nil
}

// Remove detaches the entity with the given id. Removing an absent id is a
// no-op; snapshots already taken for the current tick are unaffected.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.entities, id)
	s.mu.Unlock()
}

// Get returns the entity for id. Absence is a normal outcome, not an error.
func (s *Store) Get(id string) (*Entity, bool) {
	s.mu.RLock()
	e, ok := s.entities[id]
	s.mu.RUnlock()
	return e, ok
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// All returns a restartable snapshot iterator over every live entity.
func (s *Store) All() *sequence.Iterator[*Entity] {
	return sequence.From(s.collect(""))
}

// ByKind returns a restartable snapshot iterator over entities of one kind.
// Each call takes a fresh snapshot; it is never a live view.
func (s *Store) ByKind(kind string) *sequence.Iterator[*Entity] {
	return sequence.From(s.collect(kind))
}

// Snapshot captures the per-tick state: the current entity set plus total
// elapsed time. Entities added or removed after the snapshot is taken are
// visible from the next tick onward.
func (s *Store) Snapshot(elapsed time.Duration) *State {
	s.mu.RLock()
	entities := make(map[string]*Entity, len(s.entities))
	for id, e := range s.entities {
		entities[id] = e
	}
	s.mu.RUnlock()
	return &State{
		Entities: entities,
		Elapsed:  elapsed,
		At:       time.Now(),
	}
}

func (s *Store) collect(kind string) []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if kind == "" || e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
