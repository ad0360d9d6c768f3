package world

import (
	"time"

	"github.com/tickforge/tickforge/pkg/sequence"
)

// State is the game-state view handed to every system on every tick: the
// entity set as of the start of the tick plus monotonically increasing total
// elapsed time. The map is a snapshot of store membership, but the entities
// themselves are live and may be mutated by systems.
type State struct {
	Entities map[string]*Entity
	Elapsed  time.Duration
	At       time.Time
}

// Get returns the snapshot entity for id.
func (st *State) Get(id string) (*Entity, bool) {
	e, ok := st.Entities[id]
	return e, ok
}

// ByKind returns a restartable iterator over snapshot entities of one kind.
func (st *State) ByKind(kind string) *sequence.Iterator[*Entity] {
	return sequence.FromMap(st.Entities).Filter(func(e *Entity) bool {
		return e.Kind == kind
	})
}

// All returns a restartable iterator over every snapshot entity.
func (st *State) All() *sequence.Iterator[*Entity] {
	return sequence.FromMap(st.Entities)
}
