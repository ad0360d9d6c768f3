package scheduler

import (
	"time"

	"github.com/tickforge/tickforge/internal/core/world"
)

// System is a per-tick game logic processor. Update mutates the game state by
// side effect and must return control promptly: systems execute synchronously
// within a tick, in ascending Priority order (lower runs earlier).
type System interface {
	Name() string
	Priority() int
	Update(dt time.Duration, state *world.State)
}

// Initializer is an optional hook invoked once when a system is registered.
type Initializer interface {
	Init() error
}

// Destroyer is an optional hook invoked once when a system is removed.
type Destroyer interface {
	Destroy()
}

// Common priorities. Systems are free to use any int; these just name the
// usual bands.
const (
	PriorityEarly  = 100
	PriorityNormal = 500
	PriorityLate   = 900
)

// Func adapts a plain function into a System.
type Func struct {
	SystemName     string
	SystemPriority int
	UpdateFn       func(dt time.Duration, state *world.State)
}

func (f Func) Name() string  { return f.SystemName }
func (f Func) Priority() int { return f.SystemPriority }
func (f Func) Update(dt time.Duration, state *world.State) {
	if f.UpdateFn != nil {
		f.UpdateFn(dt, state)
	}
}
