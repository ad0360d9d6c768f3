package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickforge/tickforge/internal/core/observability/log"
	"github.com/tickforge/tickforge/internal/core/world"
)

func testState() *world.State {
	return &world.State{Entities: map[string]*world.Entity{}, Elapsed: time.Second}
}

func named(name string, priority int, order *[]string) Func {
	return Func{
		SystemName:     name,
		SystemPriority: priority,
		UpdateFn: func(time.Duration, *world.State) {
			*order = append(*order, name)
		},
	}
}

func TestScheduler_PriorityOrder(t *testing.T) {
	s := New(log.Nop())
	var order []string

	// registered out of priority order on purpose
	require.NoError(t, s.Register(named("late", PriorityLate, &order)))
	require.NoError(t, s.Register(named("early", PriorityEarly, &order)))
	require.NoError(t, s.Register(named("normal", PriorityNormal, &order)))

	s.Tick(50*time.Millisecond, testState())
	assert.Equal(t, []string{"early", "normal", "late"}, order)
	assert.Equal(t, []string{"early", "normal", "late"}, s.Names())
}

func TestScheduler_TiesBreakByRegistrationOrder(t *testing.T) {
	s := New(log.Nop())
	var order []string

	require.NoError(t, s.Register(named("first", PriorityNormal, &order)))
	require.NoError(t, s.Register(named("second", PriorityNormal, &order)))
	require.NoError(t, s.Register(named("third", PriorityNormal, &order)))

	s.Tick(50*time.Millisecond, testState())
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestScheduler_DuplicateNameRejected(t *testing.T) {
	s := New(log.Nop())
	var order []string
	require.NoError(t, s.Register(named("dup", PriorityNormal, &order)))

	err := s.Register(named("dup", PriorityEarly, &order))
	assert.ErrorIs(t, err, ErrSystemExists)
}

func TestScheduler_DisabledSystemsAreSkipped(t *testing.T) {
	s := New(log.Nop())
	var order []string
	require.NoError(t, s.Register(named("a", PriorityEarly, &order)))
	require.NoError(t, s.Register(named("b", PriorityNormal, &order)))

	require.NoError(t, s.SetEnabled("a", false))
	s.Tick(50*time.Millisecond, testState())
	assert.Equal(t, []string{"b"}, order)

	require.NoError(t, s.SetEnabled("a", true))
	s.Tick(50*time.Millisecond, testState())
	assert.Equal(t, []string{"b", "a", "b"}, order)

	assert.ErrorIs(t, s.SetEnabled("missing", true), ErrSystemNotFound)
}

func TestScheduler_FaultIsolation(t *testing.T) {
	s := New(log.Nop())
	var order []string
	ticks := 0

	require.NoError(t, s.Register(Func{
		SystemName:     "flaky",
		SystemPriority: PriorityEarly,
		UpdateFn: func(time.Duration, *world.State) {
			ticks++
			if ticks == 5 {
				panic("boom on tick 5")
			}
			order = append(order, "flaky")
		},
	}))
	require.NoError(t, s.Register(named("steady", PriorityNormal, &order)))

	for range 7 {
		s.Tick(50*time.Millisecond, testState())
	}

	// steady ran on every tick, including the one where flaky panicked
	steady := 0
	for _, name := range order {
		if name == "steady" {
			steady++
		}
	}
	assert.Equal(t, 7, steady)
	assert.Equal(t, 7, ticks, "flaky keeps running on later ticks")
}

type hookSystem struct {
	Func
	inits    int
	destroys int
}

func (h *hookSystem) Init() error { h.inits++; return nil }
func (h *hookSystem) Destroy()    { h.destroys++ }

func TestScheduler_LifecycleHooks(t *testing.T) {
	s := New(log.Nop())
	sys := &hookSystem{Func: Func{SystemName: "hooked", SystemPriority: PriorityNormal}}

	require.NoError(t, s.Register(sys))
	assert.Equal(t, 1, sys.inits)
	assert.True(t, s.Has("hooked"))

	s.Remove("hooked")
	assert.Equal(t, 1, sys.destroys)
	assert.False(t, s.Has("hooked"))

	// removing an absent system is a no-op
	s.Remove("hooked")
	assert.Equal(t, 1, sys.destroys)
}
