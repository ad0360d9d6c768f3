package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tickforge/tickforge/internal/core/observability/log"
	"github.com/tickforge/tickforge/internal/core/world"
)

// Scheduler runs registered systems once per tick in ascending priority
// order, ties broken by registration order so tick output is deterministic.
// A system that panics is caught at the scheduler boundary, logged as a
// non-fatal fault, and skipped for that tick only: one failing system never
// halts the remaining systems or the tick loop.
type Scheduler struct {
	mu     sync.RWMutex
	slots  []*slot
	byName map[string]*slot
	nextID uint64
	logger log.Log
}

// slot tracks one registered system. A system is either enabled or disabled;
// there is no separate running state because updates are synchronous.
type slot struct {
	sys     System
	seq     uint64
	enabled bool
}

// New creates an empty scheduler.
func New(logger log.Log) *Scheduler {
	return &Scheduler{
		byName: make(map[string]*slot),
		logger: logger,
	}
}

// Register adds a system, enabled, at the end of its priority band. The
// system's Init hook, if any, runs before it becomes visible to ticks.
func (s *Scheduler) Register(sys System) error {
	if sys == nil {
		return ErrNilSystem
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := sys.Name()
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrSystemExists, name)
	}
	if init, ok := sys.(Initializer); ok {
		if err := init.Init(); err != nil {
			return fmt.Errorf("init system %q: %w", name, err)
		}
	}

	sl := &slot{sys: sys, seq: s.nextID, enabled: true}
	s.nextID++
	s.byName[name] = sl
	s.slots = append(s.slots, sl)
	sort.SliceStable(s.slots, func(i, j int) bool {
		if s.slots[i].sys.Priority() != s.slots[j].sys.Priority() {
			return s.slots[i].sys.Priority() < s.slots[j].sys.Priority()
		}
		return s.slots[i].seq < s.slots[j].seq
	})
	return nil
}

// Remove detaches a system by name and runs its Destroy hook. Removing an
// absent name is a no-op.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	sl, ok := s.byName[name]
	if ok {
		delete(s.byName, name)
		for i, cur := range s.slots {
			if cur == sl {
				s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if ok {
		if d, isD := sl.sys.(Destroyer); isD {
			d.Destroy()
		}
	}
}

// SetEnabled toggles whether a system participates in ticks.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	sl.enabled = enabled
	return nil
}

// Has reports whether a system with the given name is registered.
func (s *Scheduler) Has(name string) bool {
	s.mu.RLock()
	_, ok := s.byName[name]
	s.mu.RUnlock()
	return ok
}

// Names returns registered system names in execution order.
func (s *Scheduler) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, sl.sys.Name())
	}
	return out
}

// Tick runs every enabled system against the given state snapshot.
func (s *Scheduler) Tick(dt time.Duration, state *world.State) {
	s.mu.RLock()
	run := make([]*slot, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.enabled {
			run = append(run, sl)
		}
	}
	s.mu.RUnlock()

	for _, sl := range run {
		s.runSystem(sl.sys, dt, state)
	}
}

// runSystem isolates one system behind a panic boundary.
func (s *Scheduler) runSystem(sys System, dt time.Duration, state *world.State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("system fault, skipping for this tick",
				log.String("system", sys.Name()),
				log.Any("panic", r),
				log.Duration("elapsed", state.Elapsed),
			)
		}
	}()
	sys.Update(dt, state)
}
