package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/cooldown"
	"github.com/tickforge/tickforge/internal/core/events/bus"
	"github.com/tickforge/tickforge/internal/core/observability/log"
	"github.com/tickforge/tickforge/internal/core/plugin"
	"github.com/tickforge/tickforge/internal/core/scheduler"
	"github.com/tickforge/tickforge/internal/core/world"
	"github.com/tickforge/tickforge/pkg/sequence"
)

// Config holds engine configuration.
type Config struct {
	// TickRate is the number of scheduler ticks per second.
	TickRate int `json:"tick_rate" yaml:"tick_rate"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{TickRate: 20}
}

var (
	_ action.Engine = (*Engine)(nil)
	_ plugin.Engine = (*Engine)(nil)
)

// Engine is the facade external collaborators call: lifecycle, entity CRUD,
// action execution, and event subscription. One engine owns one entity store;
// ticks and action dispatches serialize on a single mutex, so systems and
// handlers mutate the store without further locking and are never interleaved
// with each other.
type Engine struct {
	config Config
	logger log.Log

	store      *world.Store
	registry   *action.Registry
	cooldowns  *cooldown.Tracker
	dispatcher *action.Dispatcher
	scheduler  *scheduler.Scheduler
	bus        *bus.Bus
	plugins    *plugin.Host

	// runMu serializes ticks and action dispatches: the single logical
	// thread of execution per engine instance.
	runMu   sync.Mutex
	elapsed time.Duration

	// lifeMu serializes Start and Stop so a Stop racing the first Start
	// never observes a half-initialized loop.
	lifeMu   sync.Mutex
	running  atomic.Bool
	stopChan chan struct{}
	workers  sync.WaitGroup

	ticks        atomic.Uint64
	lastTickNano atomic.Int64
}

// New wires an engine: shared entity store, action pipeline, scheduler,
// event bus, and plugin host. The engine starts stopped; call Start to begin
// ticking.
func New(config Config, logger log.Log) *Engine {
	if config.TickRate <= 0 {
		config.TickRate = DefaultConfig().TickRate
	}
	e := &Engine{
		config:    config,
		logger:    logger,
		store:     world.NewStore(),
		registry:  action.NewRegistry(),
		cooldowns: cooldown.NewTracker(),
		scheduler: scheduler.New(logger),
		bus:       bus.New(),
	}
	e.dispatcher = action.NewDispatcher(e.registry, e.cooldowns, logger)
	e.plugins = plugin.NewHost(e, logger)
	return e
}

// Start begins the periodic tick loop. Starting an already-running engine is
// a no-op.
func (e *Engine) Start() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.running.Load() {
		return
	}
	e.stopChan = make(chan struct{})
	interval := time.Second / time.Duration(e.config.TickRate)

	e.workers.Add(1)
	go e.tickLoop(interval, e.stopChan)
	e.running.Store(true)

	e.logger.Info("engine started",
		log.Int("tick_rate", e.config.TickRate),
		log.Duration("tick_interval", interval),
	)
}

// Stop halts further ticks. Entities, systems, actions, and plugins are all
// retained: stop is pausing, not teardown. Stopping a stopped engine is a
// no-op.
func (e *Engine) Stop() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if !e.running.Load() {
		return
	}
	close(e.stopChan)
	e.workers.Wait()
	e.running.Store(false)
	e.logger.Info("engine stopped", log.Uint64("ticks", e.ticks.Load()))
}

// Running reports whether the tick loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

func (e *Engine) tickLoop(interval time.Duration, stop <-chan struct{}) {
	defer e.workers.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick(interval)
		}
	}
}

// tick advances the world by one fixed step. The state snapshot is taken at
// tick start, so entities added or removed by systems become visible on the
// next tick.
func (e *Engine) tick(dt time.Duration) {
	started := time.Now()

	e.runMu.Lock()
	e.elapsed += dt
	state := e.store.Snapshot(e.elapsed)
	e.scheduler.Tick(dt, state)
	e.runMu.Unlock()

	e.ticks.Add(1)
	e.lastTickNano.Store(int64(time.Since(started)))
}

// ExecuteAction is the single entry point for caller-initiated gameplay
// actions. The dispatch runs to completion, cooldown bookkeeping included,
// before any tick or other action touches the store. Events produced by the
// handler are published to subscribers in production order after dispatch.
func (e *Engine) ExecuteAction(actionType string, payload action.Payload, caller string) action.Result {
	e.runMu.Lock()
	res := e.dispatcher.Execute(actionType, payload, action.Context{
		Caller: caller,
		Engine: e,
	})
	e.runMu.Unlock()

	for _, ev := range res.Events {
		if err := e.bus.Publish(ev); err != nil {
			e.logger.Warn("event delivery error",
				log.String("event", ev.Type),
				log.Error(err),
			)
		}
	}
	return res
}

// On subscribes a handler to an event type; bus.TypeAll matches everything.
func (e *Engine) On(eventType string, handler bus.Handler) bus.Subscription {
	return e.bus.Subscribe(eventType, handler)
}

// Emit publishes a fire-and-forget event, typically from a system.
func (e *Engine) Emit(eventType string, data any) {
	if err := e.bus.Publish(bus.NewEvent(eventType, data)); err != nil {
		e.logger.Warn("event delivery error",
			log.String("event", eventType),
			log.Error(err),
		)
	}
}

// Entity access

// Spawn creates an entity without adding it to the store, so the caller can
// populate Props first. Follow with AddEntity to make it live.
func (e *Engine) Spawn(kind string, position world.Vec3) *world.Entity {
	return e.store.Create(kind, position)
}

// AddEntity makes a spawned entity visible to systems from the next tick.
func (e *Engine) AddEntity(ent *world.Entity) error {
	return e.store.Add(ent)
}

// Despawn removes an entity; absent ids are a no-op.
func (e *Engine) Despawn(id string) {
	e.store.Remove(id)
}

// Entity returns the live entity for id.
func (e *Engine) Entity(id string) (*world.Entity, bool) {
	return e.store.Get(id)
}

// EntitiesByKind returns a fresh snapshot iterator over one kind.
func (e *Engine) EntitiesByKind(kind string) *sequence.Iterator[*world.Entity] {
	return e.store.ByKind(kind)
}

// EntityCount returns the number of live entities.
func (e *Engine) EntityCount() int {
	return e.store.Len()
}

// System and action registration (plugin.Engine surface)

func (e *Engine) RegisterSystem(sys scheduler.System) error {
	return e.scheduler.Register(sys)
}

func (e *Engine) RemoveSystem(name string) {
	e.scheduler.Remove(name)
}

func (e *Engine) SetSystemEnabled(name string, enabled bool) error {
	return e.scheduler.SetEnabled(name, enabled)
}

func (e *Engine) HasSystem(name string) bool {
	return e.scheduler.Has(name)
}

func (e *Engine) RegisterAction(def action.Definition) {
	e.registry.Register(def)
}

func (e *Engine) UnregisterAction(actionType string) {
	e.registry.Unregister(actionType)
}

// ActionTypes returns the registered action type names.
func (e *Engine) ActionTypes() []string {
	return e.registry.Types()
}

// Plugins

// InstallPlugin installs a bundle after verifying its dependencies.
func (e *Engine) InstallPlugin(p plugin.Plugin) error {
	return e.plugins.Install(p)
}

// UninstallPlugin reverses exactly what the named plugin's install added.
func (e *Engine) UninstallPlugin(name string) error {
	return e.plugins.Uninstall(name)
}

// InstalledPlugins returns the names of installed plugins.
func (e *Engine) InstalledPlugins() []string {
	return e.plugins.Installed()
}

// Metrics-lite

// Ticks returns the number of completed ticks since init.
func (e *Engine) Ticks() uint64 {
	return e.ticks.Load()
}

// LastTickDuration returns the wall time of the most recent tick.
func (e *Engine) LastTickDuration() time.Duration {
	return time.Duration(e.lastTickNano.Load())
}
