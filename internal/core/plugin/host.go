package plugin

import (
	"fmt"
	"sync"

	"github.com/tickforge/tickforge/internal/core/observability/log"
)

// Host installs and uninstalls plugins against an engine. Installation is
// all-or-nothing from the host's point of view: if Install errors, every
// registration the plugin made through its Context is rolled back, so no
// partial registration is left behind.
type Host struct {
	mu        sync.Mutex
	eng       Engine
	installed map[string]*installed
	logger    log.Log
}

type installed struct {
	plugin Plugin
	ctx    *Context
}

// NewHost creates a host bound to an engine.
func NewHost(eng Engine, logger log.Log) *Host {
	return &Host{
		eng:       eng,
		installed: make(map[string]*installed),
		logger:    logger,
	}
}

// Install checks dependencies, runs the plugin's Install hook, and records
// the plugin as installed only if the hook completes without error.
// Dependencies are satisfied by an installed plugin or a registered system
// of the same name.
func (h *Host) Install(p Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	name := p.Name()
	if _, exists := h.installed[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyInstalled, name)
	}
	for _, dep := range p.Dependencies() {
		if _, ok := h.installed[dep]; ok {
			continue
		}
		if h.eng.HasSystem(dep) {
			continue
		}
		return fmt.Errorf("%w: %q requires %q", ErrMissingDependency, name, dep)
	}

	ctx := newContext(h.eng)
	if err := p.Install(ctx); err != nil {
		h.rollback(ctx)
		return fmt.Errorf("install plugin %q: %w", name, err)
	}

	h.installed[name] = &installed{plugin: p, ctx: ctx}
	h.logger.Info("plugin installed",
		log.String("plugin", name),
		log.String("version", p.Version()),
		log.Int("systems", len(ctx.tracked.systems)),
		log.Int("actions", len(ctx.tracked.actions)),
	)
	return nil
}

// Uninstall runs the plugin's Uninstall hook, then removes whatever tracked
// registrations remain and drops the installed record. Cleanup is
// best-effort: a failing hook is logged but never leaves the plugin
// permanently un-removable.
func (h *Host) Uninstall(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, ok := h.installed[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotInstalled, name)
	}

	if err := inst.plugin.Uninstall(inst.ctx); err != nil {
		h.logger.Warn("plugin uninstall hook failed, removing registrations anyway",
			log.String("plugin", name),
			log.Error(err),
		)
	}
	h.rollback(inst.ctx)
	delete(h.installed, name)
	h.logger.Info("plugin uninstalled", log.String("plugin", name))
	return nil
}

// Has reports whether a plugin is currently installed.
func (h *Host) Has(name string) bool {
	h.mu.Lock()
	_, ok := h.installed[name]
	h.mu.Unlock()
	return ok
}

// Installed returns the names of installed plugins.
func (h *Host) Installed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.installed))
	for name := range h.installed {
		out = append(out, name)
	}
	return out
}

// rollback removes every registration still recorded on the context.
func (h *Host) rollback(ctx *Context) {
	for _, sys := range ctx.tracked.systems {
		h.eng.RemoveSystem(sys)
	}
	for _, act := range ctx.tracked.actions {
		h.eng.UnregisterAction(act)
	}
	ctx.tracked.systems = nil
	ctx.tracked.actions = nil
}
