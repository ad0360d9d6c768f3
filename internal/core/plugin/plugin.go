package plugin

import (
	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/scheduler"
)

// Plugin is an installable bundle of systems and actions. Install and
// Uninstall receive a host-scoped Context; everything a plugin registers must
// go through it so the host can track, roll back, and reverse registrations.
type Plugin interface {
	Name() string
	Version() string
	// Dependencies lists plugin or system names that must already be
	// present before this plugin installs.
	Dependencies() []string
	Install(ctx *Context) error
	Uninstall(ctx *Context) error
}

// Engine is the facade surface the host exposes to plugins.
type Engine interface {
	action.Engine

	RegisterSystem(sys scheduler.System) error
	RemoveSystem(name string)
	SetSystemEnabled(name string, enabled bool) error
	HasSystem(name string) bool

	RegisterAction(def action.Definition)
	UnregisterAction(actionType string)
}

// Context is the engine handle handed to a plugin's Install and Uninstall
// hooks. Registrations made through it are recorded against the owning
// plugin: a failed Install is rolled back by the host, and Uninstall removes
// exactly what Install added even if the plugin's own hook forgets to.
type Context struct {
	Engine  Engine
	tracked *record
}

// record accumulates what a plugin registered.
type record struct {
	systems []string
	actions []string
}

func newContext(eng Engine) *Context {
	return &Context{Engine: eng, tracked: &record{}}
}

// RegisterSystem registers a system and records it against the plugin.
func (c *Context) RegisterSystem(sys scheduler.System) error {
	if err := c.Engine.RegisterSystem(sys); err != nil {
		return err
	}
	c.tracked.systems = append(c.tracked.systems, sys.Name())
	return nil
}

// RemoveSystem removes a system and clears it from the plugin's record.
func (c *Context) RemoveSystem(name string) {
	c.Engine.RemoveSystem(name)
	c.tracked.systems = remove(c.tracked.systems, name)
}

// RegisterAction registers an action and records it against the plugin.
func (c *Context) RegisterAction(def action.Definition) {
	c.Engine.RegisterAction(def)
	c.tracked.actions = append(c.tracked.actions, def.Type)
}

// UnregisterAction removes an action and clears it from the plugin's record.
func (c *Context) UnregisterAction(actionType string) {
	c.Engine.UnregisterAction(actionType)
	c.tracked.actions = remove(c.tracked.actions, actionType)
}

func remove(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i:i], names[i+1:]...)
		}
	}
	return names
}
