// Package movement ships the baseline locomotion bundle: the "move" action
// that walks a caller's player entity around the world grid.
package movement

import (
	"time"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/plugin"
	"github.com/tickforge/tickforge/internal/core/world"
)

const (
	// ActionMove is the action type registered by this plugin.
	ActionMove = "move"
	// EventMoved is emitted after every successful move.
	EventMoved = "entity.moved"

	playerKind = "player"
)

var directions = map[string]world.Vec3{
	"up":    {Z: -1},
	"down":  {Z: 1},
	"left":  {X: -1},
	"right": {X: 1},
}

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin bundles the move action. Cooldown and step size are fixed at
// construction so a server can tune pacing without touching the handler.
type Plugin struct {
	Cooldown time.Duration
	Step     float64
}

// New returns the movement plugin with default pacing: one step per second.
func New() *Plugin {
	return &Plugin{Cooldown: time.Second, Step: 1}
}

func (p *Plugin) Name() string           { return "movement" }
func (p *Plugin) Version() string        { return "1.0.0" }
func (p *Plugin) Dependencies() []string { return nil }

func (p *Plugin) Install(ctx *plugin.Context) error {
	ctx.RegisterAction(action.Definition{
		Type: ActionMove,
		Schema: action.NewSchema(
			action.Field("direction", action.KindString, true).
				WithEnum("up", "down", "left", "right"),
		),
		Cooldown: p.Cooldown,
		Handler:  p.handleMove,
	})
	return nil
}

func (p *Plugin) Uninstall(ctx *plugin.Context) error {
	ctx.UnregisterAction(ActionMove)
	return nil
}

func (p *Plugin) handleMove(ctx action.Context) action.Result {
	dir, _ := ctx.Payload["direction"].(string)
	delta := directions[dir].Scale(p.Step)

	ent, ok := playerOf(ctx.Engine, ctx.Caller)
	if !ok {
		ent = ctx.Engine.Spawn(playerKind, world.Vec3{})
		ent.Props.Set("owner", ctx.Caller)
		if err := ctx.Engine.AddEntity(ent); err != nil {
			return action.Fail("could not place player")
		}
	}

	ent.Transform.Position = ent.Transform.Position.Add(delta)
	pos := ent.Transform.Position

	res := action.OK(map[string]any{
		"entity_id": ent.ID,
		"position":  pos,
	})
	return res.WithEvent(EventMoved, map[string]any{
		"entity_id": ent.ID,
		"direction": dir,
		"position":  pos,
	})
}

func playerOf(eng action.Engine, caller string) (*world.Entity, bool) {
	return eng.EntitiesByKind(playerKind).Find(func(e *world.Entity) bool {
		owner, _ := e.Props.String("owner")
		return owner == caller
	})
}
