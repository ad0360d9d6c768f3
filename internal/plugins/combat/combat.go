// Package combat ships the health/attack bundle: a per-tick health
// regeneration system and the "attack" action.
package combat

import (
	"time"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/plugin"
	"github.com/tickforge/tickforge/internal/core/scheduler"
	"github.com/tickforge/tickforge/internal/core/world"
)

const (
	// ActionAttack is the action type registered by this plugin.
	ActionAttack = "attack"
	// SystemHealthRegen is the system name registered by this plugin.
	SystemHealthRegen = "health-regen"

	// EventHit is emitted on every landed attack.
	EventHit = "combat.hit"
	// EventDefeated is emitted when an attack drops a target to zero health.
	EventDefeated = "combat.defeated"

	defaultAttackPower = 10.0
	defaultRegenPerSec = 1.0
)

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin bundles the combat systems and actions.
type Plugin struct {
	Cooldown    time.Duration
	RegenPerSec float64
}

// New returns the combat plugin with default pacing.
func New() *Plugin {
	return &Plugin{Cooldown: 1500 * time.Millisecond, RegenPerSec: defaultRegenPerSec}
}

func (p *Plugin) Name() string           { return "combat" }
func (p *Plugin) Version() string        { return "1.0.0" }
func (p *Plugin) Dependencies() []string { return nil }

func (p *Plugin) Install(ctx *plugin.Context) error {
	if err := ctx.RegisterSystem(scheduler.Func{
		SystemName:     SystemHealthRegen,
		SystemPriority: scheduler.PriorityNormal,
		UpdateFn:       p.regen,
	}); err != nil {
		return err
	}

	ctx.RegisterAction(action.Definition{
		Type: ActionAttack,
		Schema: action.NewSchema(
			action.Field("target_id", action.KindString, true),
		),
		Cooldown: p.Cooldown,
		Handler:  p.handleAttack,
	})
	return nil
}

func (p *Plugin) Uninstall(ctx *plugin.Context) error {
	ctx.UnregisterAction(ActionAttack)
	ctx.RemoveSystem(SystemHealthRegen)
	return nil
}

// regen ticks health toward max_health for every entity carrying both keys.
func (p *Plugin) regen(dt time.Duration, state *world.State) {
	gain := p.RegenPerSec * dt.Seconds()
	for _, ent := range state.Entities {
		health, ok := ent.Props.Float("health")
		if !ok {
			continue
		}
		max, ok := ent.Props.Float("max_health")
		if !ok || health >= max {
			continue
		}
		health += gain
		if health > max {
			health = max
		}
		ent.Props.Set("health", health)
	}
}

func (p *Plugin) handleAttack(ctx action.Context) action.Result {
	targetID, _ := ctx.Payload["target_id"].(string)
	target, ok := ctx.Engine.Entity(targetID)
	if !ok {
		return action.Fail("no such target")
	}
	health, ok := target.Props.Float("health")
	if !ok {
		return action.Fail("target cannot be attacked")
	}

	power := attackPower(ctx.Engine, ctx.Caller)
	health -= power
	target.Props.Set("health", health)

	res := action.OK(map[string]any{
		"target_id": targetID,
		"damage":    power,
		"health":    health,
	}).WithEvent(EventHit, map[string]any{
		"attacker":  ctx.Caller,
		"target_id": targetID,
		"damage":    power,
	})

	if health <= 0 {
		ctx.Engine.Despawn(targetID)
		res = res.WithEvent(EventDefeated, map[string]any{
			"attacker":  ctx.Caller,
			"target_id": targetID,
		})
	}
	return res
}

// attackPower reads the caller's player attack_power, falling back to the
// baseline for callers without a player entity.
func attackPower(eng action.Engine, caller string) float64 {
	ent, ok := eng.EntitiesByKind("player").Find(func(e *world.Entity) bool {
		owner, _ := e.Props.String("owner")
		return owner == caller
	})
	if !ok {
		return defaultAttackPower
	}
	return ent.Props.FloatOr("attack_power", defaultAttackPower)
}
