// Package farming ships the crop bundle: a growth system plus "plant" and
// "harvest" actions.
package farming

import (
	"time"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/plugin"
	"github.com/tickforge/tickforge/internal/core/scheduler"
	"github.com/tickforge/tickforge/internal/core/world"
)

const (
	// ActionPlant and ActionHarvest are the action types registered here.
	ActionPlant   = "plant"
	ActionHarvest = "harvest"
	// SystemCropGrowth is the system name registered by this plugin.
	SystemCropGrowth = "crop-growth"

	EventPlanted   = "crop.planted"
	EventMatured   = "crop.matured"
	EventHarvested = "crop.harvested"

	cropKind = "crop"
)

// growSeconds per crop type; yield on harvest.
var crops = map[string]struct {
	growSeconds float64
	yield       float64
}{
	"wheat":   {growSeconds: 30, yield: 3},
	"corn":    {growSeconds: 45, yield: 5},
	"pumpkin": {growSeconds: 90, yield: 12},
}

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin bundles the farming systems and actions. The growth system emits
// crop.matured through the engine handle captured at install time.
type Plugin struct {
	PlantCooldown time.Duration
}

// New returns the farming plugin with default pacing.
func New() *Plugin {
	return &Plugin{PlantCooldown: 500 * time.Millisecond}
}

func (p *Plugin) Name() string           { return "farming" }
func (p *Plugin) Version() string        { return "1.0.0" }
func (p *Plugin) Dependencies() []string { return nil }

func (p *Plugin) Install(ctx *plugin.Context) error {
	eng := ctx.Engine
	if err := ctx.RegisterSystem(scheduler.Func{
		SystemName:     SystemCropGrowth,
		SystemPriority: scheduler.PriorityNormal,
		UpdateFn: func(dt time.Duration, state *world.State) {
			growCrops(eng, dt, state)
		},
	}); err != nil {
		return err
	}

	ctx.RegisterAction(action.Definition{
		Type: ActionPlant,
		Schema: action.NewSchema(
			action.Field("crop", action.KindString, true).
				WithEnum("wheat", "corn", "pumpkin"),
			action.Field("x", action.KindNumber, true),
			action.Field("z", action.KindNumber, true),
		),
		Cooldown: p.PlantCooldown,
		Handler:  handlePlant,
	})
	ctx.RegisterAction(action.Definition{
		Type: ActionHarvest,
		Schema: action.NewSchema(
			action.Field("plot_id", action.KindString, true),
		),
		Handler: handleHarvest,
	})
	return nil
}

func (p *Plugin) Uninstall(ctx *plugin.Context) error {
	ctx.UnregisterAction(ActionHarvest)
	ctx.UnregisterAction(ActionPlant)
	ctx.RemoveSystem(SystemCropGrowth)
	return nil
}

// growCrops advances growth on every crop snapshot entity and flips it to
// mature exactly once.
func growCrops(eng plugin.Engine, dt time.Duration, state *world.State) {
	state.ByKind(cropKind).Each(func(ent *world.Entity) {
		if mature, _ := ent.Props.Bool("mature"); mature {
			return
		}
		kind, _ := ent.Props.String("crop")
		spec, ok := crops[kind]
		if !ok {
			return
		}
		growth := ent.Props.FloatOr("growth", 0) + dt.Seconds()/spec.growSeconds
		if growth >= 1 {
			ent.Props.Set("growth", 1.0)
			ent.Props.Set("mature", true)
			eng.Emit(EventMatured, map[string]any{
				"plot_id": ent.ID,
				"crop":    kind,
			})
			return
		}
		ent.Props.Set("growth", growth)
	})
}

func handlePlant(ctx action.Context) action.Result {
	kind, _ := ctx.Payload["crop"].(string)
	x, _ := ctx.Payload["x"].(float64)
	z, _ := ctx.Payload["z"].(float64)

	ent := ctx.Engine.Spawn(cropKind, world.Vec3{X: x, Z: z})
	ent.Props.Set("crop", kind)
	ent.Props.Set("growth", 0.0)
	ent.Props.Set("mature", false)
	ent.Props.Set("owner", ctx.Caller)
	if err := ctx.Engine.AddEntity(ent); err != nil {
		return action.Fail("could not plant here")
	}

	return action.OK(map[string]any{
		"plot_id": ent.ID,
		"crop":    kind,
	}).WithEvent(EventPlanted, map[string]any{
		"plot_id": ent.ID,
		"crop":    kind,
		"owner":   ctx.Caller,
	})
}

func handleHarvest(ctx action.Context) action.Result {
	plotID, _ := ctx.Payload["plot_id"].(string)
	ent, ok := ctx.Engine.Entity(plotID)
	if !ok || ent.Kind != cropKind {
		return action.Fail("no such plot")
	}
	if owner, _ := ent.Props.String("owner"); owner != ctx.Caller {
		return action.Fail("not your plot")
	}
	if mature, _ := ent.Props.Bool("mature"); !mature {
		return action.Fail("crop is not ready")
	}

	kind, _ := ent.Props.String("crop")
	ctx.Engine.Despawn(plotID)

	return action.OK(map[string]any{
		"crop":  kind,
		"yield": crops[kind].yield,
	}).WithEvent(EventHarvested, map[string]any{
		"plot_id": plotID,
		"crop":    kind,
		"owner":   ctx.Caller,
	})
}
