package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickforge/tickforge/internal/core/action"
	"github.com/tickforge/tickforge/internal/core/engine"
	"github.com/tickforge/tickforge/internal/core/observability/log"
	"github.com/tickforge/tickforge/internal/plugins/movement"
)

func TestMove_SpawnsAndWalksPlayer(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), log.Nop())
	require.NoError(t, e.InstallPlugin(movement.New()))

	res := e.ExecuteAction(movement.ActionMove, action.Payload{"direction": "right"}, "u1")
	require.True(t, res.Success)
	require.Len(t, res.Events, 1)
	assert.Equal(t, movement.EventMoved, res.Events[0].Type)

	id := res.Data["entity_id"].(string)
	ent, ok := e.Entity(id)
	require.True(t, ok)
	assert.Equal(t, "player", ent.Kind)
	assert.Equal(t, 1.0, ent.Transform.Position.X)

	owner, _ := ent.Props.String("owner")
	assert.Equal(t, "u1", owner)
}

func TestMove_CooldownScenario(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), log.Nop())
	require.NoError(t, e.InstallPlugin(movement.New()))

	first := e.ExecuteAction(movement.ActionMove, action.Payload{"direction": "up"}, "u1")
	assert.True(t, first.Success)

	// second call well inside the 1s window
	second := e.ExecuteAction(movement.ActionMove, action.Payload{"direction": "up"}, "u1")
	assert.False(t, second.Success)
	assert.Equal(t, action.CodeOnCooldown, second.Code)
}

func TestMove_RejectsUnknownDirection(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), log.Nop())
	require.NoError(t, e.InstallPlugin(movement.New()))

	res := e.ExecuteAction(movement.ActionMove, action.Payload{"direction": "sideways"}, "u1")
	assert.False(t, res.Success)
	assert.Equal(t, action.CodeInvalidPayload, res.Code)
	assert.Zero(t, e.EntityCount(), "invalid move must not spawn a player")
}

func TestMove_UninstallRemovesAction(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), log.Nop())
	require.NoError(t, e.InstallPlugin(movement.New()))
	require.NoError(t, e.UninstallPlugin("movement"))

	res := e.ExecuteAction(movement.ActionMove, action.Payload{"direction": "up"}, "u1")
	assert.Equal(t, action.CodeUnknownAction, res.Code)
}
