package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickforge/tickforge/internal/core/cooldown"
	"github.com/tickforge/tickforge/internal/core/observability/log"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *Registry) {
	t.Helper()
	registry := NewRegistry()
	return NewDispatcher(registry, cooldown.NewTracker(), log.Nop()), registry
}

func moveDefinition(cd time.Duration, handler Handler) Definition {
	return Definition{
		Type: "move",
		Schema: NewSchema(
			Field("direction", KindString, true).WithEnum("up", "down", "left", "right"),
		),
		Cooldown: cd,
		Handler:  handler,
	}
}

func TestDispatcher_UnknownAction(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res := d.Execute("teleport", Payload{}, Context{Caller: "u1"})
	assert.False(t, res.Success)
	assert.Equal(t, CodeUnknownAction, res.Code)
	assert.Contains(t, res.Message, "teleport")
}

func TestDispatcher_ValidationFailureSkipsHandlerAndCooldown(t *testing.T) {
	d, registry := newTestDispatcher(t)
	invoked := 0
	registry.Register(moveDefinition(time.Second, func(Context) Result {
		invoked++
		return OK(nil)
	}))

	res := d.Execute("move", Payload{"direction": "sideways"}, Context{Caller: "u1"})
	assert.False(t, res.Success)
	assert.Equal(t, CodeInvalidPayload, res.Code)
	assert.Zero(t, invoked, "handler must never see an invalid payload")

	// no cooldown was recorded by the failed call
	res = d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.True(t, res.Success)
	assert.Equal(t, 1, invoked)
}

func TestDispatcher_CooldownGate(t *testing.T) {
	d, registry := newTestDispatcher(t)
	now := time.Now()
	d.now = func() time.Time { return now }

	invoked := 0
	registry.Register(moveDefinition(time.Second, func(Context) Result {
		invoked++
		return OK(nil)
	}))

	first := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	require.True(t, first.Success)

	// second call 500ms later, inside the window
	now = now.Add(500 * time.Millisecond)
	second := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.False(t, second.Success)
	assert.Equal(t, CodeOnCooldown, second.Code)
	assert.Equal(t, int64(500), second.Data["retry_in_ms"])
	assert.Equal(t, 1, invoked, "gated call must not invoke the handler")

	// a different caller is unaffected
	other := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u2"})
	assert.True(t, other.Success)

	// after the window the original caller is eligible again
	now = now.Add(501 * time.Millisecond)
	third := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.True(t, third.Success)
}

func TestDispatcher_CooldownAnchorsAtDispatchStart(t *testing.T) {
	d, registry := newTestDispatcher(t)
	now := time.Now()
	d.now = func() time.Time { return now }

	registry.Register(moveDefinition(time.Second, func(Context) Result {
		// a slow handler must not stretch the cooldown window
		now = now.Add(400 * time.Millisecond)
		return OK(nil)
	}))

	require.True(t, d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"}).Success)

	// 1s after dispatch start is 600ms after the handler returned
	now = now.Add(600 * time.Millisecond)
	res := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.True(t, res.Success)
}

func TestDispatcher_FailedHandlerRecordsNoCooldown(t *testing.T) {
	d, registry := newTestDispatcher(t)
	registry.Register(moveDefinition(time.Second, func(Context) Result {
		return Fail("blocked by a wall")
	}))

	res := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.False(t, res.Success)
	assert.Equal(t, CodeFailed, res.Code)

	// failure is a normal outcome and must not start the cooldown
	res = d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.Equal(t, CodeFailed, res.Code)
}

func TestDispatcher_HandlerPanicIsAFault(t *testing.T) {
	d, registry := newTestDispatcher(t)
	registry.Register(moveDefinition(0, func(Context) Result {
		panic("handler bug")
	}))

	res := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.False(t, res.Success)
	assert.Equal(t, CodeInternal, res.Code)
	assert.Equal(t, "internal error", res.Message, "fault detail must not leak to callers")
}

func TestDispatcher_ResultPassesThroughUnchanged(t *testing.T) {
	d, registry := newTestDispatcher(t)
	want := OK(map[string]any{"x": 1.0}).WithEvent("entity.moved", map[string]any{"id": "e1"})
	registry.Register(moveDefinition(0, func(Context) Result {
		return want
	}))

	res := d.Execute("move", Payload{"direction": "up"}, Context{Caller: "u1"})
	assert.Equal(t, want.Code, res.Code)
	assert.Equal(t, want.Data, res.Data)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "entity.moved", res.Events[0].Type)
}

func TestRegistry_LastWriterWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Definition{Type: "move", Handler: func(Context) Result { return Fail("old") }})
	registry.Register(Definition{Type: "move", Handler: func(Context) Result { return OK(nil) }})

	def, ok := registry.Resolve("move")
	require.True(t, ok)
	assert.True(t, def.Handler(Context{}).Success)

	registry.Unregister("move")
	assert.False(t, registry.Has("move"))
	assert.Empty(t, registry.Types())
}
