package action

import (
	"time"

	"github.com/tickforge/tickforge/internal/core/events/bus"
	"github.com/tickforge/tickforge/internal/core/world"
	"github.com/tickforge/tickforge/pkg/sequence"
)

// Payload is the structured, JSON-compatible body of an action request.
type Payload map[string]any

// Handler executes a validated action. It may read and mutate the entity
// store through ctx.Engine. Returning a failed Result is a normal outcome;
// a panic is recovered by the dispatcher and reported as an internal fault.
type Handler func(ctx Context) Result

// Definition is the capability record for one action type: schema, optional
// cooldown, and the handler closure. Type names are unique within a registry;
// re-registering a name replaces the prior definition atomically.
type Definition struct {
	Type     string
	Schema   Schema
	Cooldown time.Duration
	Handler  Handler
}

// Engine is the handle handlers use to reach the entity store and event
// stream. It is passed explicitly per invocation; there is no ambient
// engine, so multiple engine instances can coexist.
type Engine interface {
	Entity(id string) (*world.Entity, bool)
	EntitiesByKind(kind string) *sequence.Iterator[*world.Entity]
	Spawn(kind string, position world.Vec3) *world.Entity
	AddEntity(e *world.Entity) error
	Despawn(id string)
	Emit(eventType string, data any)
}

// Context carries the per-invocation execution state handed to a Handler.
// It is constructed per call and never persisted.
type Context struct {
	Caller  string
	Engine  Engine
	Payload Payload
}

// Result codes distinguishing actionable failures from opaque ones, so UI
// layers can react appropriately (cooldown timer vs. generic error toast).
const (
	CodeOK             = "ok"
	CodeUnknownAction  = "unknown_action"
	CodeInvalidPayload = "invalid_payload"
	CodeOnCooldown     = "on_cooldown"
	CodeFailed         = "failed"
	CodeInternal       = "internal_error"
)

// Result is the outcome of one action invocation.
type Result struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Events  []bus.Event    `json:"events,omitempty"`
}

// OK builds a successful Result with an optional data payload.
func OK(data map[string]any) Result {
	return Result{Success: true, Code: CodeOK, Data: data}
}

// Fail builds a failed-but-expected Result, e.g. "target out of range".
func Fail(message string) Result {
	return Result{Success: false, Code: CodeFailed, Message: message}
}

// WithEvent appends an event to the result, stamped now.
func (r Result) WithEvent(eventType string, data any) Result {
	r.Events = append(r.Events, bus.NewEvent(eventType, data))
	return r
}
