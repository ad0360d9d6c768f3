package action

import (
	"fmt"
	"time"

	"github.com/tickforge/tickforge/internal/core/cooldown"
	"github.com/tickforge/tickforge/internal/core/observability/log"
)

// Dispatcher validates and executes requested actions. It gates whether a
// handler runs; it never rewrites the handler's Result. Unknown action,
// validation failure, and cooldown rejection are terminal for the request:
// retry policy, if any, belongs to the caller at the network edge.
type Dispatcher struct {
	registry  *Registry
	cooldowns *cooldown.Tracker
	logger    log.Log
	now       func() time.Time
}

// NewDispatcher wires a dispatcher to its registry and cooldown tracker.
func NewDispatcher(registry *Registry, cooldowns *cooldown.Tracker, logger log.Log) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		cooldowns: cooldowns,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute runs the dispatch pipeline for one invocation:
// resolve, validate, cooldown gate, handler, cooldown bookkeeping.
func (d *Dispatcher) Execute(actionType string, raw Payload, ctx Context) Result {
	// Captured before the handler runs so slow handlers don't stretch the
	// effective cooldown window.
	now := d.now()

	def, ok := d.registry.Resolve(actionType)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownAction, actionType)
		return Result{Success: false, Code: CodeUnknownAction, Message: err.Error()}
	}

	if err := def.Schema.Validate(actionType, raw); err != nil {
		return Result{Success: false, Code: CodeInvalidPayload, Message: err.Error()}
	}

	if def.Cooldown > 0 && d.cooldowns.OnCooldown(ctx.Caller, actionType, now) {
		cErr := &CooldownError{Action: actionType, Remaining: d.cooldowns.Remaining(ctx.Caller, actionType, now)}
		return Result{
			Success: false,
			Code:    CodeOnCooldown,
			Message: cErr.Error(),
			Data:    map[string]any{"retry_in_ms": cErr.Remaining.Milliseconds()},
		}
	}

	ctx.Payload = raw
	res := d.invoke(def, ctx, actionType)

	if res.Success && def.Cooldown > 0 {
		d.cooldowns.RecordUse(ctx.Caller, actionType, now, def.Cooldown)
	}
	return res
}

// invoke runs the handler with a panic boundary. A panicking handler is a
// fault, not a failure result: it is logged with full context and surfaced
// to the caller as a generic internal error without leaking detail.
func (d *Dispatcher) invoke(def Definition, ctx Context, actionType string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("action handler fault",
				log.String("action", actionType),
				log.String("caller", ctx.Caller),
				log.Any("panic", r),
				log.Any("payload", ctx.Payload),
			)
			res = Result{Success: false, Code: CodeInternal, Message: "internal error"}
		}
	}()

	if def.Handler == nil {
		d.logger.Error("action with no handler",
			log.String("action", actionType),
			log.Error(ErrNoHandler),
		)
		return Result{Success: false, Code: CodeInternal, Message: "internal error"}
	}
	return def.Handler(ctx)
}
