package action

import (
	"errors"
	"fmt"
	"time"
)

// Dispatch errors
var (
	ErrUnknownAction = errors.New("unknown action type")
	ErrNoHandler     = errors.New("action definition has no handler")
)

// ValidationError reports a payload that failed its action's schema, naming
// the offending field. The handler is never invoked for such payloads.
type ValidationError struct {
	Action string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload for %q: field %q %s", e.Action, e.Field, e.Reason)
}

// CooldownError reports a caller still inside an action's cooldown window.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("action %q on cooldown for %s", e.Action, e.Remaining)
}
