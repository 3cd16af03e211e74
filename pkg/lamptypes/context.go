package lamptypes

import "time"

// CooldownHandle is the object exposed to a handler (as a context
// parameter) for inspecting and controlling its own cooldown. The
// concrete implementation lives in internal/cooldown; only the contract
// is here so handler signatures can depend on lamptypes alone.
type CooldownHandle interface {
	// IsOnCooldown compares the current time with the expiry.
	IsOnCooldown() bool
	// Cooldown sets the expiry to now+d. A handler may call this
	// directly even without a method-level cooldown annotation.
	Cooldown(d time.Duration)
	// CooldownDefault is the no-arg cooldown() call. It requires a bound
	// duration (from a method-level cooldown annotation) and returns
	// UnboundCooldown otherwise.
	CooldownDefault() error
	// RemoveCooldown clears the expiry.
	RemoveCooldown()
	// RemainingTime returns zero when idle, else the time left.
	RemainingTime() time.Duration
}

// ExecutionContext is created per dispatch and dropped once dispatch
// completes. It holds the acting actor, arguments parsed so far (keyed
// by parameter name), and a side channel for context-parameter values
// resolved during this dispatch (cooldown handles, loggers, and so on).
type ExecutionContext struct {
	Actor     Actor
	Arguments map[string]interface{}
	extra     map[string]interface{}
}

// NewExecutionContext creates a context for a single dispatch of actor.
func NewExecutionContext(actor Actor) *ExecutionContext {
	return &ExecutionContext{
		Actor:     actor,
		Arguments: make(map[string]interface{}),
		extra:     make(map[string]interface{}),
	}
}

// Arg returns the parsed value for a named parameter, if present.
func (c *ExecutionContext) Arg(name string) (interface{}, bool) {
	v, ok := c.Arguments[name]
	return v, ok
}

// SetArg records the parsed value for a named parameter.
func (c *ExecutionContext) SetArg(name string, value interface{}) {
	c.Arguments[name] = value
}

// Extra returns a side-channel value stashed under key (used for
// resolved context parameters such as the cooldown handle).
func (c *ExecutionContext) Extra(key string) (interface{}, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// SetExtra stashes a side-channel value under key.
func (c *ExecutionContext) SetExtra(key string, value interface{}) {
	c.extra[key] = value
}
