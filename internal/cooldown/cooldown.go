// Package cooldown implements the per-(command, actor) cooldown store:
// a sync.Map keyed by a composite string key with the expiry stored as
// an atomic UnixNano timestamp, plus the Handle an invocation receives
// to inspect and control its own cooldown.
package cooldown

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"lamp/internal/tree"
	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

func key(commandID, actorID string) string {
	return commandID + "\x00" + actorID
}

// Store holds cooldown expiries for every (command, actor) pair seen so
// far. The zero value is usable.
type Store struct {
	expiries sync.Map // string -> *atomic.Int64 (UnixNano expiry, 0 = idle)
}

// New creates an empty cooldown store.
func New() *Store { return &Store{} }

func (s *Store) entry(commandID, actorID string) *atomic.Int64 {
	k := key(commandID, actorID)
	v, _ := s.expiries.LoadOrStore(k, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// IsOnCooldown reports whether (commandID, actorID) is still cooling
// down as of now.
func (s *Store) IsOnCooldown(commandID, actorID string, now time.Time) bool {
	expiry := s.entry(commandID, actorID).Load()
	return expiry != 0 && now.UnixNano() < expiry
}

// Remaining returns the time left before (commandID, actorID) comes off
// cooldown, or zero if idle.
func (s *Store) Remaining(commandID, actorID string, now time.Time) time.Duration {
	expiry := s.entry(commandID, actorID).Load()
	if expiry == 0 {
		return 0
	}
	remaining := time.Unix(0, expiry).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Set puts (commandID, actorID) on cooldown until now+d.
func (s *Store) Set(commandID, actorID string, d time.Duration, now time.Time) {
	s.entry(commandID, actorID).Store(now.Add(d).UnixNano())
}

// Clear takes (commandID, actorID) off cooldown.
func (s *Store) Clear(commandID, actorID string) {
	s.entry(commandID, actorID).Store(0)
}

// Handle is the per-invocation cooldown controller exposed to a
// handler, implementing lamptypes.CooldownHandle.
type Handle struct {
	store     *Store
	commandID string
	actorID   string
	bound     time.Duration
	isBound   bool
	now       func() time.Time
}

var _ lamptypes.CooldownHandle = (*Handle)(nil)

// NewHandle creates a Handle for one dispatch. bound, when non-zero, is
// the duration a method-level cooldown annotation supplied, usable by a
// no-arg Cooldown() call.
func NewHandle(store *Store, commandID, actorID string, bound time.Duration, isBound bool, now func() time.Time) *Handle {
	if now == nil {
		now = time.Now
	}
	return &Handle{store: store, commandID: commandID, actorID: actorID, bound: bound, isBound: isBound, now: now}
}

// IsOnCooldown implements lamptypes.CooldownHandle.
func (h *Handle) IsOnCooldown() bool {
	return h.store.IsOnCooldown(h.commandID, h.actorID, h.now())
}

// Cooldown implements lamptypes.CooldownHandle, setting an explicit
// duration.
func (h *Handle) Cooldown(d time.Duration) {
	h.store.Set(h.commandID, h.actorID, d, h.now())
}

// CooldownDefault implements lamptypes.CooldownHandle's no-arg form,
// requiring a bound duration from a method annotation.
func (h *Handle) CooldownDefault() error {
	if !h.isBound {
		return lamperr.UnboundCooldown()
	}
	h.store.Set(h.commandID, h.actorID, h.bound, h.now())
	return nil
}

// RemoveCooldown implements lamptypes.CooldownHandle.
func (h *Handle) RemoveCooldown() {
	h.store.Clear(h.commandID, h.actorID)
}

// RemainingTime implements lamptypes.CooldownHandle.
func (h *Handle) RemainingTime() time.Duration {
	return h.store.Remaining(h.commandID, h.actorID, h.now())
}

// String renders the remaining time for error messages.
func (h *Handle) String() string {
	return fmt.Sprintf("%s", h.RemainingTime())
}

// ctxCommandIDKey and ctxCooldownSpecKey are the ExecutionContext.Extra
// keys the dispatcher stashes before resolving context parameters, so
// ContextFactory's resolver can bind a Handle to the command actually
// being invoked without the registry layer knowing about commands.
const (
	ctxCommandIDKey    = "lamp.cooldown.commandID"
	ctxCooldownSpecKey = "lamp.cooldown.spec"
)

// StashInvocationContext records the identifiers ContextFactory's
// resolver needs. The dispatcher calls this once per dispatch, before
// resolving any context parameter.
func StashInvocationContext(ctx *lamptypes.ExecutionContext, commandID string, spec *tree.CooldownSpec) {
	ctx.SetExtra(ctxCommandIDKey, commandID)
	ctx.SetExtra(ctxCooldownSpecKey, spec)
}

type contextResolver struct {
	store *Store
}

func (r *contextResolver) Resolve(ctx *lamptypes.ExecutionContext) (interface{}, error) {
	commandID, _ := ctx.Extra(ctxCommandIDKey)
	var duration time.Duration
	var bound bool
	if rawSpec, ok := ctx.Extra(ctxCooldownSpecKey); ok {
		if spec, ok := rawSpec.(*tree.CooldownSpec); ok && spec != nil {
			duration, bound = spec.Duration, spec.Bound
		}
	}
	return NewHandle(r.store, commandID.(string), ctx.Actor.ID(), duration, bound, nil), nil
}

var cooldownHandleType = reflect.TypeOf((*lamptypes.CooldownHandle)(nil)).Elem()

// ContextFactory returns a ContextParameterFactory recognizing
// parameters declared as lamptypes.CooldownHandle, resolving them to a
// Handle bound to store and the command currently being invoked.
func ContextFactory(store *Store) lamptypes.ContextParameterFactory {
	return func(t reflect.Type, _ lamptypes.AnnotationList) (lamptypes.ContextParameterResolver, bool) {
		if t != cooldownHandleType {
			return nil, false
		}
		return &contextResolver{store: store}, true
	}
}
