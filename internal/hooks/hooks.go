// Package hooks implements the registration/unregistration/execution
// hook chains fired around dispatch: an ordered list per hook kind,
// each entry identified by a google/uuid token so a caller can
// unregister a previously registered hook, plus the veto mechanism
// (CancelHandle) hooks use to short-circuit the action they observe.
package hooks

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

// CancelHandle is a single-bit, set-once latch a hook may flip to veto
// the action it observes. Subsequent hooks in the same chain still run
// (so later observers can see that cancellation happened), but the
// action itself does not proceed.
type CancelHandle struct {
	cancelled bool
}

// Cancel sets the latch.
func (c *CancelHandle) Cancel() { c.cancelled = true }

// WasCancelled reports whether any hook in the chain has cancelled so
// far.
func (c *CancelHandle) WasCancelled() bool { return c.cancelled }

// PreDispatchFunc observes a raw dispatch request before tokenizing.
type PreDispatchFunc func(ctx *lamptypes.ExecutionContext, raw string, cancel *CancelHandle)

// RegistrationFunc observes a command being registered or unregistered.
type RegistrationFunc func(cmd *tree.ExecutableCommand, cancel *CancelHandle)

// PreExecutionFunc observes a selected command immediately before
// invocation.
type PreExecutionFunc func(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand, cancel *CancelHandle)

// ExecutedFunc observes a command's completed invocation, including
// its result and any error.
type ExecutedFunc func(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand, result interface{}, err error)

type list[F any] struct {
	mu      sync.Mutex
	entries []entry[F]
}

type entry[F any] struct {
	id uuid.UUID
	fn F
}

func (l *list[F]) add(fn F) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := uuid.New()
	l.entries = append(l.entries, entry[F]{id: id, fn: fn})
	return id
}

func (l *list[F]) remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *list[F]) all() []F {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]F, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

// Registry holds the five hook chains a Lamp fires: pre-dispatch,
// on-registered, on-unregistered, pre-execution, on-executed.
type Registry struct {
	preDispatch    list[PreDispatchFunc]
	onRegistered   list[RegistrationFunc]
	onUnregistered list[RegistrationFunc]
	preExecution   list[PreExecutionFunc]
	onExecuted     list[ExecutedFunc]
}

// New creates an empty hook registry.
func New() *Registry { return &Registry{} }

// OnPreDispatch registers fn, returning an id usable with
// RemovePreDispatch.
func (r *Registry) OnPreDispatch(fn PreDispatchFunc) uuid.UUID { return r.preDispatch.add(fn) }

// RemovePreDispatch unregisters a previously registered pre-dispatch hook.
func (r *Registry) RemovePreDispatch(id uuid.UUID) bool { return r.preDispatch.remove(id) }

// FirePreDispatch runs every pre-dispatch hook in registration order.
func (r *Registry) FirePreDispatch(ctx *lamptypes.ExecutionContext, raw string) *CancelHandle {
	cancel := &CancelHandle{}
	for _, fn := range r.preDispatch.all() {
		fn(ctx, raw, cancel)
	}
	return cancel
}

// OnRegistered registers fn, returning an id usable with RemoveOnRegistered.
func (r *Registry) OnRegistered(fn RegistrationFunc) uuid.UUID { return r.onRegistered.add(fn) }

// RemoveOnRegistered unregisters a previously registered hook.
func (r *Registry) RemoveOnRegistered(id uuid.UUID) bool { return r.onRegistered.remove(id) }

// FireOnRegistered runs every on-registered hook in registration order.
func (r *Registry) FireOnRegistered(cmd *tree.ExecutableCommand) *CancelHandle {
	cancel := &CancelHandle{}
	for _, fn := range r.onRegistered.all() {
		fn(cmd, cancel)
	}
	return cancel
}

// OnUnregistered registers fn, returning an id usable with
// RemoveOnUnregistered.
func (r *Registry) OnUnregistered(fn RegistrationFunc) uuid.UUID { return r.onUnregistered.add(fn) }

// RemoveOnUnregistered unregisters a previously registered hook.
func (r *Registry) RemoveOnUnregistered(id uuid.UUID) bool { return r.onUnregistered.remove(id) }

// FireOnUnregistered runs every on-unregistered hook in registration order.
func (r *Registry) FireOnUnregistered(cmd *tree.ExecutableCommand) *CancelHandle {
	cancel := &CancelHandle{}
	for _, fn := range r.onUnregistered.all() {
		fn(cmd, cancel)
	}
	return cancel
}

// OnPreExecution registers fn, returning an id usable with
// RemovePreExecution.
func (r *Registry) OnPreExecution(fn PreExecutionFunc) uuid.UUID { return r.preExecution.add(fn) }

// RemovePreExecution unregisters a previously registered hook.
func (r *Registry) RemovePreExecution(id uuid.UUID) bool { return r.preExecution.remove(id) }

// FirePreExecution runs every pre-execution hook in registration order.
func (r *Registry) FirePreExecution(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand) *CancelHandle {
	cancel := &CancelHandle{}
	for _, fn := range r.preExecution.all() {
		fn(ctx, cmd, cancel)
	}
	return cancel
}

// OnExecuted registers fn, returning an id usable with RemoveOnExecuted.
func (r *Registry) OnExecuted(fn ExecutedFunc) uuid.UUID { return r.onExecuted.add(fn) }

// RemoveOnExecuted unregisters a previously registered hook.
func (r *Registry) RemoveOnExecuted(id uuid.UUID) bool { return r.onExecuted.remove(id) }

// FireOnExecuted runs every on-executed hook in registration order.
func (r *Registry) FireOnExecuted(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand, result interface{}, err error) {
	for _, fn := range r.onExecuted.all() {
		fn(ctx, cmd, result, err)
	}
}

// Guard rejects a hook callback from recursively triggering the same
// kind of dispatch cycle past a fixed depth, approximating the
// thread-local depth guard with a per-actor atomic counter since Go has
// no goroutine-local storage.
type Guard struct {
	depth sync.Map // actor id -> *atomic.Int32
}

// MaxDepth bounds how many nested hook-triggered dispatches one actor
// may be inside at once.
const MaxDepth = 4

// NewGuard creates an empty reentrancy guard.
func NewGuard() *Guard { return &Guard{} }

// Enter increments the depth counter for actorID. It returns ok=false
// if doing so would exceed MaxDepth, in which case the caller must not
// proceed and must not call the returned exit function.
func (g *Guard) Enter(actorID string) (exit func(), ok bool) {
	v, _ := g.depth.LoadOrStore(actorID, new(atomic.Int32))
	counter := v.(*atomic.Int32)
	if counter.Add(1) > MaxDepth {
		counter.Add(-1)
		return nil, false
	}
	return func() { counter.Add(-1) }, true
}
