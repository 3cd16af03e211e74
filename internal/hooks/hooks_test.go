package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

type fakeActor struct{ id string }

func (a *fakeActor) ID() string   { return a.id }
func (a *fakeActor) Reply(string) {}
func (a *fakeActor) Error(string) {}

var _ lamptypes.Actor = (*fakeActor)(nil)

func TestFirePreDispatchRunsHooksInRegistrationOrder(t *testing.T) {
	r := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		r.OnPreDispatch(func(_ *lamptypes.ExecutionContext, _ string, _ *CancelHandle) {
			order = append(order, i)
		})
	}

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	cancel := r.FirePreDispatch(ctx, "raw")

	assert.False(t, cancel.WasCancelled())
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestFirePreDispatchCancellationStillRunsLaterHooksWithFlagSet(t *testing.T) {
	r := New()
	var sawCancelledAt []bool
	for i := 0; i < 4; i++ {
		i := i
		r.OnPreDispatch(func(_ *lamptypes.ExecutionContext, _ string, cancel *CancelHandle) {
			if i == 1 {
				cancel.Cancel()
			}
			sawCancelledAt = append(sawCancelledAt, cancel.WasCancelled())
		})
	}

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	cancel := r.FirePreDispatch(ctx, "raw")

	require.True(t, cancel.WasCancelled())
	// hooks 0 and 1 ran before the cancel took effect inside hook 1 itself,
	// hooks 2 and 3 must still run and see WasCancelled()==true.
	assert.Equal(t, []bool{false, true, true, true}, sawCancelledAt)
}

func TestRemovePreDispatchStopsFutureFiring(t *testing.T) {
	r := New()
	fired := 0
	id := r.OnPreDispatch(func(_ *lamptypes.ExecutionContext, _ string, _ *CancelHandle) {
		fired++
	})

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	r.FirePreDispatch(ctx, "raw")
	require.True(t, r.RemovePreDispatch(id))
	r.FirePreDispatch(ctx, "raw")

	assert.Equal(t, 1, fired)
	assert.False(t, r.RemovePreDispatch(id), "removing twice must report false")
}

func TestFireOnRegisteredAndOnUnregisteredAreIndependentChains(t *testing.T) {
	r := New()
	var registeredCalls, unregisteredCalls int
	r.OnRegistered(func(_ *tree.ExecutableCommand, _ *CancelHandle) { registeredCalls++ })
	r.OnUnregistered(func(_ *tree.ExecutableCommand, _ *CancelHandle) { unregisteredCalls++ })

	cmd := &tree.ExecutableCommand{ID: "cmd"}
	r.FireOnRegistered(cmd)
	assert.Equal(t, 1, registeredCalls)
	assert.Equal(t, 0, unregisteredCalls)

	r.FireOnUnregistered(cmd)
	assert.Equal(t, 1, registeredCalls)
	assert.Equal(t, 1, unregisteredCalls)
}

func TestFirePreExecutionCancellationPropagatesAcrossHooks(t *testing.T) {
	r := New()
	r.OnPreExecution(func(_ *lamptypes.ExecutionContext, _ *tree.ExecutableCommand, cancel *CancelHandle) {
		cancel.Cancel()
	})
	var secondSawCancelled bool
	r.OnPreExecution(func(_ *lamptypes.ExecutionContext, _ *tree.ExecutableCommand, cancel *CancelHandle) {
		secondSawCancelled = cancel.WasCancelled()
	})

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	cmd := &tree.ExecutableCommand{ID: "cmd"}
	cancel := r.FirePreExecution(ctx, cmd)

	assert.True(t, cancel.WasCancelled())
	assert.True(t, secondSawCancelled)
}

func TestFireOnExecutedPassesResultAndErrorThrough(t *testing.T) {
	r := New()
	var gotResult interface{}
	var gotErr error
	r.OnExecuted(func(_ *lamptypes.ExecutionContext, _ *tree.ExecutableCommand, result interface{}, err error) {
		gotResult, gotErr = result, err
	})

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	cmd := &tree.ExecutableCommand{ID: "cmd"}
	r.FireOnExecuted(ctx, cmd, "ok", nil)

	assert.Equal(t, "ok", gotResult)
	assert.NoError(t, gotErr)
}

func TestGuardEnterRejectsPastMaxDepth(t *testing.T) {
	g := NewGuard()
	var exits []func()
	for i := 0; i < MaxDepth; i++ {
		exit, ok := g.Enter("alice")
		require.True(t, ok, "entry %d should be allowed", i)
		exits = append(exits, exit)
	}

	_, ok := g.Enter("alice")
	assert.False(t, ok, "entry past MaxDepth must be rejected")

	exits[0]()
	_, ok = g.Enter("alice")
	assert.True(t, ok, "freeing one slot should allow one more entry")
}

func TestGuardTracksActorsIndependently(t *testing.T) {
	g := NewGuard()
	for i := 0; i < MaxDepth; i++ {
		_, ok := g.Enter("alice")
		require.True(t, ok)
	}

	_, ok := g.Enter("bob")
	assert.True(t, ok, "bob's depth must not be affected by alice's")
}
