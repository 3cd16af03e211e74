package dispatch

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp/internal/cooldown"
	"lamp/internal/hooks"
	"lamp/internal/paramtype"
	"lamp/internal/registry"
	"lamp/internal/tree"
	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

type fakeActor struct {
	id      string
	replies []string
	errs    []string
}

func (a *fakeActor) ID() string            { return a.id }
func (a *fakeActor) Reply(message string)  { a.replies = append(a.replies, message) }
func (a *fakeActor) Error(message string)  { a.errs = append(a.errs, message) }

func stringBinding(name string) *tree.ParamBinding {
	return &tree.ParamBinding{
		Descriptor: lamptypes.ParameterDescriptor{Name: name, Type: reflect.TypeOf("")},
		Parser:     paramtype.String,
	}
}

func defaultedStringBinding(name, def string) *tree.ParamBinding {
	b := stringBinding(name)
	b.Descriptor.Default = lamptypes.DefaultValue{Raw: def, IsSet: true}
	b.Descriptor.Optional = true
	return b
}

func literal(lit string) tree.EffectiveSegment { return tree.EffectiveSegment{IsLiteral: true, Literal: lit} }
func param(b *tree.ParamBinding) tree.EffectiveSegment {
	return tree.EffectiveSegment{Binding: b, Priority: b.Parser.ParsePriority()}
}

func emptyBundle() *registry.Bundle {
	return &registry.Bundle{
		ParameterTypes:    registry.NewParameterTypeRegistry(nil),
		ContextParameters: registry.NewContextParameterRegistry(nil),
		Suggestions:       registry.NewSuggestionRegistry(nil),
		ResponseHandlers:  registry.NewResponseHandlerRegistry(nil),
		Permissions:       registry.NewPermissionRegistry(),
		Conditions:        registry.NewConditionRegistry(),
		Validators:        registry.NewValidatorRegistry(),
		ExceptionHandlers: registry.NewExceptionHandlerRegistry(nil),
	}
}

func newDispatcher(t *testing.T, tr *tree.Tree) (*Dispatcher, *hooks.Registry, *cooldown.Store) {
	t.Helper()
	h := hooks.New()
	cs := cooldown.New()
	return New(tr, emptyBundle(), h, cs, nil), h, cs
}

func TestDispatchLiteralOnlyCommandInvokesHandler(t *testing.T) {
	tr := tree.New()
	var invoked bool
	cmd := &tree.ExecutableCommand{
		ID:        "greet",
		Path:      lamptypes.CommandPath{{Literal: "greet"}},
		Effective: []tree.EffectiveSegment{literal("greet")},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			invoked = true
			return "hi", nil
		},
	}
	require.NoError(t, tr.Insert(cmd))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, Executed, out.Kind)
	assert.True(t, invoked)
	assert.Equal(t, "hi", out.Result)
}

func TestDispatchPassesParsedPositionalArgument(t *testing.T) {
	tr := tree.New()
	targetBinding := stringBinding("target")
	var got string
	cmd := &tree.ExecutableCommand{
		ID:         "greet",
		Path:       lamptypes.CommandPath{{Literal: "greet"}, {Literal: "<target>", IsPlaceholder: true}},
		Effective:  []tree.EffectiveSegment{literal("greet"), param(targetBinding)},
		Positional: []*tree.ParamBinding{targetBinding},
		AllParameters: []*tree.ParamBinding{targetBinding},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			v, _ := ctx.Arg("target")
			got = v.(string)
			return nil, nil
		},
	}
	require.NoError(t, tr.Insert(cmd))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "greet bob")
	require.NoError(t, err)
	assert.Equal(t, Executed, out.Kind)
	assert.Equal(t, "bob", got)
}

func TestDispatchPrefersMoreLiteralTokens(t *testing.T) {
	tr := tree.New()
	targetBinding := stringBinding("target")
	genericRan, specificRan := false, false
	generic := &tree.ExecutableCommand{
		ID:         "teleport-generic",
		Effective:  []tree.EffectiveSegment{literal("teleport"), param(targetBinding)},
		Positional: []*tree.ParamBinding{targetBinding},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			genericRan = true
			return nil, nil
		},
	}
	specific := &tree.ExecutableCommand{
		ID:        "teleport-home",
		Effective: []tree.EffectiveSegment{literal("teleport"), literal("home")},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			specificRan = true
			return nil, nil
		},
	}
	require.NoError(t, tr.Insert(generic))
	require.NoError(t, tr.Insert(specific))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "teleport home")
	require.NoError(t, err)
	assert.Equal(t, Executed, out.Kind)
	assert.True(t, specificRan, "the literal-matching overload should win over the generic parameter overload")
	assert.False(t, genericRan)
}

func TestDispatchFillsDefaultWhenInputExhausted(t *testing.T) {
	tr := tree.New()
	targetBinding := defaultedStringBinding("target", "world")
	var got string
	cmd := &tree.ExecutableCommand{
		ID:         "greet",
		Effective:  []tree.EffectiveSegment{literal("greet"), param(targetBinding)},
		Positional: []*tree.ParamBinding{targetBinding},
		AllParameters: []*tree.ParamBinding{targetBinding},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			v, _ := ctx.Arg("target")
			got = v.(string)
			return nil, nil
		},
	}
	require.NoError(t, tr.Insert(cmd))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, Executed, out.Kind)
	assert.Equal(t, "world", got)
}

func TestDispatchUnknownCommandReportsFailure(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{
		Effective: []tree.EffectiveSegment{literal("greet")},
		Handler:   func(ctx *lamptypes.ExecutionContext) (interface{}, error) { return nil, nil },
	}))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, Failed, out.Kind)
	var de *lamperr.DispatchError
	require.ErrorAs(t, out.Err, &de)
	assert.Equal(t, lamperr.KindUnknownCommand, de.Kind)
}

type denyPermission struct{ node string }

func (p denyPermission) Test(*lamptypes.ExecutionContext) bool { return false }
func (p denyPermission) Describe() string                      { return p.node }

func TestDispatchRejectsOnFailedPermission(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{
		Effective:  []tree.EffectiveSegment{literal("nuke")},
		Permission: denyPermission{node: "admin.nuke"},
		Handler:    func(ctx *lamptypes.ExecutionContext) (interface{}, error) { return nil, nil },
	}))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "nuke")
	require.NoError(t, err)
	assert.Equal(t, Failed, out.Kind)
	var de *lamperr.DispatchError
	require.ErrorAs(t, out.Err, &de)
	assert.Equal(t, lamperr.KindNoPermission, de.Kind)
	assert.Equal(t, "admin.nuke", de.Required)
}

func TestDispatchAppliesCooldownAfterSuccessfulExecution(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{
		ID:        "foo",
		Effective: []tree.EffectiveSegment{literal("foo")},
		Cooldown:  &tree.CooldownSpec{Duration: time.Minute, Bound: true},
		Handler:   func(ctx *lamptypes.ExecutionContext) (interface{}, error) { return nil, nil },
	}))

	d, _, cs := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})

	out, err := d.Dispatch(ctx, "foo")
	require.NoError(t, err)
	require.Equal(t, Executed, out.Kind)
	assert.True(t, cs.IsOnCooldown("foo", "a", time.Now()))

	out2, err := d.Dispatch(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, Failed, out2.Kind)
	var de *lamperr.DispatchError
	require.ErrorAs(t, out2.Err, &de)
	assert.Equal(t, lamperr.KindOnCooldown, de.Kind)
}

func TestDispatchPreDispatchHookCanCancel(t *testing.T) {
	tr := tree.New()
	var invoked bool
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{
		Effective: []tree.EffectiveSegment{literal("foo")},
		Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
			invoked = true
			return nil, nil
		},
	}))

	d, hookReg, _ := newDispatcher(t, tr)
	hookReg.OnPreDispatch(func(ctx *lamptypes.ExecutionContext, raw string, cancel *hooks.CancelHandle) {
		cancel.Cancel()
	})

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	out, err := d.Dispatch(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, Cancelled, out.Kind)
	assert.False(t, invoked)
}

func TestDispatchOnExecutedHookObservesResult(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{
		ID:        "foo",
		Effective: []tree.EffectiveSegment{literal("foo")},
		Handler:   func(ctx *lamptypes.ExecutionContext) (interface{}, error) { return "done", nil },
	}))

	d, hookReg, _ := newDispatcher(t, tr)
	var seenResult interface{}
	hookReg.OnExecuted(func(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand, result interface{}, err error) {
		seenResult = result
	})

	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	_, err := d.Dispatch(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, "done", seenResult)
}

func TestSuggestReturnsMatchingLiteralChildren(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{Effective: []tree.EffectiveSegment{literal("greet")}}))
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{Effective: []tree.EffectiveSegment{literal("grep")}}))
	require.NoError(t, tr.Insert(&tree.ExecutableCommand{Effective: []tree.EffectiveSegment{literal("help")}}))

	d, _, _ := newDispatcher(t, tr)
	ctx := lamptypes.NewExecutionContext(&fakeActor{id: "a"})
	got := d.Suggest(ctx, "gr")
	assert.ElementsMatch(t, []string{"greet", "grep"}, got)
}
