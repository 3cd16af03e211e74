package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp"
	"lamp/internal/dispatch"
	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

func newTestLamp(t *testing.T, dir *directory) *lamp.Lamp {
	t.Helper()
	b := lamp.New()
	b.ParameterTypes().Add(actorRefFactory(dir))
	require.NoError(t, registerCommands(b, dir))
	return b.Build()
}

func dispatchAs(t *testing.T, lm *lamp.Lamp, actor lamptypes.Actor, raw string) *dispatch.Outcome {
	t.Helper()
	ctx := lamptypes.NewExecutionContext(actor)
	out, err := lm.Dispatch(ctx, raw)
	require.NoError(t, err)
	return out
}

func TestGreetWithNoTargetRepliesToCaller(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "greet")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"Hello!"}, self.Replies())
}

func TestGreetWithTargetNotifiesBothActors(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	other := NewScriptActor("bob")
	dir.register(self)
	dir.register(other)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "greet bob")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"You greet bob."}, self.Replies())
	assert.Equal(t, []string{"alice greets you."}, other.Replies())
}

func TestGreetRejectsUnknownActorName(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "greet ghost")
	assert.Equal(t, dispatch.Failed, out.Kind)
}

func TestTeleportPicksCoordinateOverloadOverTargetOverload(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "teleport 1 2 3")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"You teleport to (1, 2, 3)."}, self.Replies())
}

func TestTeleportHereOverloadMovesBothActors(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	other := NewScriptActor("bob")
	dir.register(self)
	dir.register(other)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "teleport bob here")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"You teleport bob to your side."}, self.Replies())
	assert.Equal(t, []string{"alice teleports you to their side."}, other.Replies())
}

func TestTeleportSingleTargetOverload(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	other := NewScriptActor("bob")
	dir.register(self)
	dir.register(other)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "teleport bob")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"You teleport to bob's location."}, self.Replies())
}

func TestModePrefersEnumOverloadOverNumericOverload(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "mode fast")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"mode set to fast"}, self.Replies())
}

func TestModeFallsBackToNumericOverloadWhenNotAnEnumToken(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "mode 42")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"mode set to numeric code 42"}, self.Replies())
}

func TestFooEngagesCooldownAfterSuccess(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	first := dispatchAs(t, lm, self, "foo")
	require.Equal(t, dispatch.Executed, first.Kind)

	second := dispatchAs(t, lm, self, "foo")
	assert.Equal(t, dispatch.Failed, second.Kind)
}

func TestPingDeprecatedAnnotationExpandsToDescription(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "ping")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"Hello!"}, self.Replies())

	var ping *tree.ExecutableCommand
	for _, c := range lm.Commands() {
		if c.Path.String() == "ping" {
			ping = c
		}
	}
	require.NotNil(t, ping)
	_, hasDeprecated := ping.Annotations.Get("deprecated")
	assert.False(t, hasDeprecated, "deprecated annotation should have been replaced during ingestion")
	desc, ok := ping.Annotations.Get("description")
	require.True(t, ok)
	assert.Equal(t, "deprecated: use greet instead", desc.(lamptypes.DescriptionAnnotation).Text)
}

func TestZapExplicitCooldownIsHonoredWithoutAnnotation(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	_, hasCooldownAnnotation := zapClass().Methods[0].Annotations.Get("cooldown")
	require.False(t, hasCooldownAnnotation)

	first := dispatchAs(t, lm, self, "zap")
	require.Equal(t, dispatch.Executed, first.Kind)

	second := dispatchAs(t, lm, self, "zap")
	assert.Equal(t, dispatch.Failed, second.Kind)
}

func TestQuestSuggestionsFollowRegistrationOrder(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	ctx := lamptypes.NewExecutionContext(self)
	got := lm.Suggest(ctx, "quest ")
	assert.Equal(t, []string{"create", "delete", "start", "clear"}, got)
}

func TestBuzzOrphanRegistersUnderRuntimePathWithSubcommand(t *testing.T) {
	dir := newDirectory()
	self := NewScriptActor("alice")
	dir.register(self)
	lm := newTestLamp(t, dir)

	out := dispatchAs(t, lm, self, "buzz")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"buzz"}, self.Replies())

	out = dispatchAs(t, lm, self, "buzz bar")
	require.Equal(t, dispatch.Executed, out.Kind)
	assert.Equal(t, []string{"buzz", "buzz bar"}, self.Replies())
}

func TestRenderHelpSupportsPlainStyledAndYAMLFormats(t *testing.T) {
	dir := newDirectory()
	lm := newTestLamp(t, dir)
	commands := lm.Commands()
	require.NotEmpty(t, commands)

	plain, err := renderHelp(commands, "plain")
	require.NoError(t, err)
	assert.Contains(t, plain, "greet")

	styled, err := renderHelp(commands, "styled")
	require.NoError(t, err)
	assert.Contains(t, styled, "greet")

	yamlOut, err := renderHelp(commands, "yaml")
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "path: greet")

	_, err = renderHelp(commands, "nonsense")
	assert.Error(t, err)
}

func TestFooDeclaresThreeSecondCooldown(t *testing.T) {
	// documents the cooldown's declared duration without sleeping three
	// seconds in the suite: fooClass must keep advertising it for the
	// CooldownHandle demo to stay meaningful.
	class := fooClass()
	cd, ok := class.Methods[0].Annotations.Get("cooldown")
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, cd.(lamptypes.CooldownAnnotation).Duration)
}
