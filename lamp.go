// Package lamp is the public entry point of the command dispatch core:
// Builder accumulates parameter types, context resolvers, permissions,
// conditions, validators, response/exception handlers, and command
// declarations; Build freezes that into a Lamp ready to dispatch raw
// input lines. Multiple independent Lamps can coexist in one process.
package lamp

import (
	"github.com/charmbracelet/log"

	"lamp/internal/cooldown"
	"lamp/internal/dispatch"
	"lamp/internal/help"
	"lamp/internal/hooks"
	"lamp/internal/ingest"
	"lamp/internal/orphan"
	"lamp/internal/paramtype"
	"lamp/internal/registry"
	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

// Builder accumulates registrations before Build freezes them into a
// Lamp. The zero value is not usable; construct with New.
type Builder struct {
	bundle            *registry.Bundle
	hooks             *hooks.Registry
	tree              *tree.Tree
	cooldowns         *cooldown.Store
	logger            *log.Logger
	maxFailedAttempts int
}

// New creates a Builder with the built-in parameter types and the
// actor/cooldown-handle context parameters pre-registered.
func New() *Builder {
	cooldowns := cooldown.New()
	bundle := &registry.Bundle{
		ParameterTypes:    registry.NewParameterTypeRegistry(paramtype.DefaultFactory),
		ContextParameters: registry.NewContextParameterRegistry(nil),
		Suggestions:       registry.NewSuggestionRegistry(nil),
		ResponseHandlers:  registry.NewResponseHandlerRegistry(nil),
		Permissions:       registry.NewPermissionRegistry(),
		Conditions:        registry.NewConditionRegistry(),
		Validators:        registry.NewValidatorRegistry(),
		ExceptionHandlers: registry.NewExceptionHandlerRegistry(nil),
	}
	bundle.ContextParameters.Add(lamptypes.ActorContextFactory)
	bundle.ContextParameters.Add(cooldown.ContextFactory(cooldowns))

	return &Builder{
		bundle:    bundle,
		hooks:     hooks.New(),
		tree:      tree.New(),
		cooldowns: cooldowns,
	}
}

// ParameterTypes exposes the registry for registering additional
// ParameterTypeFactorys before Build.
func (b *Builder) ParameterTypes() *registry.ParameterTypeRegistry { return b.bundle.ParameterTypes }

// ContextParameters exposes the registry for registering additional
// ContextParameterFactorys before Build.
func (b *Builder) ContextParameters() *registry.ContextParameterRegistry {
	return b.bundle.ContextParameters
}

// Suggestions exposes the registry for registering additional
// SuggestionProviderFactorys before Build.
func (b *Builder) Suggestions() *registry.SuggestionRegistry { return b.bundle.Suggestions }

// ResponseHandlers exposes the registry for registering additional
// ResponseHandlerFactorys before Build.
func (b *Builder) ResponseHandlers() *registry.ResponseHandlerRegistry {
	return b.bundle.ResponseHandlers
}

// Permissions exposes the registry for registering PermissionFactorys
// before Build.
func (b *Builder) Permissions() *registry.PermissionRegistry { return b.bundle.Permissions }

// Conditions exposes the registry for registering ConditionFactorys
// before Build.
func (b *Builder) Conditions() *registry.ConditionRegistry { return b.bundle.Conditions }

// Validators exposes the registry for registering ValidatorFactorys
// before Build.
func (b *Builder) Validators() *registry.ValidatorRegistry { return b.bundle.Validators }

// ExceptionHandlers exposes the registry for registering
// ExceptionHandlerFactorys before Build.
func (b *Builder) ExceptionHandlers() *registry.ExceptionHandlerRegistry {
	return b.bundle.ExceptionHandlers
}

// Hooks exposes the hook registry for registering callbacks before or
// after Build; hooks fire for registrations made through this Builder
// as well as for the built Lamp's dispatch calls.
func (b *Builder) Hooks() *hooks.Registry { return b.hooks }

// WithLogger sets the logger the built Lamp's dispatcher uses. Omit to
// use log.Default().
func (b *Builder) WithLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// WithMaxFailedAttempts bounds how many failing candidate branches the
// built Lamp's dispatcher explores before giving up on an ambiguous
// input line. n <= 0 leaves the dispatcher's default in place.
func (b *Builder) WithMaxFailedAttempts(n int) *Builder {
	b.maxFailedAttempts = n
	return b
}

// Register ingests class into the command tree, firing on-registered
// hooks for each resulting leaf. A hook cancellation drops that one
// leaf without failing the whole registration.
func (b *Builder) Register(class ingest.ClassDecl) error {
	cmds, err := ingest.Ingest(class, b.bundle)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		cancel := b.hooks.FireOnRegistered(cmd)
		if cancel.WasCancelled() {
			continue
		}
		if err := b.tree.Insert(cmd); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOrphan ingests class, whose outer path is not yet known: one
// of its methods (the entry point) must carry the orphan placeholder
// annotation instead of a static path. runtimePaths becomes class's
// outer path; every other method (ordinary subcommands) keeps its own
// relative path unchanged.
func (b *Builder) RegisterOrphan(class ingest.ClassDecl, runtimePaths ...string) error {
	resolved, err := orphan.Resolve(class, runtimePaths...)
	if err != nil {
		return err
	}
	return b.Register(resolved)
}

// Build freezes the accumulated registrations into a Lamp.
func (b *Builder) Build() *Lamp {
	dispatcher := dispatch.New(b.tree, b.bundle, b.hooks, b.cooldowns, b.logger)
	dispatcher.SetMaxFailedAttempts(b.maxFailedAttempts)
	return &Lamp{
		tree:       b.tree,
		bundle:     b.bundle,
		hooks:      b.hooks,
		cooldowns:  b.cooldowns,
		dispatcher: dispatcher,
	}
}

// Lamp dispatches raw input against the commands registered on the
// Builder that built it.
type Lamp struct {
	tree       *tree.Tree
	bundle     *registry.Bundle
	hooks      *hooks.Registry
	cooldowns  *cooldown.Store
	dispatcher *dispatch.Dispatcher
}

// Dispatch runs raw against the command tree for ctx's actor.
func (l *Lamp) Dispatch(ctx *lamptypes.ExecutionContext, raw string) (*dispatch.Outcome, error) {
	return l.dispatcher.Dispatch(ctx, raw)
}

// Suggest returns completion candidates for a partial input line.
func (l *Lamp) Suggest(ctx *lamptypes.ExecutionContext, raw string) []string {
	return l.dispatcher.Suggest(ctx, raw)
}

// Unregister removes cmd from the command tree, firing on-unregistered
// hooks first; a cancellation leaves cmd registered.
func (l *Lamp) Unregister(cmd *tree.ExecutableCommand) {
	cancel := l.hooks.FireOnUnregistered(cmd)
	if cancel.WasCancelled() {
		return
	}
	l.tree.Remove(cmd)
}

// Commands returns every registered command, in deterministic tree
// traversal order.
func (l *Lamp) Commands() []*tree.ExecutableCommand {
	return l.tree.AllCommands()
}

// Children returns c's strict path-prefix descendants.
func (l *Lamp) Children(c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	return help.Children(l.Commands(), c)
}

// Siblings returns the commands sharing c's parent path.
func (l *Lamp) Siblings(c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	return help.Siblings(l.Commands(), c)
}

// Related returns the union of Children and Siblings for c.
func (l *Lamp) Related(c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	return help.Related(l.Commands(), c)
}

// Hooks exposes the hook registry so a caller can register callbacks
// after Build.
func (l *Lamp) Hooks() *hooks.Registry { return l.hooks }
