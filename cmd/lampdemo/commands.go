package main

import (
	"fmt"
	"reflect"
	"time"

	"lamp"
	"lamp/internal/ingest"
	"lamp/pkg/lamptypes"
)

var (
	actorIfaceType     = reflect.TypeOf((*lamptypes.Actor)(nil)).Elem()
	cooldownHandleType = reflect.TypeOf((*lamptypes.CooldownHandle)(nil)).Elem()
)

func actorParam(name string) ingest.ParameterDecl {
	return ingest.ParameterDecl{Name: name, Type: actorIfaceType}
}

func actorOf(ctx *lamptypes.ExecutionContext, name string) lamptypes.Actor {
	v, _ := ctx.Arg(name)
	a, _ := v.(lamptypes.Actor)
	return a
}

// registerCommands wires up the demonstration command set: one handler
// per overload-resolution, cooldown, suggestion, and orphan-path
// scenario the dispatch core needs to exercise end to end.
func registerCommands(b *lamp.Builder, dir *directory) error {
	if err := b.Register(greetClass()); err != nil {
		return err
	}
	if err := b.Register(teleportClass()); err != nil {
		return err
	}
	if err := b.Register(modeClass()); err != nil {
		return err
	}
	if err := b.Register(fooClass()); err != nil {
		return err
	}
	if err := b.Register(zapClass()); err != nil {
		return err
	}
	if err := b.Register(pingClass()); err != nil {
		return err
	}
	if err := b.Register(questClass()); err != nil {
		return err
	}
	if err := b.RegisterOrphan(buzzClass(), "buzz"); err != nil {
		return err
	}
	return nil
}

func greetClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Paths:       []string{"greet"},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "say hello, optionally to another actor"}),
		Methods: []ingest.MethodDecl{
			{
				Parameters: []ingest.ParameterDecl{actorParam("actor")},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					actorOf(ctx, "actor").Reply("Hello!")
					return nil, nil
				},
			},
			{
				Paths:      []string{"<target>"},
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "target", Type: actorRefDeclType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					self := actorOf(ctx, "actor")
					targetVal, _ := ctx.Arg("target")
					target := targetVal.(lamptypes.Actor)
					self.Reply(fmt.Sprintf("You greet %s.", target.ID()))
					target.Reply(fmt.Sprintf("%s greets you.", self.ID()))
					return nil, nil
				},
			},
		},
	}
}

func teleportClass() ingest.ClassDecl {
	coords := []ingest.ParameterDecl{{Name: "x", Type: reflect.TypeOf(0)}, {Name: "y", Type: reflect.TypeOf(0)}, {Name: "z", Type: reflect.TypeOf(0)}}
	return ingest.ClassDecl{
		Paths:       []string{"teleport"},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "move yourself or another actor"}),
		Methods: []ingest.MethodDecl{
			{
				Paths:      []string{"<x> <y> <z>"},
				Parameters: append([]ingest.ParameterDecl{actorParam("actor")}, coords...),
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					x, _ := ctx.Arg("x")
					y, _ := ctx.Arg("y")
					z, _ := ctx.Arg("z")
					actorOf(ctx, "actor").Reply(fmt.Sprintf("You teleport to (%v, %v, %v).", x, y, z))
					return nil, nil
				},
			},
			{
				Paths: []string{"<target> <x> <y> <z>"},
				Parameters: append([]ingest.ParameterDecl{
					actorParam("actor"),
					{Name: "target", Type: actorRefDeclType},
				}, coords...),
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					self := actorOf(ctx, "actor")
					targetVal, _ := ctx.Arg("target")
					target := targetVal.(lamptypes.Actor)
					x, _ := ctx.Arg("x")
					y, _ := ctx.Arg("y")
					z, _ := ctx.Arg("z")
					self.Reply(fmt.Sprintf("You teleport %s to (%v, %v, %v).", target.ID(), x, y, z))
					target.Reply(fmt.Sprintf("%s teleports you to (%v, %v, %v).", self.ID(), x, y, z))
					return nil, nil
				},
			},
			{
				Paths:      []string{"<target> here"},
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "target", Type: actorRefDeclType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					self := actorOf(ctx, "actor")
					targetVal, _ := ctx.Arg("target")
					target := targetVal.(lamptypes.Actor)
					self.Reply(fmt.Sprintf("You teleport %s to your side.", target.ID()))
					target.Reply(fmt.Sprintf("%s teleports you to their side.", self.ID()))
					return nil, nil
				},
			},
			{
				Paths:      []string{"<to>"},
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "to", Type: actorRefDeclType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					self := actorOf(ctx, "actor")
					toVal, _ := ctx.Arg("to")
					to := toVal.(lamptypes.Actor)
					self.Reply(fmt.Sprintf("You teleport to %s's location.", to.ID()))
					return nil, nil
				},
			},
		},
	}
}

// modeClass demonstrates overload ranking between an Enum-implementing
// named type and a plain int sharing the same literal path and
// parameter name: the enum binding carries PriorityHighest, so it wins
// whenever both could parse, and a rejected enum token falls through to
// the numeric sibling.
func modeClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Paths:       []string{"mode"},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "set mode by name or by numeric code"}),
		Methods: []ingest.MethodDecl{
			{
				Paths:      []string{"<value>"},
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "value", Type: modeType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					v, _ := ctx.Arg("value")
					actorOf(ctx, "actor").Reply(fmt.Sprintf("mode set to %s", v))
					return nil, nil
				},
			},
			{
				Paths:      []string{"<value>"},
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "value", Type: reflect.TypeOf(0)}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					v, _ := ctx.Arg("value")
					actorOf(ctx, "actor").Reply(fmt.Sprintf("mode set to numeric code %v", v))
					return nil, nil
				},
			},
		},
	}
}

// fooClass demonstrates a method-level cooldown: the dispatcher engages
// it automatically after a successful run, and the handler's own
// CooldownHandle parameter lets it inspect the same state.
func fooClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Paths: []string{"foo"},
		Methods: []ingest.MethodDecl{
			{
				Annotations: lamptypes.NewAnnotationList(
					lamptypes.CooldownAnnotation{Duration: 3 * time.Second},
					lamptypes.DescriptionAnnotation{Text: "runs, then cools down for 3 seconds"},
				),
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "cooldown", Type: cooldownHandleType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					handleVal, _ := ctx.Arg("cooldown")
					handle := handleVal.(lamptypes.CooldownHandle)
					actorOf(ctx, "actor").Reply(fmt.Sprintf("foo ran, next available in %s", handle.RemainingTime()+3*time.Second))
					return nil, nil
				},
			},
		},
	}
}

// zapClass carries no cooldown annotation at all: its handler puts
// itself on a one-second cooldown explicitly through the CooldownHandle
// it declared, exercising the path where the dispatcher's own
// pre-check must consult the store directly rather than a method-level
// @Cooldown spec.
func zapClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Paths: []string{"zap"},
		Methods: []ingest.MethodDecl{
			{
				Parameters: []ingest.ParameterDecl{actorParam("actor"), {Name: "cooldown", Type: cooldownHandleType}},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					handleVal, _ := ctx.Arg("cooldown")
					handle := handleVal.(lamptypes.CooldownHandle)
					handle.Cooldown(time.Second)
					actorOf(ctx, "actor").Reply("zap")
					return nil, nil
				},
			},
		},
	}
}

// pingClass is kept around as a deprecated alias for greet: the
// DeprecatedAnnotation expands into a description-facing notice during
// ingestion rather than the dispatcher having to know "deprecated" is
// a thing.
func pingClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Paths:       []string{"ping"},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DeprecatedAnnotation{Reason: "use greet instead"}),
		Methods: []ingest.MethodDecl{
			{
				Parameters: []ingest.ParameterDecl{actorParam("actor")},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					actorOf(ctx, "actor").Reply("Hello!")
					return nil, nil
				},
			},
		},
	}
}

// questClass registers its four subcommands in a fixed order so that
// tab-completion under "quest " reproduces that order rather than
// falling back to alphabetical.
func questClass() ingest.ClassDecl {
	verbs := []string{"create", "delete", "start", "clear"}
	methods := make([]ingest.MethodDecl, 0, len(verbs))
	for _, verb := range verbs {
		verb := verb
		methods = append(methods, ingest.MethodDecl{
			Paths:      []string{verb},
			Parameters: []ingest.ParameterDecl{actorParam("actor")},
			Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
				actorOf(ctx, "actor").Reply(fmt.Sprintf("quest %s", verb))
				return nil, nil
			},
		})
	}
	return ingest.ClassDecl{
		Paths:       []string{"quest"},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "manage your active quest"}),
		Methods:     methods,
	}
}

// buzzClass is an orphan class: its entry method carries no static path
// of its own, taking whatever path RegisterOrphan is called with at
// runtime, while its "bar" method keeps its own relative path and
// composes against whichever outer path the entry method is given.
func buzzClass() ingest.ClassDecl {
	return ingest.ClassDecl{
		Methods: []ingest.MethodDecl{
			{
				Annotations: lamptypes.NewAnnotationList(lamptypes.OrphanPlaceholderAnnotation{}),
				Parameters:  []ingest.ParameterDecl{actorParam("actor")},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					actorOf(ctx, "actor").Reply("buzz")
					return nil, nil
				},
			},
			{
				Paths:      []string{"bar"},
				Parameters: []ingest.ParameterDecl{actorParam("actor")},
				Handler: func(ctx *lamptypes.ExecutionContext) (interface{}, error) {
					actorOf(ctx, "actor").Reply("buzz bar")
					return nil, nil
				},
			},
		},
	}
}
