// Package lamptypes defines the contracts shared across the dispatch
// core: the actor interface, annotation model, parameter descriptors,
// command paths, and the factory/strategy interfaces that the registries
// in internal/registry index by type and annotation. Everything here is
// a pure data structure or interface; no package under internal/ is
// imported from here, so lamptypes stays the leaf of the dependency
// graph and is safe for an embedder to depend on directly.
package lamptypes

import "reflect"

// Actor is the acting principal that submitted a raw input line. The
// core treats actors as opaque beyond identity (used for cooldown and
// hook keying) and a reply/error sink; concrete actor types (a console
// session, a chat user, a script runner) are supplied by the embedder.
type Actor interface {
	// ID returns a stable identity token used for equality, hashing, and
	// cooldown keying. Two Actor values with the same ID are treated as
	// the same principal.
	ID() string
	// Reply sends a normal response back to the actor.
	Reply(message string)
	// Error sends an error response back to the actor.
	Error(message string)
}

var actorType = reflect.TypeOf((*Actor)(nil)).Elem()

type actorResolver struct{}

func (actorResolver) Resolve(ctx *ExecutionContext) (interface{}, error) {
	return ctx.Actor, nil
}

// ActorContextFactory is the built-in ContextParameterFactory recognizing
// a parameter declared as the Actor interface itself, the implicit
// first-positional context parameter every ExecutableCommand is entitled
// to declare.
func ActorContextFactory(t reflect.Type, _ AnnotationList) (ContextParameterResolver, bool) {
	if t != actorType {
		return nil, false
	}
	return actorResolver{}, true
}
