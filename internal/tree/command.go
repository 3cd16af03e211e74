// Package tree implements the command tree: a trie of literal and
// typed-parameter nodes built from handler declarations, storing
// ExecutableCommand leaves, permissions, and priorities, with
// insertion, conflict detection, and path iteration.
package tree

import (
	"strings"
	"time"

	"lamp/pkg/lamptypes"
)

// HandlerFunc is the uniform, actor-type-erased invocation signature:
// argument marshalling happens before the call, so every
// ExecutableCommand, regardless of which concrete actor type its
// declaration was written against, is stored and invoked the same way.
type HandlerFunc func(ctx *lamptypes.ExecutionContext) (interface{}, error)

// ParamBinding is one entry of an ExecutableCommand's ordered parameter
// list: either a value-consuming parameter with a resolved
// ParameterType and SuggestionProvider, or a context parameter resolved
// without reading input.
type ParamBinding struct {
	Descriptor lamptypes.ParameterDescriptor
	IsContext  bool
	Parser     lamptypes.ParameterType
	Suggest    lamptypes.SuggestionProvider
	Resolver   lamptypes.ContextParameterResolver
}

// CooldownSpec describes the cooldown duration a method declared via
// annotation, if any.
type CooldownSpec struct {
	Duration time.Duration
	Bound    bool
}

// EffectiveSegment is one step of the path the tree is actually built
// from: the declared literal/placeholder segments of the command path,
// followed by a synthetic placeholder segment for every declared
// parameter that the path did not name, in declaration order. Placing
// the unlisted parameters into the walk directly means dispatch never
// special-cases trailing parameters.
type EffectiveSegment struct {
	IsLiteral  bool
	Literal    string
	Binding    *ParamBinding
	Priority   lamptypes.PrioritySpec
	Permission lamptypes.Permission
}

// ExecutableCommand is a leaf in the command tree binding a full path to
// one handler.
type ExecutableCommand struct {
	ID              string
	Path            lamptypes.CommandPath
	Effective       []EffectiveSegment
	Handler         HandlerFunc
	Positional      []*ParamBinding // placeholders-in-path-order, then unlisted, excluding context params
	AllParameters   []*ParamBinding // full declared order including context params, for invocation marshalling
	Permission      lamptypes.Permission
	Conditions      []lamptypes.Condition
	Validators      map[string][]lamptypes.Validator
	Annotations     lamptypes.AnnotationList
	ResponseHandler lamptypes.ResponseHandler
	Cooldown        *CooldownSpec
	Aliases         []string
	RegisteredAt    int
}

// Signature renders the raw-type sequence of the positional parameters,
// used to detect two leaves sharing a full path with identical
// parameter types.
func (c *ExecutableCommand) Signature() string {
	parts := make([]string, 0, len(c.Positional))
	for _, p := range c.Positional {
		if p.Descriptor.Type == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, p.Descriptor.Type.String())
	}
	return strings.Join(parts, ",")
}

// signatureEquals reports whether c and other share the same full path
// and identical positional-parameter raw-type sequence.
func (c *ExecutableCommand) signatureEquals(other *ExecutableCommand) bool {
	return c.Signature() == other.Signature()
}

