package main

import (
	"reflect"

	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

// ActorRef is the declared parameter type for commands that address a
// second party by name (greet <target>, teleport <target> ...). It is
// a distinct named type from lamptypes.Actor itself so that resolution
// reaches actorRefFactory instead of being claimed as the implicit
// first-party actor context parameter.
type ActorRef string

var actorRefDeclType = reflect.TypeOf(ActorRef(""))

// actorRefType resolves a token naming another known actor. Unlike a
// context parameter, this is a value-consuming parameter: it reads one
// token and fails with lamperr.InvalidValue if no such actor is
// registered.
type actorRefType struct {
	dir *directory
}

func (t *actorRefType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	tok, err := s.ReadUnquotedString()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, lamperr.ExpectedInput("target")
	}
	actor, ok := t.dir.lookup(tok)
	if !ok {
		return nil, lamperr.InvalidValue("target", tok, "no such actor")
	}
	return actor, nil
}

func (t *actorRefType) DefaultSuggestions() lamptypes.SuggestionProvider { return actorSuggestions{t.dir} }
func (t *actorRefType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

type actorSuggestions struct{ dir *directory }

func (s actorSuggestions) Suggestions(_ *lamptypes.ExecutionContext, partial string) []string {
	s.dir.mu.RLock()
	defer s.dir.mu.RUnlock()
	var out []string
	for name := range s.dir.actors {
		if len(partial) == 0 || (len(name) >= len(partial) && name[:len(partial)] == partial) {
			out = append(out, name)
		}
	}
	return out
}

// actorRefFactory produces actorRefType for parameters declared as
// ActorRef.
func actorRefFactory(dir *directory) lamptypes.ParameterTypeFactory {
	return func(t reflect.Type, _ lamptypes.AnnotationList) (lamptypes.ParameterType, bool) {
		if t != actorRefDeclType {
			return nil, false
		}
		return &actorRefType{dir: dir}, true
	}
}

// mode is the enum parameter type exercised by the priority/enum
// demonstration command: it implements paramtype.Enum, so it resolves
// to a highest-priority ParameterType with no explicit factory
// registration.
type mode string

const (
	modeFast mode = "fast"
	modeSlow mode = "slow"
)

func (mode) EnumValues() []string { return []string{"fast", "slow"} }

func (mode) EnumParse(token string) (interface{}, bool) {
	switch token {
	case "FAST", "fast", "Fast":
		return modeFast, true
	case "SLOW", "slow", "Slow":
		return modeSlow, true
	default:
		return nil, false
	}
}

var modeType = reflect.TypeOf(mode(""))
