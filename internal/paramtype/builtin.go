// Package paramtype supplies the built-in ParameterType implementations
// that ship with the framework: the primitive scalar types plus an
// Enum contract an embedder's own named types can implement to get
// highest-priority enum parsing for free, letting a type opt into
// framework behavior by satisfying a small interface rather than
// through reflection tricks or registration boilerplate.
package paramtype

import (
	"reflect"
	"strings"

	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

type noSuggestions struct{}

func (noSuggestions) Suggestions(*lamptypes.ExecutionContext, string) []string { return nil }

var none = noSuggestions{}

// stringType reads a quoted-aware token.
type stringType struct{}

func (stringType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	tok, err := s.ReadString()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, lamperr.ExpectedInput("string")
	}
	return tok, nil
}
func (stringType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (stringType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// String is the default ParameterType for string parameters.
var String lamptypes.ParameterType = stringType{}

// wordType reads a single whitespace-delimited token with no quote
// handling; quote characters stay part of the token.
type wordType struct{}

func (wordType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	tok, err := s.ReadUnquotedString()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, lamperr.ExpectedInput("word")
	}
	return tok, nil
}
func (wordType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (wordType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Word is a ParameterType for a single unquoted token.
var Word lamptypes.ParameterType = wordType{}

// greedyStringType consumes the rest of the line verbatim, used for
// trailing free-text message parameters.
type greedyStringType struct{}

func (greedyStringType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	s.SkipWhitespace()
	rest := s.ReadRemaining()
	if rest == "" {
		return nil, lamperr.ExpectedInput("text")
	}
	return rest, nil
}
func (greedyStringType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (greedyStringType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityLowest }

// GreedyString is a ParameterType that consumes the remainder of input.
var GreedyString lamptypes.ParameterType = greedyStringType{}

type intType struct{}

func (intType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	return s.ReadInt()
}
func (intType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (intType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Int is the ParameterType for int parameters.
var Int lamptypes.ParameterType = intType{}

type longType struct{}

func (longType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	return s.ReadLong()
}
func (longType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (longType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Long is the ParameterType for int64 parameters.
var Long lamptypes.ParameterType = longType{}

type doubleType struct{}

func (doubleType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	return s.ReadDouble()
}
func (doubleType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (doubleType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Double is the ParameterType for float64 parameters.
var Double lamptypes.ParameterType = doubleType{}

type floatType struct{}

func (floatType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	return s.ReadFloat()
}
func (floatType) DefaultSuggestions() lamptypes.SuggestionProvider { return none }
func (floatType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Float is the ParameterType for float32 parameters.
var Float lamptypes.ParameterType = floatType{}

type boolType struct{}

var boolSuggestions = staticSuggestions{"true", "false"}

func (boolType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	return s.ReadBoolean()
}
func (boolType) DefaultSuggestions() lamptypes.SuggestionProvider { return boolSuggestions }
func (boolType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityDefault }

// Bool is the ParameterType for bool parameters.
var Bool lamptypes.ParameterType = boolType{}

type staticSuggestions []string

func (s staticSuggestions) Suggestions(_ *lamptypes.ExecutionContext, partial string) []string {
	var out []string
	for _, v := range s {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(partial)) {
			out = append(out, v)
		}
	}
	return out
}

// Enum is the contract a named Go type implements to become a
// highest-priority enum ParameterType automatically, without any
// explicit factory registration. EnumValues lists the accepted tokens
// (for error reporting and suggestions); EnumParse matches a raw token
// case-insensitively and returns the concrete typed value.
type Enum interface {
	EnumValues() []string
	EnumParse(token string) (interface{}, bool)
}

type enumType struct {
	values []string
	parse  func(string) (interface{}, bool)
}

func (e *enumType) Parse(_ *lamptypes.ExecutionContext, s lamptypes.StreamReader) (interface{}, error) {
	start := s.Position()
	tok, err := s.ReadUnquotedString()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, lamperr.ExpectedInput("enum")
	}
	v, ok := e.parse(tok)
	if !ok {
		s.SetPosition(start)
		return nil, lamperr.InvalidEnum(tok, e.values)
	}
	return v, nil
}
func (e *enumType) DefaultSuggestions() lamptypes.SuggestionProvider { return staticSuggestions(e.values) }
func (e *enumType) ParsePriority() lamptypes.PrioritySpec            { return lamptypes.PriorityHighest }

// EnumTypeFactory is a ParameterTypeFactory that recognizes any declared
// type whose zero value implements Enum.
func EnumTypeFactory(t reflect.Type, _ lamptypes.AnnotationList) (lamptypes.ParameterType, bool) {
	if t == nil {
		return nil, false
	}
	zero := reflect.Zero(t)
	e, ok := zero.Interface().(Enum)
	if !ok {
		return nil, false
	}
	return &enumType{values: e.EnumValues(), parse: e.EnumParse}, true
}

// DefaultFactory is the terminal sentinel registered into the parameter
// type registry by lamp.Builder, reached only once every registered
// factory has declined. It first tries EnumTypeFactory, then maps Go's
// primitive kinds to the built-in types above.
func DefaultFactory(t reflect.Type, anns lamptypes.AnnotationList) (lamptypes.ParameterType, bool) {
	if pt, ok := EnumTypeFactory(t, anns); ok {
		return pt, true
	}
	if t == nil {
		return nil, false
	}
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Int, reflect.Int32:
		return Int, true
	case reflect.Int64:
		return Long, true
	case reflect.Float64:
		return Double, true
	case reflect.Float32:
		return Float, true
	case reflect.Bool:
		return Bool, true
	default:
		return nil, false
	}
}
