package lamptypes

import "reflect"

// DefaultValue describes a parameter-default indicator: either a
// language-level default supplied by the embedder's declaration source,
// or an explicit textual default to be parsed the same way a user
// argument would be.
type DefaultValue struct {
	// Raw is the textual default, parsed by the resolved ParameterType
	// exactly as if the actor had typed it.
	Raw string
	// IsSet is false when the parameter has no default at all (distinct
	// from an empty-string default).
	IsSet bool
}

// ParameterDescriptor describes one parameter of a handler: its name,
// declared type, attached annotations, default value, and whether it is
// optional. Names are required for placeholder resolution against a
// command path.
type ParameterDescriptor struct {
	Name        string
	Type        reflect.Type
	Annotations AnnotationList
	Default     DefaultValue
	Optional    bool
}

// PrioritySpec ranks how strongly a ParameterType should be preferred
// when resolving overloads for the same input token. Higher values win.
type PrioritySpec int

// Priority classes for overload ranking.
const (
	PriorityLowest  PrioritySpec = -1
	PriorityDefault PrioritySpec = 0
	PriorityHighest PrioritySpec = 1
)

// ParameterType parses one argument from a token stream into a typed
// value for execution context ctx. DefaultSuggestions supplies the
// completion strategy used when no explicit @SuggestWith / registry
// entry overrides it. ParsePriority reports this type's priority class
// for overload ranking.
type ParameterType interface {
	Parse(ctx *ExecutionContext, s StreamReader) (interface{}, error)
	DefaultSuggestions() SuggestionProvider
	ParsePriority() PrioritySpec
}

// ParameterTypeFactory produces a ParameterType for a declared parameter
// type and its annotations, or reports ok=false if it does not handle
// that combination. Registered factories are tried in registry order
// until one returns ok=true.
type ParameterTypeFactory func(t reflect.Type, anns AnnotationList) (pt ParameterType, ok bool)

// SuggestionProvider produces candidate completions for a partial
// argument. It must not mutate the stream; the suggestion engine always
// calls it with a read-only view of the remaining input.
type SuggestionProvider interface {
	Suggestions(ctx *ExecutionContext, partial string) []string
}

// SuggestionProviderFactory produces a SuggestionProvider for a declared
// type and its annotations, analogous to ParameterTypeFactory.
type SuggestionProviderFactory func(t reflect.Type, anns AnnotationList) (sp SuggestionProvider, ok bool)

// ContextParameterResolver supplies a value derived without reading
// input, such as the actor itself or a cooldown handle.
type ContextParameterResolver interface {
	Resolve(ctx *ExecutionContext) (interface{}, error)
}

// ContextParameterFactory produces a ContextParameterResolver for a
// declared type and its annotations, or ok=false if the factory does not
// recognize that combination as a context parameter.
type ContextParameterFactory func(t reflect.Type, anns AnnotationList) (r ContextParameterResolver, ok bool)

// Permission is a resolved permission check attached to an executable
// command.
type Permission interface {
	// Test reports whether ctx's actor holds this permission.
	Test(ctx *ExecutionContext) bool
	// Describe renders the permission node for NoPermission errors.
	Describe() string
}

// PermissionFactory produces a Permission from a permission annotation,
// or ok=false if it does not recognize the annotation's kind.
type PermissionFactory func(anns AnnotationList) (p Permission, ok bool)

// Condition is a precondition evaluated before permission/validator
// checks on every dispatch of the owning command. A non-nil error from
// Test aborts the dispatch.
type Condition interface {
	Test(ctx *ExecutionContext) error
}

// ConditionFactory produces a Condition from a condition annotation.
type ConditionFactory func(anns AnnotationList) (c Condition, ok bool)

// Validator checks one already-parsed argument value.
type Validator interface {
	Validate(ctx *ExecutionContext, name string, value interface{}) error
}

// ValidatorFactory produces a Validator for a declared type and its
// annotations.
type ValidatorFactory func(t reflect.Type, anns AnnotationList) (v Validator, ok bool)

// ResponseHandler post-processes a handler's return value (and any error
// it returned) after invocation, typically replying to the actor.
type ResponseHandler interface {
	Handle(ctx *ExecutionContext, value interface{}, err error) error
}

// ResponseHandlerFactory produces a ResponseHandler for a declared
// return type and method annotations.
type ResponseHandlerFactory func(t reflect.Type, anns AnnotationList) (h ResponseHandler, ok bool)

// ExceptionHandler renders or otherwise disposes of an error that
// escaped handler execution.
type ExceptionHandler interface {
	Handle(ctx *ExecutionContext, err error)
}

// ExceptionHandlerFactory produces an ExceptionHandler for the dynamic
// type of err, or ok=false if this factory does not match it.
type ExceptionHandlerFactory func(err error) (h ExceptionHandler, ok bool)
