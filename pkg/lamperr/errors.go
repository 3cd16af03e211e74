// Package lamperr defines the structured error taxonomy raised by the
// dispatch core. Every error here carries the fields needed to render a
// message without string parsing, and every error implements Go's error
// interface so embedders can use errors.As/errors.Is against the taxonomy.
package lamperr

import "fmt"

// Kind identifies one member of the dispatch core's error taxonomy. It
// is used for failure-ranking weight comparisons and for dispatching to
// exception handlers by kind.
type Kind string

// Error kind constants, one per distinguishable failure the dispatch
// core can raise.
const (
	KindUnknownCommand        Kind = "unknown_command"
	KindMissingArgument       Kind = "missing_argument"
	KindInvalidValue          Kind = "invalid_value"
	KindInvalidNumber         Kind = "invalid_number"
	KindNumberOutOfRange      Kind = "number_out_of_range"
	KindInvalidEnum           Kind = "invalid_enum"
	KindNoPermission          Kind = "no_permission"
	KindOnCooldown            Kind = "on_cooldown"
	KindExtraArguments        Kind = "extra_arguments"
	KindDuplicateCommand      Kind = "duplicate_command"
	KindMalformedPath         Kind = "malformed_path"
	KindUnresolvedPlaceholder Kind = "unresolved_placeholder"
	KindCommandError          Kind = "command_error"
	KindUnboundCooldown       Kind = "unbound_cooldown"
	KindExpectedInput         Kind = "expected_input"
)

// failureWeight ranks failure kinds for the default failure-reporting
// strategy: NoPermission > InvalidValue > MissingArgument >
// UnknownCommand. Kinds outside that core ranking are slotted alongside
// the closest kind they specialize.
var failureWeight = map[Kind]int{
	KindNoPermission:          4,
	KindOnCooldown:            4,
	KindInvalidValue:          3,
	KindInvalidNumber:         3,
	KindNumberOutOfRange:      3,
	KindInvalidEnum:           3,
	KindExtraArguments:        3,
	KindCommandError:          3,
	KindMissingArgument:       2,
	KindExpectedInput:         2,
	KindUnknownCommand:        1,
	KindDuplicateCommand:      0,
	KindMalformedPath:         0,
	KindUnresolvedPlaceholder: 0,
	KindUnboundCooldown:       0,
}

// Weight returns the failure-ranking weight for k. Higher weight wins
// ties in the dispatcher's default failure strategy.
func Weight(k Kind) int {
	return failureWeight[k]
}

// DispatchError is the common shape of every structured error raised by
// the dispatch core.
type DispatchError struct {
	Kind Kind
	// Parameter is the parameter name involved, when applicable.
	Parameter string
	// Type is the declared parameter type name, when applicable.
	Type string
	// Token is the raw input token that failed to parse, when applicable.
	Token string
	// Reason is a short human-readable explanation of the failure.
	Reason string
	// Path is the command path involved, for build-time errors.
	Path string
	// Required is the permission node that was missing, when applicable.
	Required string
	// Remaining is the remaining cooldown duration, rendered as text.
	Remaining string
	// Allowed is the set of accepted tokens, for enum rejections.
	Allowed []string
	// Surplus holds the tokens left over past a matched leaf.
	Surplus []string
	// Message is the free-form text for CommandError.
	Message string
	// wrapped is the underlying cause, if any, for errors.Unwrap.
	wrapped error
}

// Error implements the error interface with a message assembled from the
// structured fields, so default rendering never needs ad-hoc string
// parsing to recover the fields.
func (e *DispatchError) Error() string {
	switch e.Kind {
	case KindUnknownCommand:
		return fmt.Sprintf("unknown command: %s", e.Token)
	case KindMissingArgument:
		return fmt.Sprintf("missing argument %q (%s)", e.Parameter, e.Type)
	case KindInvalidValue:
		return fmt.Sprintf("invalid value %q for %q: %s", e.Token, e.Parameter, e.Reason)
	case KindInvalidNumber:
		return fmt.Sprintf("invalid number %q for %q", e.Token, e.Parameter)
	case KindNumberOutOfRange:
		return fmt.Sprintf("number %q out of range for %q", e.Token, e.Parameter)
	case KindInvalidEnum:
		return fmt.Sprintf("%q is not one of %v", e.Token, e.Allowed)
	case KindNoPermission:
		return fmt.Sprintf("missing permission: %s", e.Required)
	case KindOnCooldown:
		return fmt.Sprintf("on cooldown, %s remaining", e.Remaining)
	case KindExtraArguments:
		return fmt.Sprintf("extra arguments: %v", e.Surplus)
	case KindDuplicateCommand:
		return fmt.Sprintf("duplicate command: %s", e.Path)
	case KindMalformedPath:
		return fmt.Sprintf("malformed path %q: %s", e.Path, e.Reason)
	case KindUnresolvedPlaceholder:
		return fmt.Sprintf("unresolved placeholder <%s> in path %q", e.Parameter, e.Path)
	case KindCommandError:
		return e.Message
	case KindUnboundCooldown:
		return "no-arg cooldown() called without a bound duration"
	case KindExpectedInput:
		return fmt.Sprintf("expected input for %q", e.Parameter)
	default:
		return e.Reason
	}
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As chains.
func (e *DispatchError) Unwrap() error {
	return e.wrapped
}

// Wrap attaches a cause to e and returns e, for fluent construction.
func (e *DispatchError) Wrap(cause error) *DispatchError {
	e.wrapped = cause
	return e
}

// Constructors below build the common error shapes used by the stream,
// parameter, tree, and dispatch packages.

// ExpectedInput reports that a read was attempted past the end of input.
func ExpectedInput(parameter string) *DispatchError {
	return &DispatchError{Kind: KindExpectedInput, Parameter: parameter}
}

// UnknownCommand reports that no literal matched at the tree root.
func UnknownCommand(token string) *DispatchError {
	return &DispatchError{Kind: KindUnknownCommand, Token: token}
}

// MissingArgument reports that the stream was empty where a non-optional
// parse expected input.
func MissingArgument(parameter, typ string) *DispatchError {
	return &DispatchError{Kind: KindMissingArgument, Parameter: parameter, Type: typ}
}

// InvalidValue reports that a parser rejected a token.
func InvalidValue(parameter, token, reason string) *DispatchError {
	return &DispatchError{Kind: KindInvalidValue, Parameter: parameter, Token: token, Reason: reason}
}

// InvalidNumber specializes InvalidValue for unparsable numeric literals.
func InvalidNumber(parameter, token string) *DispatchError {
	return &DispatchError{Kind: KindInvalidNumber, Parameter: parameter, Token: token}
}

// NumberOutOfRange specializes InvalidValue for numeric overflow.
func NumberOutOfRange(parameter, token string) *DispatchError {
	return &DispatchError{Kind: KindNumberOutOfRange, Parameter: parameter, Token: token}
}

// InvalidEnum reports an enum-factory rejection.
func InvalidEnum(token string, allowed []string) *DispatchError {
	return &DispatchError{Kind: KindInvalidEnum, Token: token, Allowed: allowed}
}

// NoPermission reports a failed permission check.
func NoPermission(required string) *DispatchError {
	return &DispatchError{Kind: KindNoPermission, Required: required}
}

// OnCooldown reports that the actor is still cooling down.
func OnCooldown(remaining string) *DispatchError {
	return &DispatchError{Kind: KindOnCooldown, Remaining: remaining}
}

// ExtraArguments reports input left over past the matched leaf.
func ExtraArguments(surplus []string) *DispatchError {
	return &DispatchError{Kind: KindExtraArguments, Surplus: surplus}
}

// DuplicateCommand is a build-time error for two leaves sharing a path
// and identical parameter-type sequence.
func DuplicateCommand(path string) *DispatchError {
	return &DispatchError{Kind: KindDuplicateCommand, Path: path}
}

// MalformedPath is a build-time error for a syntactically invalid path.
func MalformedPath(path, reason string) *DispatchError {
	return &DispatchError{Kind: KindMalformedPath, Path: path, Reason: reason}
}

// UnresolvedPlaceholder is a build-time error for a placeholder with no
// matching declared parameter.
func UnresolvedPlaceholder(path, name string) *DispatchError {
	return &DispatchError{Kind: KindUnresolvedPlaceholder, Path: path, Parameter: name}
}

// CommandErrorf builds a generic handler-raised error carrying an
// arbitrary formatted message.
func CommandErrorf(format string, args ...interface{}) *DispatchError {
	return &DispatchError{Kind: KindCommandError, Message: fmt.Sprintf(format, args...)}
}

// UnboundCooldown reports misuse of the no-arg cooldown() call.
func UnboundCooldown() *DispatchError {
	return &DispatchError{Kind: KindUnboundCooldown}
}
