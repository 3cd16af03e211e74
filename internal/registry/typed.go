package registry

import (
	"reflect"

	"lamp/pkg/lamptypes"
)

// Each typed registry below wraps Registry[F] for one of the strategy
// factory kinds, adding the domain-specific Resolve that walks
// factories in priority order and returns the first non-absent result.
// The sentinel factory supplying framework defaults is kept out of the
// ordered entry list and tried only after every registered factory has
// declined, so it stays truly terminal regardless of how many AddLast
// entries are registered afterward.

// ParameterTypeRegistry resolves a ParameterType for a declared type and
// its annotations.
type ParameterTypeRegistry struct {
	reg      *Registry[lamptypes.ParameterTypeFactory]
	sentinel lamptypes.ParameterTypeFactory
}

// NewParameterTypeRegistry creates a registry with the given terminal
// sentinel (may be nil).
func NewParameterTypeRegistry(sentinel lamptypes.ParameterTypeFactory) *ParameterTypeRegistry {
	return &ParameterTypeRegistry{reg: New[lamptypes.ParameterTypeFactory](), sentinel: sentinel}
}

// Add registers f at high priority.
func (r *ParameterTypeRegistry) Add(f lamptypes.ParameterTypeFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ParameterTypeRegistry) AddLast(f lamptypes.ParameterTypeFactory) { r.reg.AddLast(f) }

// Resolve returns the first factory result that matches (t, anns).
func (r *ParameterTypeRegistry) Resolve(t reflect.Type, anns lamptypes.AnnotationList) (lamptypes.ParameterType, bool) {
	for _, f := range r.reg.All() {
		if pt, ok := f(t, anns); ok {
			return pt, true
		}
	}
	if r.sentinel != nil {
		return r.sentinel(t, anns)
	}
	return nil, false
}

// ContextParameterRegistry resolves a ContextParameterResolver for a
// declared type and its annotations.
type ContextParameterRegistry struct {
	reg      *Registry[lamptypes.ContextParameterFactory]
	sentinel lamptypes.ContextParameterFactory
}

// NewContextParameterRegistry creates a registry with the given
// terminal sentinel (may be nil).
func NewContextParameterRegistry(sentinel lamptypes.ContextParameterFactory) *ContextParameterRegistry {
	return &ContextParameterRegistry{reg: New[lamptypes.ContextParameterFactory](), sentinel: sentinel}
}

// Add registers f at high priority.
func (r *ContextParameterRegistry) Add(f lamptypes.ContextParameterFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ContextParameterRegistry) AddLast(f lamptypes.ContextParameterFactory) { r.reg.AddLast(f) }

// Resolve returns the first factory result that matches (t, anns).
func (r *ContextParameterRegistry) Resolve(t reflect.Type, anns lamptypes.AnnotationList) (lamptypes.ContextParameterResolver, bool) {
	for _, f := range r.reg.All() {
		if cr, ok := f(t, anns); ok {
			return cr, true
		}
	}
	if r.sentinel != nil {
		return r.sentinel(t, anns)
	}
	return nil, false
}

// SuggestionRegistry resolves a SuggestionProvider for a declared type
// and its annotations.
type SuggestionRegistry struct {
	reg      *Registry[lamptypes.SuggestionProviderFactory]
	sentinel lamptypes.SuggestionProviderFactory
}

// NewSuggestionRegistry creates a registry with the given terminal
// sentinel (may be nil).
func NewSuggestionRegistry(sentinel lamptypes.SuggestionProviderFactory) *SuggestionRegistry {
	return &SuggestionRegistry{reg: New[lamptypes.SuggestionProviderFactory](), sentinel: sentinel}
}

// Add registers f at high priority.
func (r *SuggestionRegistry) Add(f lamptypes.SuggestionProviderFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *SuggestionRegistry) AddLast(f lamptypes.SuggestionProviderFactory) { r.reg.AddLast(f) }

// Resolve returns the first factory result that matches (t, anns).
func (r *SuggestionRegistry) Resolve(t reflect.Type, anns lamptypes.AnnotationList) (lamptypes.SuggestionProvider, bool) {
	for _, f := range r.reg.All() {
		if sp, ok := f(t, anns); ok {
			return sp, true
		}
	}
	if r.sentinel != nil {
		return r.sentinel(t, anns)
	}
	return nil, false
}

// ResponseHandlerRegistry resolves a ResponseHandler for a declared
// return type and method annotations.
type ResponseHandlerRegistry struct {
	reg      *Registry[lamptypes.ResponseHandlerFactory]
	sentinel lamptypes.ResponseHandlerFactory
}

// NewResponseHandlerRegistry creates a registry with the given terminal
// sentinel (may be nil).
func NewResponseHandlerRegistry(sentinel lamptypes.ResponseHandlerFactory) *ResponseHandlerRegistry {
	return &ResponseHandlerRegistry{reg: New[lamptypes.ResponseHandlerFactory](), sentinel: sentinel}
}

// Add registers f at high priority.
func (r *ResponseHandlerRegistry) Add(f lamptypes.ResponseHandlerFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ResponseHandlerRegistry) AddLast(f lamptypes.ResponseHandlerFactory) { r.reg.AddLast(f) }

// Resolve returns the first factory result that matches (t, anns).
func (r *ResponseHandlerRegistry) Resolve(t reflect.Type, anns lamptypes.AnnotationList) (lamptypes.ResponseHandler, bool) {
	for _, f := range r.reg.All() {
		if h, ok := f(t, anns); ok {
			return h, true
		}
	}
	if r.sentinel != nil {
		return r.sentinel(t, anns)
	}
	return nil, false
}

// PermissionRegistry resolves a Permission from a permission annotation.
type PermissionRegistry struct {
	reg *Registry[lamptypes.PermissionFactory]
}

// NewPermissionRegistry creates an empty permission registry.
func NewPermissionRegistry() *PermissionRegistry {
	return &PermissionRegistry{reg: New[lamptypes.PermissionFactory]()}
}

// Add registers f at high priority.
func (r *PermissionRegistry) Add(f lamptypes.PermissionFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *PermissionRegistry) AddLast(f lamptypes.PermissionFactory) { r.reg.AddLast(f) }

// Resolve returns the first factory result that matches anns.
func (r *PermissionRegistry) Resolve(anns lamptypes.AnnotationList) (lamptypes.Permission, bool) {
	for _, f := range r.reg.All() {
		if p, ok := f(anns); ok {
			return p, true
		}
	}
	return nil, false
}

// ConditionRegistry resolves Conditions from condition annotations. All
// matching conditions apply (unlike the other registries, which select
// one factory): every factory that recognizes the annotations
// contributes one Condition.
type ConditionRegistry struct {
	reg *Registry[lamptypes.ConditionFactory]
}

// NewConditionRegistry creates an empty condition registry.
func NewConditionRegistry() *ConditionRegistry {
	return &ConditionRegistry{reg: New[lamptypes.ConditionFactory]()}
}

// Add registers f at high priority.
func (r *ConditionRegistry) Add(f lamptypes.ConditionFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ConditionRegistry) AddLast(f lamptypes.ConditionFactory) { r.reg.AddLast(f) }

// ResolveAll returns the Condition of every registered factory that
// recognizes anns, in registry order. Conditions from different
// factories are not deduplicated.
func (r *ConditionRegistry) ResolveAll(anns lamptypes.AnnotationList) []lamptypes.Condition {
	var out []lamptypes.Condition
	for _, f := range r.reg.All() {
		if c, ok := f(anns); ok {
			out = append(out, c)
		}
	}
	return out
}

// ValidatorRegistry resolves Validators for an argument's type and
// annotations. Like conditions, every matching factory contributes a
// validator to the chain.
type ValidatorRegistry struct {
	reg *Registry[lamptypes.ValidatorFactory]
}

// NewValidatorRegistry creates an empty validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{reg: New[lamptypes.ValidatorFactory]()}
}

// Add registers f at high priority.
func (r *ValidatorRegistry) Add(f lamptypes.ValidatorFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ValidatorRegistry) AddLast(f lamptypes.ValidatorFactory) { r.reg.AddLast(f) }

// ResolveAll returns every Validator produced by a registered factory
// matching (t, anns).
func (r *ValidatorRegistry) ResolveAll(t reflect.Type, anns lamptypes.AnnotationList) []lamptypes.Validator {
	var out []lamptypes.Validator
	for _, f := range r.reg.All() {
		if v, ok := f(t, anns); ok {
			out = append(out, v)
		}
	}
	return out
}

// ExceptionHandlerRegistry resolves the handler for an error that
// escaped execution, matched by kind with a fallback.
type ExceptionHandlerRegistry struct {
	reg      *Registry[lamptypes.ExceptionHandlerFactory]
	fallback lamptypes.ExceptionHandler
}

// NewExceptionHandlerRegistry creates a registry with the given
// fallback handler (used when no registered factory matches).
func NewExceptionHandlerRegistry(fallback lamptypes.ExceptionHandler) *ExceptionHandlerRegistry {
	return &ExceptionHandlerRegistry{reg: New[lamptypes.ExceptionHandlerFactory](), fallback: fallback}
}

// Add registers f at high priority.
func (r *ExceptionHandlerRegistry) Add(f lamptypes.ExceptionHandlerFactory) { r.reg.Add(f) }

// AddLast registers f at low priority.
func (r *ExceptionHandlerRegistry) AddLast(f lamptypes.ExceptionHandlerFactory) { r.reg.AddLast(f) }

// Resolve returns the handler for err: the first matching registered
// factory, or the fallback.
func (r *ExceptionHandlerRegistry) Resolve(err error) lamptypes.ExceptionHandler {
	for _, f := range r.reg.All() {
		if h, ok := f(err); ok {
			return h
		}
	}
	return r.fallback
}
