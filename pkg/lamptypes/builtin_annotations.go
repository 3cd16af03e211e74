package lamptypes

import "time"

// The annotation kinds below are the ones the core itself interprets
// directly, independent of any embedder-supplied factory. Everything
// else (validators, conditions, custom permissions) goes through the
// registry.Bundle's factories, which match by kind string.

// CooldownAnnotation marks a method with a fixed cooldown duration,
// applied by the dispatcher after a successful return.
type CooldownAnnotation struct {
	Duration time.Duration
}

// AnnotationKind implements Annotation.
func (CooldownAnnotation) AnnotationKind() string { return "cooldown" }

// PermissionAnnotation names the permission node a PermissionFactory
// should resolve into a concrete Permission.
type PermissionAnnotation struct {
	Node string
}

// AnnotationKind implements Annotation.
func (PermissionAnnotation) AnnotationKind() string { return "permission" }

// SuggestWithAnnotation attaches an explicit SuggestionProvider to a
// parameter, overriding both the suggestion registry and the parser's
// own default suggestions.
type SuggestWithAnnotation struct {
	Provider SuggestionProvider
}

// AnnotationKind implements Annotation.
func (SuggestWithAnnotation) AnnotationKind() string { return "suggest-with" }

// DescriptionAnnotation attaches a one-line help description to a
// method, surfaced by the help introspection component.
type DescriptionAnnotation struct {
	Text string
}

// AnnotationKind implements Annotation.
func (DescriptionAnnotation) AnnotationKind() string { return "description" }

// OrphanPlaceholderAnnotation marks a method's path as unresolved until
// a register-orphan call supplies it at runtime.
type OrphanPlaceholderAnnotation struct{}

// AnnotationKind implements Annotation.
func (OrphanPlaceholderAnnotation) AnnotationKind() string { return "orphan-placeholder" }

// DeprecatedAnnotation marks a method superseded by another, still
// dispatchable but flagged for anyone browsing help. Ingestion expands
// it into a DescriptionAnnotation carrying the deprecation notice, so
// the core never needs to special-case it at dispatch time.
type DeprecatedAnnotation struct {
	Reason string
}

// AnnotationKind implements Annotation.
func (DeprecatedAnnotation) AnnotationKind() string { return "deprecated" }
