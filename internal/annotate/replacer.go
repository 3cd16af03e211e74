// Package annotate implements the annotation-replacer fix-point: each
// annotation kind with a registered replacer is substituted for its
// output annotations, repeated until no replacer fires or a bounded
// iteration cap is hit. Ingestion runs this once per declaration
// element and freezes the result.
package annotate

import "fmt"

import "lamp/pkg/lamptypes"

// ReplacerFunc maps one annotation instance to the annotations that
// substitute it. It is registered under the AnnotationKind it replaces.
type ReplacerFunc func(ann lamptypes.Annotation) ([]lamptypes.Annotation, error)

// Replacers is a lookup table from annotation kind to its replacer.
type Replacers map[string]ReplacerFunc

// DefaultMaxDepth bounds the fix-point iteration, preventing a
// misbehaving replacer chain from looping forever.
const DefaultMaxDepth = 16

// Apply repeatedly substitutes any annotation in list whose kind has a
// registered replacer, until no replacer fires (a fix point) or
// maxDepth rounds have run. A replacer whose output reintroduces the
// very kind it replaced is rejected as a cycle.
func Apply(list lamptypes.AnnotationList, replacers Replacers, maxDepth int) (lamptypes.AnnotationList, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	current := list
	for depth := 0; depth < maxDepth; depth++ {
		changed := false
		next := current
		for _, ann := range current.All() {
			kind := ann.AnnotationKind()
			fn, ok := replacers[kind]
			if !ok {
				continue
			}
			subs, err := fn(ann)
			if err != nil {
				return lamptypes.AnnotationList{}, fmt.Errorf("annotation replacer for %q: %w", kind, err)
			}
			next = next.Without(kind)
			for _, s := range subs {
				if s.AnnotationKind() == kind {
					return lamptypes.AnnotationList{}, fmt.Errorf("annotation replacer for %q reintroduced its own kind", kind)
				}
				next = next.With(s)
			}
			changed = true
		}
		current = next
		if !changed {
			return current, nil
		}
	}
	return lamptypes.AnnotationList{}, fmt.Errorf("annotation replacement did not reach a fix point within %d rounds", maxDepth)
}
