package lamptypes

// Annotation is one piece of typed metadata attached to a method,
// parameter, or class. Kind identifies the annotation's family (e.g.
// "permission", "optional", "suggest-with") and is used as the map key
// in AnnotationList, so a given kind appears at most once per element.
type Annotation interface {
	AnnotationKind() string
}

// AnnotationList is an ordered, immutable collection of annotations
// keyed by kind. Values are never mutated in place; every addition
// returns a new list.
type AnnotationList struct {
	order []string
	byKind map[string]Annotation
}

// NewAnnotationList builds a list from a sequence of annotations. If two
// annotations share a kind, the later one wins, matching how a replacer
// pass overwrites an original annotation with its replacement.
func NewAnnotationList(anns ...Annotation) AnnotationList {
	l := AnnotationList{byKind: make(map[string]Annotation, len(anns))}
	for _, a := range anns {
		l = l.With(a)
	}
	return l
}

// With returns a new list with a added (or replacing the existing
// annotation of the same kind, keeping its original position).
func (l AnnotationList) With(a Annotation) AnnotationList {
	kind := a.AnnotationKind()
	byKind := make(map[string]Annotation, len(l.byKind)+1)
	for k, v := range l.byKind {
		byKind[k] = v
	}
	_, existed := byKind[kind]
	byKind[kind] = a
	order := l.order
	if !existed {
		order = make([]string, len(l.order), len(l.order)+1)
		copy(order, l.order)
		order = append(order, kind)
	}
	return AnnotationList{order: order, byKind: byKind}
}

// Without returns a new list with the annotation of the given kind
// removed, if present.
func (l AnnotationList) Without(kind string) AnnotationList {
	if _, ok := l.byKind[kind]; !ok {
		return l
	}
	byKind := make(map[string]Annotation, len(l.byKind))
	order := make([]string, 0, len(l.order))
	for _, k := range l.order {
		if k == kind {
			continue
		}
		byKind[k] = l.byKind[k]
		order = append(order, k)
	}
	return AnnotationList{order: order, byKind: byKind}
}

// Get returns the annotation of the given kind, if present.
func (l AnnotationList) Get(kind string) (Annotation, bool) {
	a, ok := l.byKind[kind]
	return a, ok
}

// Has reports whether an annotation of the given kind is present.
func (l AnnotationList) Has(kind string) bool {
	_, ok := l.byKind[kind]
	return ok
}

// All returns the annotations in insertion order. The returned slice is
// a fresh copy and safe to mutate.
func (l AnnotationList) All() []Annotation {
	out := make([]Annotation, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, l.byKind[k])
	}
	return out
}

// Len returns the number of distinct annotation kinds in the list.
func (l AnnotationList) Len() int {
	return len(l.order)
}
