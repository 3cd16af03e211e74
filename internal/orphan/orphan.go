// Package orphan implements runtime-supplied command paths: a class's
// entry method can carry the orphan placeholder annotation instead of
// a static path, leaving the class's own outer path unresolved while
// its other methods (ordinary subcommands) keep their own relative
// paths. Resolve substitutes the caller-supplied runtime path for the
// class's outer path before the declaration reaches ingestion; every
// other part of resolution (subcommands, parameters) is unaffected.
package orphan

import (
	"lamp/internal/ingest"
	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

const placeholderKind = "orphan-placeholder"

// IsOrphan reports whether anns marks a method as the path-less entry
// point of an orphan class, awaiting a caller-supplied path at
// registration time.
func IsOrphan(anns lamptypes.AnnotationList) bool {
	return anns.Has(placeholderKind)
}

// Resolve returns a copy of class with its outer Paths replaced by
// runtimePaths and the placeholder annotation cleared from whichever
// method carried it. It fails if no method in class was declared
// orphan, or if no runtime paths were supplied.
func Resolve(class ingest.ClassDecl, runtimePaths ...string) (ingest.ClassDecl, error) {
	if len(runtimePaths) == 0 {
		return ingest.ClassDecl{}, lamperr.CommandErrorf("orphan command requires at least one runtime path")
	}

	entryIndex := -1
	for i, m := range class.Methods {
		if IsOrphan(m.Annotations) {
			entryIndex = i
			break
		}
	}
	if entryIndex == -1 {
		return ingest.ClassDecl{}, lamperr.CommandErrorf("class has no orphan entry method")
	}

	resolved := class
	resolved.Paths = append([]string{}, runtimePaths...)
	resolved.Methods = append([]ingest.MethodDecl{}, class.Methods...)
	resolved.Methods[entryIndex].Annotations = class.Methods[entryIndex].Annotations.Without(placeholderKind)
	return resolved, nil
}
