package lamptypes

import (
	"fmt"
	"strings"
)

// Segment is one element of a CommandPath: either a fixed literal token
// or a named placeholder that must match a declared parameter.
type Segment struct {
	Literal       string
	IsPlaceholder bool
}

// Name returns the placeholder name with its angle brackets stripped,
// or the literal spelling if this segment is not a placeholder.
func (s Segment) Name() string {
	if !s.IsPlaceholder {
		return s.Literal
	}
	return strings.TrimSuffix(strings.TrimPrefix(s.Literal, "<"), ">")
}

// CommandPath is an ordered sequence of segments identifying a command.
type CommandPath []Segment

// ParsePath splits a raw path string on whitespace into segments,
// recognizing "<name>" tokens as placeholders. An empty or
// whitespace-only path is rejected.
func ParsePath(raw string) (CommandPath, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, malformedPath(raw, "path has no segments")
	}
	path := make(CommandPath, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "<") && strings.HasSuffix(f, ">") && len(f) > 2 {
			path = append(path, Segment{Literal: f, IsPlaceholder: true})
			continue
		}
		if strings.ContainsAny(f, "<>") {
			return nil, malformedPath(raw, fmt.Sprintf("literal segment %q must not contain '<' or '>'", f))
		}
		path = append(path, Segment{Literal: f})
	}
	return path, nil
}

// String renders the path back to its whitespace-delimited form.
func (p CommandPath) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Literal
	}
	return strings.Join(parts, " ")
}

// IsPrefixOf reports whether p is a strict prefix of other, used by the
// help introspection component to compute children.
func (p CommandPath) IsPrefixOf(other CommandPath) bool {
	if len(p) >= len(other) {
		return false
	}
	for i := range p {
		if !p[i].equal(other[i]) {
			return false
		}
	}
	return true
}

// SharesParentWith reports whether p and other have identical segments
// except for the last one, used by the help introspection component to
// compute siblings.
func (p CommandPath) SharesParentWith(other CommandPath) bool {
	if len(p) != len(other) || len(p) == 0 {
		return false
	}
	for i := 0; i < len(p)-1; i++ {
		if !p[i].equal(other[i]) {
			return false
		}
	}
	return !p[len(p)-1].equal(other[len(p)-1])
}

func (s Segment) equal(o Segment) bool {
	if s.IsPlaceholder != o.IsPlaceholder {
		return false
	}
	if s.IsPlaceholder {
		return true
	}
	return strings.EqualFold(s.Literal, o.Literal)
}

// malformedPath avoids importing pkg/lamperr from this file's call sites
// to keep path construction errors local; callers that want the
// structured lamperr.DispatchError wrap this with lamperr.MalformedPath.
type pathError struct {
	path, reason string
}

func (e *pathError) Error() string { return "malformed path " + e.path + ": " + e.reason }

func malformedPath(path, reason string) error {
	return &pathError{path: path, reason: reason}
}
