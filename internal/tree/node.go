package tree

import (
	"reflect"
	"strings"

	"lamp/pkg/lamptypes"
)

// Node is one vertex of the command tree: either the root, a literal
// node matched case-insensitively against an input token, or a
// parameter node that delegates to a ParameterType to consume input.
type Node struct {
	parent  *Node
	isParam bool

	// literal fields
	canonical  string
	aliases    []string
	permission lamptypes.Permission
	order      int // registration order among siblings, for deterministic traversal

	// parameter fields
	binding  *ParamBinding
	priority lamptypes.PrioritySpec

	literalChildren map[string]*Node // keyed by lowercased spelling
	childSeq        int             // next order value for a new literal child
	paramChildren   []*Node
	leaves          []*ExecutableCommand
}

func newRoot() *Node {
	return &Node{literalChildren: map[string]*Node{}}
}

// IsRoot reports whether n is the tree's root node.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsParam reports whether n is a parameter node.
func (n *Node) IsParam() bool { return n.isParam }

// Canonical returns a literal node's canonical spelling.
func (n *Node) Canonical() string { return n.canonical }

// Aliases returns the additional spellings registered alongside a
// literal node's canonical one.
func (n *Node) Aliases() []string { return n.aliases }

// Permission returns a literal node's inherited permission marker, if
// any.
func (n *Node) Permission() lamptypes.Permission { return n.permission }

// Binding returns a parameter node's binding.
func (n *Node) Binding() *ParamBinding { return n.binding }

// Priority returns a parameter node's priority class.
func (n *Node) Priority() lamptypes.PrioritySpec { return n.priority }

// Parent returns n's parent, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Leaves returns the ExecutableCommands registered at n, in
// registration order.
func (n *Node) Leaves() []*ExecutableCommand { return n.leaves }

// ParamChildren returns n's parameter child nodes, in registration
// order.
func (n *Node) ParamChildren() []*Node { return n.paramChildren }

// LiteralChild looks up a literal child by token, case-insensitively.
func (n *Node) LiteralChild(token string) (*Node, bool) {
	child, ok := n.literalChildren[strings.ToLower(token)]
	return child, ok
}

// LiteralChildren returns n's distinct literal child nodes (a node
// reachable by more than one alias spelling is returned once), ordered
// by first-registered spelling.
func (n *Node) LiteralChildren() []*Node {
	seen := make(map[*Node]bool, len(n.literalChildren))
	var out []*Node
	for _, child := range n.literalChildrenInOrder() {
		if seen[child] {
			continue
		}
		seen[child] = true
		out = append(out, child)
	}
	return out
}

// literalChildrenInOrder walks the map for n's distinct literal
// children (each counted once regardless of how many alias spellings
// route to it) and sorts them by registration order, since Go map
// iteration order is not stable across runs but command enumeration
// must be.
func (n *Node) literalChildrenInOrder() []*Node {
	seen := make(map[*Node]bool, len(n.literalChildren))
	out := make([]*Node, 0, len(n.literalChildren))
	for _, child := range n.literalChildren {
		if seen[child] {
			continue
		}
		seen[child] = true
		out = append(out, child)
	}
	// simple insertion sort keeps this deterministic without importing sort
	// for what is always a small slice of sibling command names.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].order > out[j].order; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// literalChildOrCreate returns the existing literal child matching
// spelling, or creates one, assigning it the next registration-order
// slot among n's literal children.
func (n *Node) literalChildOrCreate(spelling string, perm lamptypes.Permission) *Node {
	key := strings.ToLower(spelling)
	if child, ok := n.literalChildren[key]; ok {
		if child.permission == nil {
			child.permission = perm
		}
		return child
	}
	child := &Node{parent: n, canonical: spelling, permission: perm, literalChildren: map[string]*Node{}, order: n.childSeq}
	n.childSeq++
	n.literalChildren[key] = child
	return child
}

// addAlias makes spelling an additional route to the literal child that
// canonical already resolves to.
func (n *Node) addAlias(canonical, spelling string) {
	child, ok := n.literalChildren[strings.ToLower(canonical)]
	if !ok {
		return
	}
	key := strings.ToLower(spelling)
	if _, exists := n.literalChildren[key]; exists {
		return
	}
	n.literalChildren[key] = child
	child.aliases = append(child.aliases, spelling)
}

// paramChildOrCreate returns the existing parameter child whose
// descriptor name, declared type, and parser implementation type match
// binding, merging siblings the way overloads of the same path are
// meant to share tree structure up to the point their parameter
// identity actually diverges. Otherwise a new sibling is appended.
func (n *Node) paramChildOrCreate(binding *ParamBinding, priority lamptypes.PrioritySpec) *Node {
	for _, child := range n.paramChildren {
		if paramBindingsCompatible(child.binding, binding) {
			return child
		}
	}
	child := &Node{
		parent:          n,
		isParam:         true,
		binding:         binding,
		priority:        priority,
		literalChildren: map[string]*Node{},
	}
	n.paramChildren = append(n.paramChildren, child)
	return child
}

func paramBindingsCompatible(a, b *ParamBinding) bool {
	if a.Descriptor.Name != b.Descriptor.Name {
		return false
	}
	if a.Descriptor.Type != b.Descriptor.Type {
		return false
	}
	return reflect.TypeOf(a.Parser) == reflect.TypeOf(b.Parser)
}

// FullPath walks n's ancestry to reconstruct the CommandPath it sits at.
func (n *Node) FullPath() lamptypes.CommandPath {
	var segs []lamptypes.Segment
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.parent {
		var seg lamptypes.Segment
		if cur.isParam {
			seg = lamptypes.Segment{Literal: "<" + cur.binding.Descriptor.Name + ">", IsPlaceholder: true}
		} else {
			seg = lamptypes.Segment{Literal: cur.canonical}
		}
		segs = append([]lamptypes.Segment{seg}, segs...)
	}
	return lamptypes.CommandPath(segs)
}

// prune removes n from its parent if n now carries no leaves and no
// children, then repeats for the parent, stopping at the root or at
// the first ancestor still in use.
func (n *Node) prune() {
	cur := n
	for cur != nil && !cur.IsRoot() {
		if len(cur.leaves) > 0 || len(cur.paramChildren) > 0 || len(cur.literalChildren) > 0 {
			return
		}
		parent := cur.parent
		if cur.isParam {
			parent.removeParamChild(cur)
		} else {
			parent.removeLiteralChild(cur)
		}
		cur = parent
	}
}

func (n *Node) removeParamChild(target *Node) {
	for i, c := range n.paramChildren {
		if c == target {
			n.paramChildren = append(n.paramChildren[:i], n.paramChildren[i+1:]...)
			return
		}
	}
}

func (n *Node) removeLiteralChild(target *Node) {
	for key, c := range n.literalChildren {
		if c == target {
			delete(n.literalChildren, key)
		}
	}
}
