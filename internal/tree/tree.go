package tree

import (
	"sync"

	"lamp/pkg/lamperr"
)

// Tree is the root of a command trie. Registration happens while
// building a Lamp, under the write lock; dispatch and help take the
// read lock, so concurrent lookups never race a concurrent register or
// unregister.
type Tree struct {
	mu   sync.RWMutex
	root *Node
	seq  int
}

// New creates an empty command tree.
func New() *Tree {
	return &Tree{root: newRoot()}
}

// Root returns the tree's root node. Callers hold the tree's lock via
// RLock/RUnlock (exposed below) for the duration of any traversal.
func (t *Tree) Root() *Node { return t.root }

// RLock and RUnlock expose the tree's read lock so dispatch and help
// can walk several nodes under one consistent snapshot.
func (t *Tree) RLock()   { t.mu.RLock() }
func (t *Tree) RUnlock() { t.mu.RUnlock() }

// Insert walks cmd.Effective from the root, creating literal and
// parameter nodes as needed, and installs cmd as a leaf at the
// resulting node. It fails with lamperr.KindDuplicateCommand if a leaf
// already at that node shares cmd's positional-parameter-type
// signature.
func (t *Tree) Insert(cmd *ExecutableCommand) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, seg := range cmd.Effective {
		if seg.IsLiteral {
			node = node.literalChildOrCreate(seg.Literal, seg.Permission)
		} else {
			node = node.paramChildOrCreate(seg.Binding, seg.Priority)
		}
	}
	for _, alias := range cmd.Aliases {
		if len(cmd.Effective) == 0 || !cmd.Effective[0].IsLiteral {
			break
		}
		t.root.addAlias(cmd.Effective[0].Literal, alias)
	}
	for _, existing := range node.leaves {
		if existing.signatureEquals(cmd) {
			return lamperr.DuplicateCommand(cmd.Path.String())
		}
	}
	cmd.RegisteredAt = t.seq
	t.seq++
	node.leaves = append(node.leaves, cmd)
	return nil
}

// Remove deletes cmd from the tree and prunes any node left with no
// leaves and no children as a result. It is a no-op if cmd is not
// present.
func (t *Tree) Remove(cmd *ExecutableCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, seg := range cmd.Effective {
		if seg.IsLiteral {
			child, ok := node.LiteralChild(seg.Literal)
			if !ok {
				return
			}
			node = child
		} else {
			var matched *Node
			for _, pc := range node.paramChildren {
				if paramBindingsCompatible(pc.binding, seg.Binding) {
					matched = pc
					break
				}
			}
			if matched == nil {
				return
			}
			node = matched
		}
	}
	for i, leaf := range node.leaves {
		if leaf == cmd {
			node.leaves = append(node.leaves[:i], node.leaves[i+1:]...)
			node.prune()
			return
		}
	}
}

// AllCommands returns every registered ExecutableCommand in the tree,
// depth-first, literal children before parameter children at each
// node.
func (t *Tree) AllCommands() []*ExecutableCommand {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*ExecutableCommand
	walk(t.root, &out)
	return out
}

func walk(n *Node, out *[]*ExecutableCommand) {
	*out = append(*out, n.leaves...)
	for _, child := range n.LiteralChildren() {
		walk(child, out)
	}
	for _, child := range n.paramChildren {
		walk(child, out)
	}
}

// Len returns the total number of registered leaves.
func (t *Tree) Len() int {
	return len(t.AllCommands())
}
