// Package registry implements ordered, priority-classed factory
// containers. It generalizes the priority-based command resolution
// pattern of a fixed three-tier builtin/stdlib/user precedence into two
// explicit precedence classes: entries added via Add rank ahead of
// entries added via AddLast, and within a class insertion order is
// preserved.
package registry

import "sync"

// Class is the priority class an entry was inserted under.
type Class int

const (
	// High is the priority class used by Add.
	High Class = iota
	// Low is the priority class used by AddLast.
	Low
)

type entry[F any] struct {
	factory F
	class   Class
	order   int
}

// Registry is an ordered container of factories of type F. Entries are
// normally registered while building a Lamp and only read afterward,
// but the registry stays safe under concurrent use in either phase.
type Registry[F any] struct {
	mu      sync.RWMutex
	entries []entry[F]
	seq     int
}

// New creates an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{}
}

// Add registers f at high priority.
func (r *Registry[F]) Add(f F) {
	r.insert(f, High)
}

// AddLast registers f at low priority.
func (r *Registry[F]) AddLast(f F) {
	r.insert(f, Low)
}

func (r *Registry[F]) insert(f F, class Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry[F]{factory: f, class: class, order: r.seq})
	r.seq++
}

// All returns every registered factory in resolution order: all High
// entries first in insertion order, then all Low entries in insertion
// order.
func (r *Registry[F]) All() []F {
	r.mu.RLock()
	defer r.mu.RUnlock()
	high := make([]F, 0, len(r.entries))
	low := make([]F, 0, len(r.entries))
	// entries are already insertion-ordered since seq only increases;
	// stable-partition by class preserves insertion order within class.
	for _, e := range r.entries {
		if e.class == High {
			high = append(high, e.factory)
		} else {
			low = append(low, e.factory)
		}
	}
	return append(high, low...)
}

// Len reports the total number of registered factories.
func (r *Registry[F]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
