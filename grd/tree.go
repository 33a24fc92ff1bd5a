package grd

import (
	"iter"
	"maps"
	"sync"
	"sync/atomic"
)

// Item is an active node as seen by formatters.
type Item interface {
	// Enter opens the item's scope; the returned func closes it.
	Enter() (release func())
	TextualIDs() []string
}

// Tree is the read-only view of a resource tree that formatters consume.
type Tree interface {
	OutputFiles() []*Node
	WhitelistSupportEnabled() bool
	IDMap() map[string]int
	ActiveDescendants() iter.Seq[Item]
}

// Root is a loaded resource definition tree. It is immutable after Load
// apart from scope bookkeeping, which is safe for concurrent use.
type Root struct {
	Top *Node

	source      string
	defines     map[string]string
	whitelist   bool
	resourceIDs ResourceIDs
	idMap       map[string]int

	inUse   atomic.Int64
	mu      sync.Mutex
	touched map[*Node]struct{}
}

var _ Tree = (*Root)(nil)

// Source returns the name the tree was loaded from.
func (r *Root) Source() string {
	return r.source
}

// OutputFiles returns every <output> declaration in document order.
func (r *Root) OutputFiles() []*Node {
	var outputs []*Node
	for _, c := range r.Top.Children {
		if c.Name != "outputs" {
			continue
		}
		for _, o := range c.Children {
			if o.Name == "output" {
				outputs = append(outputs, o)
			}
		}
	}
	return outputs
}

// WhitelistSupportEnabled reports whether ids are wrapped in whitelist registration calls.
func (r *Root) WhitelistSupportEnabled() bool {
	return r.whitelist
}

// IDMap returns a copy of the textual id to numeric id mapping.
func (r *Root) IDMap() map[string]int {
	return maps.Clone(r.idMap)
}

// ActiveDescendants yields the root and every node not excluded by an
// <if> condition, in document order.
func (r *Root) ActiveDescendants() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		r.walk(r.Top, yield)
	}
}

func (r *Root) walk(n *Node, yield func(Item) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range r.activeChildren(n) {
		if !r.walk(c, yield) {
			return false
		}
	}
	return true
}

// activeChildren applies <if> conditions, including <then>/<else> branches.
func (r *Root) activeChildren(n *Node) []*Node {
	if n.Name != "if" {
		return n.Children
	}
	ok := n.cond.eval(r.defines)
	then, els := n.Child("then"), n.Child("else")
	if then == nil && els == nil {
		if ok {
			return n.Children
		}
		return nil
	}
	branch := els
	if ok {
		branch = then
	}
	if branch == nil {
		return nil
	}
	return branch.Children
}

// Conditions yields every <if> node reached by ActiveDescendants with the
// value its expr evaluated to, in document order.
func (r *Root) Conditions() iter.Seq2[*Node, bool] {
	return func(yield func(*Node, bool) bool) {
		for item := range r.ActiveDescendants() {
			n, ok := item.(*Node)
			if !ok || n.Name != "if" {
				continue
			}
			if !yield(n, n.cond.eval(r.defines)) {
				return
			}
		}
	}
}

func (r *Root) enter(n *Node) func() {
	r.inUse.Add(1)
	r.mu.Lock()
	r.touched[n] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.inUse.Add(-1) })
	}
}

// InUse returns how many item scopes are currently open.
func (r *Root) InUse() int {
	return int(r.inUse.Load())
}

// Touched returns how many distinct nodes have been entered since load.
func (r *Root) Touched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.touched)
}
