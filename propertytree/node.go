package propertytree

import (
	"github.com/npillmayer/tracescope/tree"
)

// Source tells where a property stems from.
type Source uint8

// Property sources. Schema properties are decoded from a capture file,
// derived properties are computed by operations after decoding.
const (
	FromSchema Source = iota
	Derived
)

func (s Source) String() string {
	if s == Derived {
		return "derived"
	}
	return "schema"
}

// Node is a property tree node, built on top of a general purpose tree node.
// The tree node is not exported, so structural changes go through AddChild
// and SetDerived, which respect frozen trees.
type Node struct {
	node   tree.Node[*Node]
	id     string
	name   string
	value  Value
	leaf   bool
	isRoot bool
	source Source
	frozen bool // meaningful for roots only
}

func newNode(id, name string) *Node {
	n := &Node{id: id, name: name}
	n.node.Payload = n // Payload will always reference the node itself
	return n
}

// NewRoot creates the root node of a property tree.
func NewRoot(id, name string) *Node {
	n := newNode(id, name)
	n.isRoot = true
	return n
}

// NewNode creates an interior node.
func NewNode(id, name string) *Node {
	return newNode(id, name)
}

// NewLeaf creates a schema leaf carrying a value.
func NewLeaf(id, name string, v Value) *Node {
	n := newNode(id, name)
	n.leaf = true
	n.value = v
	return n
}

// ChildID returns the id of a child with a given name below a node with
// id parentID.
func ChildID(parentID, name string) string {
	return parentID + "." + name
}

// ID returns the stable identifier of n.
func (n *Node) ID() string { return n.id }

// Name returns the property name of n.
func (n *Node) Name() string { return n.name }

// Value returns the value of a leaf, or the undefined value for interior nodes.
func (n *Node) Value() Value { return n.value }

// IsLeaf is true for leaf nodes.
func (n *Node) IsLeaf() bool { return n.leaf }

// IsRoot is true for the root node of a tree.
func (n *Node) IsRoot() bool { return n.isRoot }

// Source tells whether n was decoded or derived.
func (n *Node) Source() Source { return n.source }

func (n *Node) String() string {
	if n.leaf {
		return n.name + ": " + n.value.String()
	}
	return n.name
}

// ParentNode returns the parent property node, or nil for a root.
func (n *Node) ParentNode() *Node {
	if p := n.node.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// RootNode returns the root of the tree n belongs to.
func (n *Node) RootNode() *Node {
	return n.node.Root().Payload
}

// Frozen is true if the tree n belongs to has been frozen.
func (n *Node) Frozen() bool {
	return n.RootNode().frozen
}

// AllChildren returns the children of n in insertion order.
func (n *Node) AllChildren() []*Node {
	children := n.node.Children()
	props := make([]*Node, len(children))
	for i, ch := range children {
		props[i] = ch.Payload
	}
	return props
}

// ChildByName returns the child with a given name.
func (n *Node) ChildByName(name string) (*Node, bool) {
	for _, ch := range n.node.Children() {
		if ch.Payload.name == name {
			return ch.Payload, true
		}
	}
	return nil, false
}

// Path follows a path of child names.
func (n *Node) Path(names ...string) (*Node, bool) {
	cur := n
	for _, name := range names {
		var ok bool
		if cur, ok = cur.ChildByName(name); !ok {
			return nil, false
		}
	}
	return cur, true
}

// LeafValue returns the value of the leaf at a path below n. Missing nodes
// and interior nodes yield the undefined value.
func (n *Node) LeafValue(names ...string) Value {
	if leaf, ok := n.Path(names...); ok && leaf.leaf {
		return leaf.value
	}
	return Undefined()
}

// AddChild attaches ch as the last child of n. It fails with
// tracescope.ErrInvariant if n is a leaf, the tree is frozen, ch is a root or
// already attached, or n already has a child named like ch.
func (n *Node) AddChild(ch *Node) error {
	switch {
	case ch == nil:
		return invariant("cannot add nil child to %s", n.id)
	case n.leaf:
		return invariant("leaf %s cannot have children", n.id)
	case n.Frozen():
		return invariant("tree of %s is frozen", n.id)
	case ch.isRoot:
		return invariant("root %s cannot become a child of %s", ch.id, n.id)
	case ch.node.Parent() != nil:
		return invariant("%s already has a parent", ch.id)
	}
	if _, dup := n.ChildByName(ch.name); dup {
		return invariant("%s already has a child named %q", n.id, ch.name)
	}
	n.node.AddChild(&ch.node)
	return nil
}

// SetDerived adds a derived leaf named name below n, or overwrites the value
// of an existing derived leaf. Schema properties are never overwritten, and
// frozen trees reject the write. Both cases fail with tracescope.ErrInvariant.
func (n *Node) SetDerived(name string, v Value) error {
	if n.leaf {
		return invariant("leaf %s cannot have derived children", n.id)
	}
	if n.Frozen() {
		return invariant("tree of %s is frozen", n.id)
	}
	if ch, ok := n.ChildByName(name); ok {
		if ch.source != Derived || !ch.leaf {
			return invariant("cannot overwrite schema property %s", ch.id)
		}
		ch.value = v
		return nil
	}
	leaf := NewLeaf(ChildID(n.id, name), name, v)
	leaf.source = Derived
	n.node.AddChild(&leaf.node)
	tracer().P("id", leaf.id).Debugf("derived %s = %s", name, v)
	return nil
}

// Walk visits n and all of its descendants depth first, in document order.
// Returning false from f skips the children of a node.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, ch := range n.node.Children() {
		ch.Payload.Walk(f)
	}
}

// Freeze checks that ids are unique within the tree and marks the tree as
// immutable. It must be called on the root.
func (n *Node) Freeze() error {
	if !n.isRoot || n.node.Parent() != nil {
		return invariant("cannot freeze %s: not a root", n.id)
	}
	if n.frozen {
		return nil
	}
	ids := make(map[string]bool)
	var dup string
	n.Walk(func(p *Node) bool {
		if ids[p.id] {
			dup = p.id
		}
		ids[p.id] = true
		return dup == ""
	})
	if dup != "" {
		return invariant("duplicate node id %q", dup)
	}
	n.frozen = true
	return nil
}

// Find returns the first node in document order whose id is id.
func (n *Node) Find(id string) (*Node, bool) {
	var found *Node
	n.Walk(func(p *Node) bool {
		if found == nil && p.id == id {
			found = p
		}
		return found == nil
	})
	return found, found != nil
}
