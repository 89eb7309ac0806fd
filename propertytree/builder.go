package propertytree

// Child describes a node for Builder. A child without children is a leaf,
// its Value may be undefined.
type Child struct {
	Name     string
	Value    Value
	Children []Child
	Derived  bool
}

// Builder creates property trees from literals, mostly for tests and fixtures.
//
//    tree, err := NewBuilder().SetRootID("3").SetName("display").
//        SetChildren([]Child{{Name: "dpiX", Value: Float(160)}}).Build()
//
type Builder struct {
	id       string
	name     string
	isRoot   bool
	value    *Value
	children []Child
}

// NewBuilder creates a builder for a root node.
func NewBuilder() *Builder {
	return &Builder{isRoot: true}
}

// SetRootID sets the id of the node to build.
func (b *Builder) SetRootID(id string) *Builder {
	b.id = id
	return b
}

// SetName sets the name of the node to build. If no id has been set, the
// name serves as id.
func (b *Builder) SetName(name string) *Builder {
	b.name = name
	return b
}

// SetIsRoot decides whether the node to build is a root.
func (b *Builder) SetIsRoot(isRoot bool) *Builder {
	b.isRoot = isRoot
	return b
}

// SetValue makes the node to build a leaf.
func (b *Builder) SetValue(v Value) *Builder {
	b.value = &v
	return b
}

// SetChildren sets the children of the node to build.
func (b *Builder) SetChildren(children []Child) *Builder {
	b.children = children
	return b
}

// Build creates the node. It fails with tracescope.ErrInvariant for a leaf
// with children or duplicate child names.
func (b *Builder) Build() (*Node, error) {
	id := b.id
	if id == "" {
		id = b.name
	}
	if b.value != nil {
		if len(b.children) > 0 {
			return nil, invariant("leaf %s cannot have children", id)
		}
		n := NewLeaf(id, b.name, *b.value)
		n.isRoot = b.isRoot
		return n, nil
	}
	var n *Node
	if b.isRoot {
		n = NewRoot(id, b.name)
	} else {
		n = NewNode(id, b.name)
	}
	if err := addChildren(n, b.children); err != nil {
		return nil, err
	}
	return n, nil
}

func addChildren(parent *Node, children []Child) error {
	for _, c := range children {
		id := ChildID(parent.id, c.Name)
		var ch *Node
		if len(c.Children) == 0 {
			ch = NewLeaf(id, c.Name, c.Value)
		} else {
			ch = NewNode(id, c.Name)
			if err := addChildren(ch, c.Children); err != nil {
				return err
			}
		}
		if c.Derived {
			ch.source = Derived
		}
		if err := parent.AddChild(ch); err != nil {
			return err
		}
	}
	return nil
}
