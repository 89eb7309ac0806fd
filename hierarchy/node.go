package hierarchy

import (
	"github.com/npillmayer/tracescope/propertytree"
	"github.com/npillmayer/tracescope/rects"
	"github.com/npillmayer/tracescope/tree"
	tp "github.com/xlab/treeprint"
)

// Node is a hierarchy tree node, built on top of a general purpose tree node.
type Node struct {
	tree.Node[*Node]
	id         string
	name       string
	properties *propertytree.Node
	rects      []rects.Rect
}

// NewNode creates a hierarchy node for the entity described by properties,
// which may be nil.
func NewNode(id, name string, properties *propertytree.Node) *Node {
	n := &Node{id: id, name: name, properties: properties}
	n.Payload = n
	return n
}

// ID returns the id of the entity.
func (n *Node) ID() string { return n.id }

// Name returns the name of the entity.
func (n *Node) Name() string { return n.name }

// Properties returns the property tree of the entity.
func (n *Node) Properties() *propertytree.Node { return n.properties }

func (n *Node) String() string {
	return rects.RectID(n.id, n.name)
}

// Rects returns the rects of n.
func (n *Node) Rects() []rects.Rect {
	return append([]rects.Rect(nil), n.rects...)
}

// SetRects replaces the rects of n.
func (n *Node) SetRects(rs []rects.Rect) {
	n.rects = append([]rects.Rect(nil), rs...)
}

// AddChild appends ch as the front-most child of n. It returns n to allow
// for chaining.
func (n *Node) AddChild(ch *Node) *Node {
	n.Node.AddChild(&ch.Node)
	return n
}

// ParentNode returns the parent hierarchy node, or nil for the root.
func (n *Node) ParentNode() *Node {
	if p := n.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// ChildNodes returns the children of n, back to front.
func (n *Node) ChildNodes() []*Node {
	children := n.Children()
	nodes := make([]*Node, len(children))
	for i, ch := range children {
		nodes[i] = ch.Payload
	}
	return nodes
}

// MakeRects collects the rects of every node below root, and the rects of
// root itself if it carries any. The result is sorted front to back, with
// rect ids and labels taken from the owning nodes.
func MakeRects(root *Node) []rects.Rect {
	if root == nil {
		return nil
	}
	var rs []rects.Rect
	collect := func(n *Node) {
		for _, r := range n.rects {
			r.OwnerID = n.id
			r.ID = rects.RectID(n.id, n.name)
			if r.Label == "" {
				r.Label = n.name
			}
			r.ZOrderPath = append([]int(nil), r.ZOrderPath...)
			rs = append(rs, r)
		}
	}
	collect(root)
	nodes, err := tree.NewWalker(&root.Node).AllDescendents().Nodes()
	if err != nil {
		tracer().Errorf("cannot collect rects below %s: %v", root, err)
		return nil
	}
	for _, node := range nodes {
		collect(node.Payload)
	}
	rects.SortFrontToBack(rs)
	return rs
}

// Dump renders the hierarchy below n as indented text, one node per line,
// followed by its rects.
func (n *Node) Dump() string {
	printer := tp.New()
	dump(printer, n)
	return printer.String()
}

func dump(printer tp.Tree, n *Node) {
	branch := printer.AddBranch(n.String())
	for _, r := range n.rects {
		branch.AddNode("□ " + r.String())
	}
	for _, ch := range n.ChildNodes() {
		dump(branch, ch)
	}
}
