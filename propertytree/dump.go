package propertytree

import (
	tp "github.com/xlab/treeprint"
)

// Dump renders the tree below n as indented text, one property per line.
// Derived properties are marked with an asterisk.
func (n *Node) Dump() string {
	printer := tp.New()
	dump(printer, n)
	return printer.String()
}

func dump(printer tp.Tree, n *Node) {
	label := n.String()
	if n.source == Derived {
		label = "*" + label
	}
	if n.leaf {
		printer.AddNode(label)
		return
	}
	branch := printer.AddBranch(label)
	for _, ch := range n.AllChildren() {
		dump(branch, ch)
	}
}
