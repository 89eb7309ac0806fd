package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrInvalidFilter is returned if a walker step is called with a nil function.
var ErrInvalidFilter = errors.New("filter stage is invalid")

// ErrEmptyTree is returned if a Walker is called with an empty tree.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// Walker holds information for operating on trees: finding nodes and
// doing work on them. Clients usually create a Walker for a (sub-)tree
// to search for a selection of nodes matching certain criteria, and
// then perform some operation on this selection.
//
// A typical usage of a Walker looks like this:
//
//    nodes, err := NewWalker(node).DescendentsWith(isDisplay).Nodes()
//
// Every step operates on the selection of the previous step. After the first
// error, subsequent steps do nothing and Nodes reports that error.
type Walker[T comparable] struct {
	selection []*Node[T]
	err       error
}

// NewWalker creates a Walker for the initial node of a (sub-)tree.
// The first subsequent call to a node filter function will have this
// initial node as input.
//
// If initial is nil, the walker selects nothing and reports ErrEmptyTree.
func NewWalker[T comparable](initial *Node[T]) *Walker[T] {
	if initial == nil {
		return &Walker[T]{err: ErrEmptyTree}
	}
	return &Walker[T]{selection: []*Node[T]{initial}}
}

// Nodes returns the current selection and the first error that occurred.
func (w *Walker[T]) Nodes() ([]*Node[T], error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.selection, nil
}

func (w *Walker[T]) next(step func(*Node[T], func(*Node[T])) error) *Walker[T] {
	if w.err != nil {
		return w
	}
	nw := &Walker[T]{}
	seen := make(map[*Node[T]]bool)
	push := func(n *Node[T]) {
		if n != nil && !seen[n] {
			seen[n] = true
			nw.selection = append(nw.selection, n)
		}
	}
	for _, n := range w.selection {
		if err := step(n, push); err != nil {
			tracer().Errorf(err.Error())
			nw.err = err
			nw.selection = nil
			break
		}
	}
	return nw
}

// ----------------------------------------------------------------------

// Predicate is a function type to match against nodes of a tree.
// Is is used as an argument for various Walker functions to
// collect a selection of nodes.
// test is the node under test, node is the input node.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (*Node[T], error) {
		return test, nil
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (match *Node[T], err error) {
		if test.ChildCount() == 0 {
			return test, nil
		}
		return nil, nil
	}
}

// Action is a function type to operate on tree nodes.
// Resulting nodes will be pushed to the next pipeline stage, if
// no error occured.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) (*Node[T], error)

// ----------------------------------------------------------------------

// Parent selects the parent of every selected node.
// The root node does not produce a result.
func (w *Walker[T]) Parent() *Walker[T] {
	return w.next(func(node *Node[T], push func(*Node[T])) error {
		push(node.Parent())
		return nil
	})
}

// AncestorWith finds the nearest ancestor matching the given predicate.
// The search does not include the start node.
func (w *Walker[T]) AncestorWith(predicate Predicate[T]) *Walker[T] {
	if predicate == nil {
		return &Walker[T]{err: ErrInvalidFilter}
	}
	return w.next(func(node *Node[T], push func(*Node[T])) error {
		for anc := node.Parent(); anc != nil; anc = anc.Parent() {
			match, err := predicate(anc, node)
			if err != nil {
				return err
			}
			if match != nil {
				push(match)
				break
			}
		}
		return nil
	})
}

// DescendentsWith finds descendents matching a predicate, in depth-first
// document order. The search does not include the start node.
func (w *Walker[T]) DescendentsWith(predicate Predicate[T]) *Walker[T] {
	if predicate == nil {
		return &Walker[T]{err: ErrInvalidFilter}
	}
	return w.next(func(node *Node[T], push func(*Node[T])) error {
		return descendentsWith(node, node, predicate, push)
	})
}

func descendentsWith[T comparable](node, start *Node[T], predicate Predicate[T], push func(*Node[T])) error {
	for _, ch := range node.children {
		match, err := predicate(ch, start)
		if err != nil {
			return err
		}
		push(match)
		if err = descendentsWith(ch, start, predicate, push); err != nil {
			return err
		}
	}
	return nil
}

// AllDescendents traverses all descendents.
// The traversal does not include the start node.
// This is just a wrapper around `w.DescendentsWith(Whatever)`.
func (w *Walker[T]) AllDescendents() *Walker[T] {
	return w.DescendentsWith(Whatever[T]())
}

// Filter calls a client-provided function on each node of the selection.
// The user function should return the input node if it is accepted and
// nil otherwise.
func (w *Walker[T]) Filter(f Predicate[T]) *Walker[T] {
	if f == nil {
		return &Walker[T]{err: ErrInvalidFilter}
	}
	return w.next(func(node *Node[T], push func(*Node[T])) error {
		match, err := f(node, node)
		if err != nil {
			return err
		}
		push(match)
		return nil
	})
}

// TopDown traverses a tree starting at (and including) the selected nodes,
// breadth first. The traversal guarantees that parents are always processed
// before their children.
//
// If the action function returns an error for a node,
// descending the branch below this node is aborted and the walker
// reports the error.
func (w *Walker[T]) TopDown(action Action[T]) *Walker[T] {
	if action == nil {
		return &Walker[T]{err: ErrInvalidFilter}
	}
	return w.next(func(node *Node[T], push func(*Node[T])) error {
		queue := []queued[T]{{node: node, parent: node.Parent(), position: -1}}
		if node.parent != nil {
			queue[0].position = node.parent.IndexOfChild(node)
		}
		var firstErr error
		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]
			result, err := action(q.node, q.parent, q.position)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue // do not descend further
			}
			push(result)
			for i, ch := range q.node.children {
				queue = append(queue, queued[T]{node: ch, parent: q.node, position: i})
			}
		}
		return firstErr
	})
}

// ad-hoc container
type queued[T comparable] struct {
	node     *Node[T]
	parent   *Node[T]
	position int
}
