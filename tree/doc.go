/*
Package tree implements an all-purpose ordered tree type.

Nodes carry a payload of a type parameter and keep their children in
insertion order. Domain trees embed Node and set the payload to themselves:

   type PropNode struct {
       tree.Node[*PropNode]
       name string
   }

   n := &PropNode{name: "root"}
   n.Payload = n

Walkers

We support a small set of search & filter functions on tree nodes. Clients
chain these to select nodes, similar in concept to JQuery:

   Parent()                     // find parent for all selected nodes
   AncestorWith(predicate)      // find ancestor with a given predicate
   DescendentsWith(predicate)   // find descendents with a given predicate
   TopDown(action)              // traverse all nodes top down (breadth first)
   Filter(userfunc)             // apply a user-provided filter function

Walkers operate synchronously and return the selection with Nodes().
Trees are expected to be built by one goroutine and only read afterwards;
nodes carry no locks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.tree'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.tree")
}
