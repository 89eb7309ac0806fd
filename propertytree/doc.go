/*
Package propertytree implements the typed hierarchical model every trace entry
is normalized into.

A property tree node is either a leaf carrying a Value, or an interior node
carrying named children in insertion order. Child names are unique within a
parent, and node ids are derived from the schema path of a node, so they are
stable across re-parses of the same logical entity:

   LayerTraceEntry
   LayerTraceEntry.displays
   LayerTraceEntry.displays.0
   LayerTraceEntry.displays.0.dpiX

Trees are created by FromRecord (or a Builder in tests), augmented by derived
properties with SetDerived, and then frozen. Frozen trees reject every
mutation and may be shared between goroutines.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package propertytree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tracescope"
)

// tracer traces with key 'tracescope.properties'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.properties")
}

func invariant(msg string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", tracescope.ErrInvariant, fmt.Sprintf(msg, args...))
}
