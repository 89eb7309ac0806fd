/*
Package hierarchy implements spatial hierarchy trees, the bridge between
property trees and the rects a renderer draws.

A hierarchy node mirrors one spatial entity, such as a layer or a display. It
links to the property tree the entity has been built from and owns the
rects of the entity. Children of a node are kept in stacking order, back to
front.

MakeRects collects the rects of a hierarchy and orders them front to back
(see package rects). FromLayers builds the hierarchy of a SurfaceFlinger
entry after it has been processed by the operation pipeline.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hierarchy

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.hierarchy'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.hierarchy")
}
