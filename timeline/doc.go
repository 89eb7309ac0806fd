/*
Package timeline implements the temporal navigation state of a set of
loaded traces: the full time range, a zoom window within it and a cursor.

    fullRange.From ≤ zoomRange.From ≤ zoomRange.To ≤ fullRange.To
    fullRange.From ≤ cursor ≤ fullRange.To

The cursor does not have to lie within the zoom window. Zooming shrinks or
grows the window around the cursor: the distance from the cursor to each
bound is scaled by the zoom factor. Repeated zooming in thus moves the
window center towards the cursor without overshooting it. Bounds are clamped
into the full range one by one; zooming out at the full range does nothing.

All bounds are integral nanoseconds. When zooming in, distances are rounded
down, when zooming out they are rounded up, so every step zooms by at least
one nanosecond as long as the window can change at all.

An Engine is not safe for concurrent use. Every mutation re-checks the
invariants above and panics with an error wrapping tracescope.ErrInvariant
if one of them breaks.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timeline

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tracescope"
)

// tracer traces with key 'tracescope.timeline'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.timeline")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		err := fmt.Errorf("%w: timeline: "+msg, append([]interface{}{tracescope.ErrInvariant}, msgargs...)...)
		tracer().Errorf(err.Error())
		panic(err)
	}
}
