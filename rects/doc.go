/*
Package rects implements spatial rectangles extracted from hierarchy trees,
together with their draw order.

Every rect carries a z-order path, a sequence of non-negative integers
locating its owner within nested stacking contexts. Rects are ordered front
to back:

    [0,1,0]  in front of  [0,1]      (a prefix is further back)
    [1]      in front of  [0]        (larger index is in front)
    [0,1]    in front of  [0,0,0]    (first differing index decides)

Rects with equal paths are ordered by the id of their owning node, larger
ids in front. This is the order a painter's algorithm has to draw in reverse.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rects

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.rects'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.rects")
}
