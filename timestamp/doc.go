/*
Package timestamp implements arbitrary-precision nanosecond instants.

Every timestamp belongs to one of two time domains: Elapsed (monotonic time
since boot) or Real (wall-clock time). Timestamps of different domains are not
comparable without a synchronization offset, and mixing them is treated as a
programming error: arithmetic and comparison functions panic with an error
wrapping tracescope.ErrInvariant.

Values are kept as big integers because capture files store unsigned 64-bit
nanosecond counters, and derived values (offsets, zoom bounds) must not
silently overflow.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timestamp

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tracescope"
)

// tracer traces with key 'tracescope.timestamp'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.timestamp")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		err := fmt.Errorf("%w: timestamp: "+msg, append([]interface{}{tracescope.ErrInvariant}, msgargs...)...)
		tracer().Errorf(err.Error())
		panic(err)
	}
}
