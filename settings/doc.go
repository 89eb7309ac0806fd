/*
Package settings holds the user-facing configuration of tracescope.

Settings are plain values. Engine packages receive them as options and never
read or write storage themselves. Persisting settings is the job of a Store,
wrapped by Persistent:

    p, err := settings.Open(settings.DirStore{Dir: dir}, "tracescope", settings.Defaults())
    err = p.Set("timeline.zoomin", "0.8")

Stored settings are partial. Merging a stored state into defaults overwrites
every leaf present in the stored state; arrays are leaves of their own and
replace the default array as a whole. After merging, updates are restricted
to leaves, addressed by dotted keys. Arrays may only be changed element by
element (SetPriorityAt).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package settings

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.settings'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.settings")
}
