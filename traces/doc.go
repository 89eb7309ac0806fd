/*
Package traces loads capture files and gives access to their entries as
property trees.

A Loader turns a list of files into a Traces collection:

    ts, err := traces.Loader{CacheSize: 32}.Load(files)

Every file is decompressed, its format sniffed and its entries decoded. A
file failing to load does not affect the others: Load returns the traces
which did load, together with an error combining all failures. Traces then
reports the unavailable files through Failures.

Entry trees are built on demand, processed by the operation pipeline of
their trace type, frozen and kept in an LRU cache. Frozen trees are
read-only and may be shared freely.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package traces

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.traces'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.traces")
}
