/*
Package parser validates and decodes capture files.

The set of trace formats is closed: every TraceType has exactly one Format,
which knows the magic number a capture file of that type starts with, the
message schema of the file and where each entry keeps its timestamps.
A Registry selects the format of a buffer by sniffing its magic number; the
first registered match wins.

Decoding a buffer yields a Parser holding all entries, each one tagged with a
timestamp per derivable time domain. Capture files record elapsed time per
entry and, optionally, a file-level offset between real and elapsed time.
Real timestamps are derived from that offset. Clients may register an offset
for files lacking one.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.parser'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.parser")
}
