/*
Package schema describes the binary layout of capture files and decodes them.

Capture files are protocol buffer messages. Rather than depending on generated
code per trace type, formats describe their messages with Message and Field
descriptors, and Decode walks the wire format with package protowire. The
result is a Record: the present fields of a message in declaration order,
which is the order property trees expose them in.

Decoding never succeeds partially. Any malformed byte yields an error wrapping
tracescope.ErrDecode. Unknown fields are skipped.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package schema

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.schema'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.schema")
}
