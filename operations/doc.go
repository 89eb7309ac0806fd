/*
Package operations implements the derived-property pipeline applied to every
property tree right after it has been built.

An Operation reads any property of a tree and adds or overwrites derived
leaves through propertytree.Node.SetDerived. Operations never remove
properties decoded from a capture file. Missing inputs are routine: an
operation skips nodes lacking what it needs. Only malformed trees make an
operation fail.

Operations run in the fixed order of a Pipeline, as later operations may
consume the output of earlier ones (CountActiveDisplays consumes the isOn
property of AddDisplayProperties). After the last operation the pipeline
freezes the tree.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package operations

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tracescope.operations'.
func tracer() tracing.Trace {
	return tracing.Select("tracescope.operations")
}
