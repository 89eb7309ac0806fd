/*
Package tracetest provides utilities for building capture files in tests.

    buf := tracetest.File(parser.AccessibilityFormat, 0,
        tracetest.Entry(2661012903966),
    )

Entries are schema.Objects keyed by field name, encoded with the format's
schema. Builders panic on schema mismatches, which are errors in the test.
*/
package tracetest

import (
	"fmt"

	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/schema"
)

// File encodes a capture file of format f. A zero offset omits the
// real-to-elapsed offset field.
func File(f *parser.Format, offset uint64, entries ...schema.Object) []byte {
	obj := schema.Object{
		"magicNumber": f.MagicValue(),
		"entry":       entries,
	}
	if offset != 0 {
		obj["realToElapsedTimeOffsetNanos"] = offset
	}
	buf, err := schema.Encode(f.File, obj)
	if err != nil {
		panic(fmt.Sprintf("tracetest: %s: %v", f.Type, err))
	}
	return buf
}

// Entry creates an entry holding just an elapsed timestamp. Further fields
// may be added to the returned object.
func Entry(elapsed int64) schema.Object {
	return schema.Object{parser.DefaultElapsedField: elapsed}
}

// Layer creates a SurfaceFlinger layer. A parent of -1 denotes a root layer.
func Layer(id, parent, z int32, name string) schema.Object {
	return schema.Object{
		"id":     id,
		"name":   name,
		"parent": parent,
		"z":      z,
	}
}

// WithBounds sets the bounds of a layer and returns it.
func WithBounds(layer schema.Object, left, top, right, bottom float32) schema.Object {
	layer["bounds"] = schema.Object{"left": left, "top": top, "right": right, "bottom": bottom}
	return layer
}

// Display creates a SurfaceFlinger display.
func Display(id uint64, name string, layerStack int32, w, h int32, dpi float64) schema.Object {
	d := schema.Object{
		"id":         id,
		"name":       name,
		"layerStack": layerStack,
		"size":       schema.Object{"w": w, "h": h},
	}
	if dpi > 0 {
		d["dpiX"] = dpi
		d["dpiY"] = dpi
	}
	return d
}

// LayersEntry creates a SurfaceFlinger entry.
func LayersEntry(elapsed int64, displays []schema.Object, layers ...schema.Object) schema.Object {
	e := Entry(elapsed)
	e["displays"] = displays
	e["layers"] = layers
	return e
}
