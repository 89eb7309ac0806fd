package operations

import (
	"math"

	"github.com/npillmayer/tracescope/propertytree"
)

// Display classification constants.
const (
	TabletMinDps    = 600 // smallest width in dp from which on a display counts as large
	DensityDefault  = 160 // dpi of one density-independent pixel per pixel
	BlankLayerStack = -1  // layer stack of a display which is switched off
)

// AddDisplayProperties classifies every display holding both dpiX and dpiY:
//
//    isLargeScreen   smallest side in dp, min(w,h) / (dpiX/160), is at least 600
//    isOn            layerStack is not -1
//
// Displays without dpi information are skipped.
type AddDisplayProperties struct{}

// Name is part of interface Operation.
func (AddDisplayProperties) Name() string { return "AddDisplayProperties" }

// Apply is part of interface Operation.
func (op AddDisplayProperties) Apply(root *propertytree.Node) error {
	displays, ok := root.ChildByName("displays")
	if !ok {
		return nil
	}
	for _, display := range displays.AllChildren() {
		dpiX, okX := display.LeafValue("dpiX").Number()
		_, okY := display.LeafValue("dpiY").Number()
		if !okX || !okY {
			continue
		}
		w, okW := display.LeafValue("size", "w").Number()
		h, okH := display.LeafValue("size", "h").Number()
		if okW && okH && dpiX > 0 {
			smallestWidth := dpFromPx(math.Min(w, h), dpiX)
			if err := display.SetDerived("isLargeScreen", propertytree.Bool(smallestWidth >= TabletMinDps)); err != nil {
				return err
			}
		}
		if layerStack, ok := display.LeafValue("layerStack").AsInt(); ok {
			if err := display.SetDerived("isOn", propertytree.Bool(layerStack != BlankLayerStack)); err != nil {
				return err
			}
		}
	}
	return nil
}

func dpFromPx(size, densityDpi float64) float64 {
	return size / (densityDpi / DensityDefault)
}

// CountActiveDisplays sets activeDisplayCount on the root, counting the
// displays marked isOn. It must run after AddDisplayProperties.
type CountActiveDisplays struct{}

// Name is part of interface Operation.
func (CountActiveDisplays) Name() string { return "CountActiveDisplays" }

// Apply is part of interface Operation.
func (op CountActiveDisplays) Apply(root *propertytree.Node) error {
	displays, ok := root.ChildByName("displays")
	if !ok {
		return nil
	}
	count := 0
	for _, display := range displays.AllChildren() {
		if on, ok := display.LeafValue("isOn").AsBool(); ok && on {
			count++
		}
	}
	return root.SetDerived("activeDisplayCount", propertytree.Int(int64(count)))
}
