package operations

import (
	"github.com/npillmayer/tracescope/propertytree"
	"github.com/npillmayer/tracescope/schema"
)

// LayerFlagHidden is the layer flag set for explicitly hidden layers.
const LayerFlagHidden = 0x01

// AddLayerVisibility sets isVisible on every layer: a layer is visible if it
// is not flagged hidden, its color is not fully transparent and its bounds
// are not empty. Layers without bounds are invisible.
type AddLayerVisibility struct{}

// Name is part of interface Operation.
func (AddLayerVisibility) Name() string { return "AddLayerVisibility" }

// Apply is part of interface Operation.
func (op AddLayerVisibility) Apply(root *propertytree.Node) error {
	layers, ok := root.ChildByName("layers")
	if !ok {
		return nil
	}
	for _, layer := range layers.AllChildren() {
		if layer.IsLeaf() {
			continue
		}
		if err := layer.SetDerived("isVisible", propertytree.Bool(isLayerVisible(layer))); err != nil {
			return err
		}
	}
	return nil
}

func isLayerVisible(layer *propertytree.Node) bool {
	if flags, ok := layer.LeafValue("flags").AsInt(); ok && flags&LayerFlagHidden != 0 {
		return false
	}
	if alpha, ok := layer.LeafValue("color", "a").Number(); ok && alpha <= 0 {
		return false
	}
	left, okL := layer.LeafValue("bounds", "left").Number()
	top, okT := layer.LeafValue("bounds", "top").Number()
	right, okR := layer.LeafValue("bounds", "right").Number()
	bottom, okB := layer.LeafValue("bounds", "bottom").Number()
	if !(okL || okT || okR || okB) {
		return false
	}
	return right > left && bottom > top
}

// AddEnumNames adds the symbolic name of an enum property as a derived
// "<Field>Name" leaf to every element below Container.
type AddEnumNames struct {
	Container []string // path to the node holding the elements
	Field     string   // enum leaf of each element
	Enum      *schema.Enum
}

// Name is part of interface Operation.
func (op AddEnumNames) Name() string { return "AddEnumNames(" + op.Field + ")" }

// Apply is part of interface Operation.
func (op AddEnumNames) Apply(root *propertytree.Node) error {
	container, ok := root.Path(op.Container...)
	if !ok || container.IsLeaf() {
		return nil
	}
	for _, elem := range container.AllChildren() {
		if elem.IsLeaf() {
			continue
		}
		n, ok := elem.LeafValue(op.Field).AsInt()
		if !ok {
			continue
		}
		name, ok := op.Enum.NameOf(int32(n))
		if !ok {
			tracer().P("op", op.Name()).Debugf("no name for enum value %d of %s", n, elem.ID())
			continue
		}
		if err := elem.SetDerived(op.Field+"Name", propertytree.String(name)); err != nil {
			return err
		}
	}
	return nil
}
