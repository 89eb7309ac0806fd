package hierarchy

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/propertytree"
	"github.com/npillmayer/tracescope/rects"
)

// NoLayer is the parent id of root layers and the relative-z id of layers
// stacked with their parent.
const NoLayer = -1

// DisplayIDPrefix prefixes the ids of display nodes, keeping them apart from
// layer ids.
const DisplayIDPrefix = "Display "

type layer struct {
	node     *Node
	id       int64
	z        int64
	parent   int64
	relative int64
	zKids    []*layer // layers stacked relative to this one, back to front
	path     []int
}

// FromLayers builds the hierarchy of a SurfaceFlinger entry, usually after
// the operation pipeline has been applied to it. Displays become children of
// the root, in front of them the root layers. Every layer is a child of its
// parent layer; children are ordered by z, then by layer id.
//
// The z-order path of a layer is the path of the layer it is stacked
// relative to (its parent, or the layer named by zOrderRelativeOf), extended
// by its position among the layers stacked there. Layers with bounds get one
// rect, every display gets one rect with an empty path, behind all layers.
//
// Cycles in parent or relative-z links are reported as
// tracescope.ErrInvariant.
func FromLayers(entry *propertytree.Node) (*Node, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: no entry", tracescope.ErrInvariant)
	}
	root := NewNode(entry.ID(), entry.Name(), entry)
	if displays, ok := entry.ChildByName("displays"); ok {
		for _, d := range displays.AllChildren() {
			if d.IsLeaf() {
				continue
			}
			root.AddChild(displayNode(d))
		}
	}
	container, ok := entry.ChildByName("layers")
	if !ok {
		return root, nil
	}
	var all []*layer
	byID := make(map[int64]*layer)
	for _, props := range container.AllChildren() {
		id, ok := props.LeafValue("id").AsInt()
		if !ok {
			tracer().P("node", props.ID()).Debugf("skipping layer without id")
			continue
		}
		name, _ := props.LeafValue("name").AsString()
		l := &layer{
			node:     NewNode(strconv.FormatInt(id, 10), name, props),
			id:       id,
			z:        intOr(props.LeafValue("z"), 0),
			parent:   intOr(props.LeafValue("parent"), NoLayer),
			relative: intOr(props.LeafValue("zOrderRelativeOf"), NoLayer),
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate layer id %d", tracescope.ErrInvariant, id)
		}
		byID[id] = l
		all = append(all, l)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].z != all[j].z {
			return all[i].z < all[j].z
		}
		return all[i].id < all[j].id
	})
	var rootLayers []*layer
	for _, l := range all {
		if p, ok := byID[l.parent]; ok && l.parent != l.id {
			p.node.AddChild(l.node)
		} else {
			root.AddChild(l.node)
		}
		if r, ok := byID[l.relative]; ok && l.relative != l.id {
			r.zKids = append(r.zKids, l)
		} else if p, ok := byID[l.parent]; ok && l.parent != l.id {
			p.zKids = append(p.zKids, l)
		} else {
			rootLayers = append(rootLayers, l)
		}
	}
	if err := checkParentCycles(root, all); err != nil {
		return nil, err
	}
	var assign func(ls []*layer, prefix []int)
	assign = func(ls []*layer, prefix []int) {
		for i, l := range ls {
			l.path = append(append([]int(nil), prefix...), i)
			assign(l.zKids, l.path)
		}
	}
	assign(rootLayers, nil)
	for _, l := range all {
		if l.path == nil {
			return nil, fmt.Errorf("%w: layer %d is part of a relative-z cycle", tracescope.ErrInvariant, l.id)
		}
		if r, ok := layerRect(l); ok {
			l.node.SetRects([]rects.Rect{r})
		}
	}
	tracer().P("entry", entry.ID()).Debugf("built hierarchy of %d layers", len(all))
	return root, nil
}

// checkParentCycles makes sure every layer has been attached below root.
// Layers in a parent cycle are attached to each other only.
func checkParentCycles(root *Node, all []*layer) error {
	attached := make(map[*Node]bool)
	var walk func(*Node)
	walk = func(node *Node) {
		for _, ch := range node.ChildNodes() {
			attached[ch] = true
			walk(ch)
		}
	}
	walk(root)
	for _, l := range all {
		if !attached[l.node] {
			return fmt.Errorf("%w: layer %d is part of a parent cycle", tracescope.ErrInvariant, l.id)
		}
	}
	return nil
}

func layerRect(l *layer) (rects.Rect, bool) {
	props := l.node.properties
	bounds, ok := props.ChildByName("bounds")
	if !ok || bounds.IsLeaf() {
		return rects.Rect{}, false
	}
	left := numberOr(bounds.LeafValue("left"), 0)
	top := numberOr(bounds.LeafValue("top"), 0)
	right := numberOr(bounds.LeafValue("right"), 0)
	bottom := numberOr(bounds.LeafValue("bottom"), 0)
	visible, ok := props.LeafValue("isVisible").AsBool()
	if !ok {
		visible = right > left && bottom > top
	}
	alpha := numberOr(props.LeafValue("color", "a"), 1)
	r, err := rects.NewBuilder().
		SetX(left).SetY(top).
		SetWidth(nonNegative(right - left)).SetHeight(nonNegative(bottom - top)).
		SetCornerRadius(numberOr(props.LeafValue("cornerRadius"), 0)).
		SetOwner(l.node.id, l.node.name).
		SetTransform(transformOf(props)).
		SetGroupID(intOr(props.LeafValue("layerStack"), 0)).
		SetZOrderPath(l.path...).
		SetIsVisible(visible).
		SetIsClickable(visible).
		SetHasContent(visible && alpha > 0).
		Build()
	if err != nil {
		tracer().Errorf("layer %s: %v", l.node, err)
		return rects.Rect{}, false
	}
	return r, true
}

func displayNode(props *propertytree.Node) *Node {
	id := props.LeafValue("id").String()
	name, _ := props.LeafValue("name").AsString()
	n := NewNode(DisplayIDPrefix+id, name, props)
	w := numberOr(props.LeafValue("size", "w"), 0)
	h := numberOr(props.LeafValue("size", "h"), 0)
	x, y := 0.0, 0.0
	if lsr, ok := props.ChildByName("layerStackSpaceRect"); ok && !lsr.IsLeaf() {
		x = numberOr(lsr.LeafValue("left"), 0)
		y = numberOr(lsr.LeafValue("top"), 0)
	}
	on, ok := props.LeafValue("isOn").AsBool()
	if !ok {
		on = intOr(props.LeafValue("layerStack"), NoLayer) != NoLayer
	}
	virtual, _ := props.LeafValue("isVirtual").AsBool()
	r, err := rects.NewBuilder().
		SetX(x).SetY(y).SetWidth(nonNegative(w)).SetHeight(nonNegative(h)).
		SetOwner(n.id, n.name).
		SetTransform(transformOf(props)).
		SetGroupID(intOr(props.LeafValue("layerStack"), 0)).
		SetIsDisplay(true).
		SetIsVirtual(virtual).
		SetIsVisible(on).
		Build()
	if err == nil {
		n.SetRects([]rects.Rect{r})
	}
	return n
}

func transformOf(props *propertytree.Node) rects.Transform {
	t, ok := props.ChildByName("transform")
	if !ok || t.IsLeaf() {
		return rects.Identity
	}
	return rects.Transform{
		DSDX: numberOr(t.LeafValue("dsdx"), 1),
		DTDX: numberOr(t.LeafValue("dtdx"), 0),
		DSDY: numberOr(t.LeafValue("dsdy"), 0),
		DTDY: numberOr(t.LeafValue("dtdy"), 1),
		TX:   numberOr(t.LeafValue("tx"), 0),
		TY:   numberOr(t.LeafValue("ty"), 0),
	}
}

func intOr(v propertytree.Value, dflt int64) int64 {
	if i, ok := v.AsInt(); ok {
		return i
	}
	return dflt
}

func numberOr(v propertytree.Value, dflt float64) float64 {
	if f, ok := v.Number(); ok {
		return f
	}
	return dflt
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
