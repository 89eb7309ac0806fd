package hierarchy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/operations"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/propertytree"
	"github.com/npillmayer/tracescope/rects"
	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/tracetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectIDs(rs []rects.Rect) []string {
	var ids []string
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func layerTree() (root, layer1, layer2 *Node) {
	root = NewNode("LayerTraceEntry", "root", nil)
	layer1 = NewNode("1", "layer1", nil)
	layer2 = NewNode("2", "layer2", nil)
	layer1.AddChild(layer2)
	root.AddChild(layer1)
	return
}

func setRect(t *testing.T, n *Node, path ...int) {
	r, err := rects.NewBuilder().SetWidth(1).SetHeight(1).SetOwner(n.ID(), n.Name()).
		SetZOrderPath(path...).Build()
	require.NoError(t, err)
	n.SetRects([]rects.Rect{r})
}

func TestMakeRects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.hierarchy")
	defer teardown()
	//
	cases := []struct {
		name   string
		p1, p2 []int
		want   []string
	}{
		{"extracts rects from hierarchy tree", []int{0}, []int{0, 1}, []string{"2 layer2", "1 layer1"}},
		{"z-order paths with equal lengths", []int{1}, []int{0}, []string{"1 layer1", "2 layer2"}},
		{"z-order paths with different lengths", []int{0, 1}, []int{0, 0, 0}, []string{"1 layer1", "2 layer2"}},
		{"z-order paths with equal values", []int{0, 1}, []int{0, 1, 0}, []string{"2 layer2", "1 layer1"}},
	}
	for _, c := range cases {
		root, layer1, layer2 := layerTree()
		setRect(t, layer1, c.p1...)
		setRect(t, layer2, c.p2...)
		rs := MakeRects(root)
		if diff := cmp.Diff(c.want, rectIDs(rs)); diff != "" {
			t.Errorf("%s: order differs (-want +got):\n%s", c.name, diff)
		}
		for _, r := range rs {
			assert.Equal(t, r.ID, r.OwnerID+" "+r.Label)
		}
	}
}

func TestMakeRectsIncludesRootWithRects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.hierarchy")
	defer teardown()
	//
	root, layer1, _ := layerTree()
	setRect(t, layer1, 0)
	assert.Len(t, MakeRects(root), 1, "root without rects contributes nothing")
	r, err := rects.NewBuilder().SetWidth(10).SetHeight(10).Build()
	require.NoError(t, err)
	root.SetRects([]rects.Rect{r})
	rs := MakeRects(root)
	require.Len(t, rs, 2)
	assert.Equal(t, "LayerTraceEntry root", rs[1].ID, "ids are stamped from the owning node")
	assert.Equal(t, "LayerTraceEntry", rs[1].OwnerID)
	assert.Nil(t, MakeRects(nil))
}

func processedEntry(t *testing.T, entry schema.Object) *propertytree.Node {
	buf := tracetest.File(parser.SurfaceFlingerFormat, 0, entry)
	p, err := parser.DefaultRegistry().Parse(buf)
	require.NoError(t, err)
	e, err := p.EntryAt(0)
	require.NoError(t, err)
	root, err := propertytree.FromRecord(e.Record, "0", parser.SurfaceFlingerFormat.RootName)
	require.NoError(t, err)
	root, err = operations.ForTraceType(parser.SurfaceFlinger).Apply(root)
	require.NoError(t, err)
	return root
}

func TestFromLayers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.hierarchy")
	defer teardown()
	//
	popup := tracetest.WithBounds(tracetest.Layer(5, 3, 1, "popup"), 100, 100, 500, 400)
	popup["zOrderRelativeOf"] = int32(2)
	entry := processedEntry(t, tracetest.LayersEntry(100,
		[]schema.Object{tracetest.Display(1, "Built-in", 0, 1080, 2400, 420)},
		tracetest.WithBounds(tracetest.Layer(1, -1, 0, "root"), 0, 0, 1080, 2400),
		tracetest.WithBounds(tracetest.Layer(2, 1, 10, "status"), 0, 0, 1080, 100),
		tracetest.WithBounds(tracetest.Layer(3, 1, 5, "nav"), 0, 2300, 1080, 2400),
		tracetest.WithBounds(tracetest.Layer(4, -1, -1, "wallpaper"), 0, 0, 1080, 2400),
		popup,
	))
	root, err := FromLayers(entry)
	require.NoError(t, err)
	t.Logf("hierarchy =\n%s", root.Dump())
	//
	var children []string
	for _, ch := range root.ChildNodes() {
		children = append(children, ch.ID())
	}
	assert.Equal(t, []string{"Display 1", "4", "1"}, children)
	nav := root.ChildNodes()[2].ChildNodes()[0]
	assert.Equal(t, "nav", nav.Name())
	assert.Equal(t, "popup", nav.ChildNodes()[0].Name(), "relative z does not change the parent")
	//
	rs := MakeRects(root)
	want := []string{"5 popup", "2 status", "3 nav", "1 root", "4 wallpaper", "Display 1 Built-in"}
	if diff := cmp.Diff(want, rectIDs(rs)); diff != "" {
		t.Errorf("front-to-back order differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 1, 0}, rs[0].ZOrderPath)
	assert.Equal(t, 300.0, rs[0].Height)
	display := rs[len(rs)-1]
	assert.True(t, display.IsDisplay)
	assert.True(t, display.IsVisible)
	assert.Equal(t, 1080.0, display.Width)
	assert.True(t, rs[1].IsVisible)
}

func TestFromLayersRejectsCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.hierarchy")
	defer teardown()
	//
	layer := func(name string, id, parent, relative int64) propertytree.Child {
		return propertytree.Child{Name: name, Children: []propertytree.Child{
			{Name: "id", Value: propertytree.Int(id)},
			{Name: "parent", Value: propertytree.Int(parent)},
			{Name: "zOrderRelativeOf", Value: propertytree.Int(relative)},
		}}
	}
	entry, err := propertytree.NewBuilder().SetName("LayerTraceEntry").SetChildren([]propertytree.Child{
		{Name: "layers", Children: []propertytree.Child{layer("0", 1, 2, -1), layer("1", 2, 1, -1)}},
	}).Build()
	require.NoError(t, err)
	_, err = FromLayers(entry)
	assert.True(t, errors.Is(err, tracescope.ErrInvariant), "parent cycle: %v", err)
	//
	entry, err = propertytree.NewBuilder().SetName("LayerTraceEntry").SetChildren([]propertytree.Child{
		{Name: "layers", Children: []propertytree.Child{layer("0", 1, -1, 2), layer("1", 2, -1, 1)}},
	}).Build()
	require.NoError(t, err)
	_, err = FromLayers(entry)
	assert.True(t, errors.Is(err, tracescope.ErrInvariant), "relative-z cycle: %v", err)
	//
	entry, err = propertytree.NewBuilder().SetName("LayerTraceEntry").SetChildren([]propertytree.Child{
		{Name: "layers", Children: []propertytree.Child{layer("0", 1, -1, -1), layer("1", 1, -1, -1)}},
	}).Build()
	require.NoError(t, err)
	_, err = FromLayers(entry)
	assert.True(t, errors.Is(err, tracescope.ErrInvariant), "duplicate id: %v", err)
}
