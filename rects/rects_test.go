package rects

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(t *testing.T, id, name string, path ...int) Rect {
	r, err := NewBuilder().SetWidth(1).SetHeight(1).SetOwner(id, name).SetZOrderPath(path...).Build()
	require.NoError(t, err)
	return r
}

func ids(rs []Rect) []string {
	var s []string
	for _, r := range rs {
		s = append(s, r.ID)
	}
	return s
}

func TestZOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.rects")
	defer teardown()
	//
	cases := []struct {
		name   string
		p1, p2 []int
		front  string
	}{
		{"prefix is behind", []int{0}, []int{0, 1}, "2 layer2"},
		{"equal lengths", []int{1}, []int{0}, "1 layer1"},
		{"different lengths", []int{0, 1}, []int{0, 0, 0}, "1 layer1"},
		{"longer path with equal prefix", []int{0, 1}, []int{0, 1, 0}, "2 layer2"},
		{"equal paths fall back to id", []int{0, 1}, []int{0, 1}, "2 layer2"},
	}
	for _, c := range cases {
		rs := []Rect{rect(t, "1", "layer1", c.p1...), rect(t, "2", "layer2", c.p2...)}
		SortFrontToBack(rs)
		assert.Equal(t, c.front, rs[0].ID, c.name)
		// result must not depend on input order
		rs = []Rect{rs[1], rs[0]}
		SortFrontToBack(rs)
		assert.Equal(t, c.front, rs[0].ID, c.name+" (swapped)")
	}
}

func TestZOrderIsTotal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.rects")
	defer teardown()
	//
	rs := []Rect{
		rect(t, "1", "a", 0),
		rect(t, "2", "b", 0, 1),
		rect(t, "3", "c", 0, 0, 0),
		rect(t, "10", "d", 0),
		rect(t, "4", "e"),
	}
	SortFrontToBack(rs)
	want := []string{"2 b", "3 c", "10 d", "1 a", "4 e"}
	if diff := cmp.Diff(want, ids(rs)); diff != "" {
		t.Errorf("front-to-back order differs (-want +got):\n%s", diff)
	}
	for i := 0; i < len(rs); i++ {
		assert.Equal(t, 0, CompareZOrder(rs[i], rs[i]))
		for j := i + 1; j < len(rs); j++ {
			assert.Equal(t, -1, CompareZOrder(rs[i], rs[j]), "%s vs %s", rs[i].ID, rs[j].ID)
			assert.Equal(t, 1, CompareZOrder(rs[j], rs[i]), "%s vs %s", rs[j].ID, rs[i].ID)
		}
	}
}

func TestNonNumericIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.rects")
	defer teardown()
	//
	a, b := rect(t, "b", "x", 0), rect(t, "a", "x", 0)
	assert.Equal(t, -1, CompareZOrder(a, b))
	// numeric ids are not compared as strings
	assert.Equal(t, -1, CompareZOrder(rect(t, "10", "x", 0), rect(t, "9", "x", 0)))
}

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.rects")
	defer teardown()
	//
	path := []int{0, 2}
	b := NewBuilder().SetX(10).SetY(20).SetWidth(100).SetHeight(50).SetCornerRadius(4).
		SetOwner("7", "StatusBar").SetGroupID(3).SetZOrderPath(path...).SetIsClickable(true)
	r, err := b.Build()
	require.NoError(t, err)
	path[0] = 99
	assert.Equal(t, []int{0, 2}, r.ZOrderPath, "builder must copy the path")
	assert.Equal(t, "7 StatusBar", r.ID)
	assert.Equal(t, "StatusBar", r.Label)
	assert.True(t, r.IsVisible)
	assert.True(t, r.Transform.IsIdentity())
	assert.True(t, r.Contains(10, 20))
	assert.False(t, r.Contains(110, 20))
	again, _ := b.Build()
	assert.True(t, r.Equal(again))
	again.ZOrderPath[1] = 3
	assert.False(t, r.Equal(again))
	//
	_, err = NewBuilder().SetWidth(-1).Build()
	assert.True(t, errors.Is(err, tracescope.ErrInvariant))
	_, err = NewBuilder().SetZOrderPath(0, -1).Build()
	assert.True(t, errors.Is(err, tracescope.ErrInvariant))
}

func TestTransform(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.rects")
	defer teardown()
	//
	x, y := Identity.Apply(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
	scale := Transform{DSDX: 2, DTDY: 2}
	move := Transform{DSDX: 1, DTDY: 1, TX: 10, TY: -5}
	x, y = scale.Then(move).Apply(3, 4)
	assert.Equal(t, 16.0, x)
	assert.Equal(t, 3.0, y)
	x, y = move.Then(scale).Apply(3, 4)
	assert.Equal(t, 26.0, x)
	assert.Equal(t, -2.0, y)
	assert.True(t, Identity.Then(Identity).IsIdentity())
}
