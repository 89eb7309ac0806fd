package rects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/tracescope"
)

// Rect is a rectangle of a spatial entity, e.g. a layer or a display.
// Rects are values and are not modified after construction.
type Rect struct {
	X, Y, Width, Height float64
	CornerRadius        float64
	ID                  string // "<nodeId> <nodeName>" of the owning node
	OwnerID             string // id of the owning node
	Label               string
	Transform           Transform
	GroupID             int64 // e.g. the layer stack of a layer's display
	ZOrderPath          []int
	IsVisible           bool
	IsDisplay           bool
	IsClickable         bool
	IsVirtual           bool
	HasContent          bool
}

// RectID creates the id of a rect owned by a node.
func RectID(nodeID, nodeName string) string {
	return nodeID + " " + nodeName
}

// Empty is true for rects without area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains tests whether a point lies within the untransformed geometry of r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Equal compares two rects, including their z-order paths.
func (r Rect) Equal(other Rect) bool {
	if len(r.ZOrderPath) != len(other.ZOrderPath) {
		return false
	}
	for i := range r.ZOrderPath {
		if r.ZOrderPath[i] != other.ZOrderPath[i] {
			return false
		}
	}
	return r.X == other.X && r.Y == other.Y && r.Width == other.Width && r.Height == other.Height &&
		r.CornerRadius == other.CornerRadius && r.ID == other.ID && r.OwnerID == other.OwnerID &&
		r.Label == other.Label && r.Transform == other.Transform && r.GroupID == other.GroupID &&
		r.IsVisible == other.IsVisible && r.IsDisplay == other.IsDisplay &&
		r.IsClickable == other.IsClickable && r.IsVirtual == other.IsVirtual &&
		r.HasContent == other.HasContent
}

func (r Rect) String() string {
	var path []string
	for _, z := range r.ZOrderPath {
		path = append(path, strconv.Itoa(z))
	}
	return fmt.Sprintf("%q (%g,%g %gx%g) z=[%s]", r.ID, r.X, r.Y, r.Width, r.Height,
		strings.Join(path, ","))
}

// Builder creates rects.
//
//    r, err := rects.NewBuilder().SetX(0).SetY(0).SetWidth(1080).SetHeight(2400).
//        SetOwner("42", "StatusBar").SetZOrderPath(0, 3).Build()
//
type Builder struct {
	r Rect
}

// NewBuilder creates a builder for a visible rect with identity transform.
func NewBuilder() *Builder {
	return &Builder{r: Rect{Transform: Identity, IsVisible: true}}
}

// SetX sets the left coordinate.
func (b *Builder) SetX(x float64) *Builder { b.r.X = x; return b }

// SetY sets the top coordinate.
func (b *Builder) SetY(y float64) *Builder { b.r.Y = y; return b }

// SetWidth sets the width.
func (b *Builder) SetWidth(w float64) *Builder { b.r.Width = w; return b }

// SetHeight sets the height.
func (b *Builder) SetHeight(h float64) *Builder { b.r.Height = h; return b }

// SetCornerRadius sets the corner radius.
func (b *Builder) SetCornerRadius(radius float64) *Builder { b.r.CornerRadius = radius; return b }

// SetOwner sets owner id, rect id and label from the owning node.
func (b *Builder) SetOwner(nodeID, nodeName string) *Builder {
	b.r.OwnerID = nodeID
	b.r.ID = RectID(nodeID, nodeName)
	b.r.Label = nodeName
	return b
}

// SetLabel overrides the label.
func (b *Builder) SetLabel(label string) *Builder { b.r.Label = label; return b }

// SetTransform sets the transform.
func (b *Builder) SetTransform(t Transform) *Builder { b.r.Transform = t; return b }

// SetGroupID sets the group id.
func (b *Builder) SetGroupID(id int64) *Builder { b.r.GroupID = id; return b }

// SetZOrderPath sets the z-order path.
func (b *Builder) SetZOrderPath(path ...int) *Builder {
	b.r.ZOrderPath = append([]int(nil), path...)
	return b
}

// SetIsVisible sets the visibility flag.
func (b *Builder) SetIsVisible(v bool) *Builder { b.r.IsVisible = v; return b }

// SetIsDisplay marks the rect as a display.
func (b *Builder) SetIsDisplay(v bool) *Builder { b.r.IsDisplay = v; return b }

// SetIsClickable sets the clickable flag.
func (b *Builder) SetIsClickable(v bool) *Builder { b.r.IsClickable = v; return b }

// SetIsVirtual marks the rect as virtual.
func (b *Builder) SetIsVirtual(v bool) *Builder { b.r.IsVirtual = v; return b }

// SetHasContent sets the content flag.
func (b *Builder) SetHasContent(v bool) *Builder { b.r.HasContent = v; return b }

// Build returns the rect. Negative extents and negative z-order path elements
// are rejected with tracescope.ErrInvariant.
func (b *Builder) Build() (Rect, error) {
	if b.r.Width < 0 || b.r.Height < 0 {
		return Rect{}, fmt.Errorf("%w: rect %q has negative extent", tracescope.ErrInvariant, b.r.ID)
	}
	for _, z := range b.r.ZOrderPath {
		if z < 0 {
			return Rect{}, fmt.Errorf("%w: rect %q has negative z-order %d", tracescope.ErrInvariant, b.r.ID, z)
		}
	}
	r := b.r
	r.ZOrderPath = append([]int(nil), b.r.ZOrderPath...)
	return r, nil
}
