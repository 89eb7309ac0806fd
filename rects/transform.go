package rects

import "fmt"

// Transform is a 2D affine transform:
//
//    x' = DSDX*x + DSDY*y + TX
//    y' = DTDX*x + DTDY*y + TY
//
type Transform struct {
	DSDX, DTDX, DSDY, DTDY float64
	TX, TY                 float64
}

// Identity is the transform leaving every point unchanged.
var Identity = Transform{DSDX: 1, DTDY: 1}

// Apply maps a point.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.DSDX*x + t.DSDY*y + t.TX, t.DTDX*x + t.DTDY*y + t.TY
}

// Then returns the transform applying t first, then u.
func (t Transform) Then(u Transform) Transform {
	return Transform{
		DSDX: u.DSDX*t.DSDX + u.DSDY*t.DTDX,
		DTDX: u.DTDX*t.DSDX + u.DTDY*t.DTDX,
		DSDY: u.DSDX*t.DSDY + u.DSDY*t.DTDY,
		DTDY: u.DTDX*t.DSDY + u.DTDY*t.DTDY,
		TX:   u.DSDX*t.TX + u.DSDY*t.TY + u.TX,
		TY:   u.DTDX*t.TX + u.DTDY*t.TY + u.TY,
	}
}

// IsIdentity is true for the identity transform.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

func (t Transform) String() string {
	return fmt.Sprintf("[%g %g %g; %g %g %g]", t.DSDX, t.DSDY, t.TX, t.DTDX, t.DTDY, t.TY)
}
