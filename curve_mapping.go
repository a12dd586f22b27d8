package compositor

import (
	"fmt"
	"slices"
)

// Curve is a piecewise-linear function given by control points sorted by
// x. It is constant beyond the first and last point. An empty curve is the
// identity.
type Curve struct {
	points [][2]float32
}

// NewCurve creates a curve from control points in any order.
func NewCurve(points [][2]float32) (Curve, error) {
	pts := slices.Clone(points)
	slices.SortStableFunc(pts, func(a, b [2]float32) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		default:
			return 0
		}
	})
	for i := 1; i < len(pts); i++ {
		if pts[i][0] == pts[i-1][0] {
			return Curve{}, fmt.Errorf("%w: two curve points at x=%g", ErrInvalidProperty, pts[i][0])
		}
	}
	return Curve{points: pts}, nil
}

// FlatCurve returns a curve that is y everywhere.
func FlatCurve(y float32) Curve {
	return Curve{points: [][2]float32{{0, y}}}
}

// IsIdentity reports whether the curve has no control points.
func (c Curve) IsIdentity() bool { return len(c.points) == 0 }

// Eval returns the curve value at x.
func (c Curve) Eval(x float32) float32 {
	pts := c.points
	switch {
	case len(pts) == 0:
		return x
	case x <= pts[0][0]:
		return pts[0][1]
	case x >= pts[len(pts)-1][0]:
		return pts[len(pts)-1][1]
	}
	i, _ := slices.BinarySearchFunc(pts, x, func(p [2]float32, x float32) int {
		switch {
		case p[0] < x:
			return -1
		case p[0] > x:
			return 1
		default:
			return 0
		}
	})
	if pts[i][0] == x {
		return pts[i][1]
	}
	a, b := pts[i-1], pts[i]
	t := (x - a[0]) / (b[0] - a[0])
	return a[1] + (b[1]-a[1])*t
}

// CurveMapping holds the curves of an RGB curves node. Combined is applied
// before the per-channel curves.
type CurveMapping struct {
	Combined, R, G, B Curve
}

// Eval maps one colour. Alpha is left alone.
func (m *CurveMapping) Eval(c Pixel) Pixel {
	c[0] = m.R.Eval(m.Combined.Eval(c[0]))
	c[1] = m.G.Eval(m.Combined.Eval(c[1]))
	c[2] = m.B.Eval(m.Combined.Eval(c[2]))
	return c
}

// curveProperty reads a curve from a list of [x, y] points under key.
func curveProperty(p Properties, key string, def Curve) (Curve, error) {
	pts, ok, err := p.Points(key)
	if err != nil || !ok {
		return def, err
	}
	return NewCurve(pts)
}
