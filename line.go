package wallgeom

import "math"

// Line represents an infinite line through P0 and P1.
// Segment operations treat P0 and P1 as endpoints.
type Line struct {
	P0, P1 Point
}

// NewLine creates a line through two points.
func NewLine(p0, p1 Point) Line {
	return Line{P0: p0, P1: p1}
}

// Direction returns the unnormalized direction vector of the line.
func (l Line) Direction() Vec2 {
	return l.P1.Sub(l.P0)
}

// Eval evaluates the line at parameter t. t=0 returns P0, t=1 returns P1.
func (l Line) Eval(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// isLeft returns positive if pt is left of line p0-p1, negative if right,
// zero if on the line.
func isLeft(p0, p1, pt Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}

// lineIntersection computes the intersection of two infinite lines.
// Returns ok=false when the lines are parallel within tol: the denominator
// of the parametric solution is the cross product of the directions, and a
// near-zero cross against near-unit directions means no stable solution
// exists.
func lineIntersection(a, b Line, tol float64) (Point, bool) {
	d1 := a.Direction()
	d2 := b.Direction()
	denom := d1.Cross(d2)

	scale := d1.Length() * d2.Length()
	if scale < 1e-12 || math.Abs(denom) <= tol*scale {
		return Point{}, false
	}

	w := b.P0.Sub(a.P0)
	t := w.Cross(d2) / denom
	return a.Eval(t), true
}

// segmentParams returns the parametric positions (t on a, u on b) of the
// intersection of the segments' carrier lines, and whether the solution is
// numerically stable.
func segmentParams(a, b Line, tol float64) (t, u float64, ok bool) {
	d1 := a.Direction()
	d2 := b.Direction()
	denom := d1.Cross(d2)

	scale := d1.Length() * d2.Length()
	if scale < 1e-12 || math.Abs(denom) <= tol*scale {
		return 0, 0, false
	}

	w := b.P0.Sub(a.P0)
	t = w.Cross(d2) / denom
	u = w.Cross(d1) / denom
	return t, u, true
}

// segmentIntersection computes the intersection point of two segments.
// A bounding-box prefilter rejects distant pairs before any division.
// Endpoints within tol of the other segment count as intersecting.
func segmentIntersection(a, b Line, tol float64) (Point, bool) {
	abox := NewRect(a.P0, a.P1).Expand(tol)
	bbox := NewRect(b.P0, b.P1).Expand(tol)
	if !abox.Overlaps(bbox) {
		return Point{}, false
	}

	t, u, ok := segmentParams(a, b, tol)
	if !ok {
		return Point{}, false
	}

	// Tolerance slack on the parameter range admits endpoint touches.
	tSlack := paramSlack(a, tol)
	uSlack := paramSlack(b, tol)
	if t < -tSlack || t > 1+tSlack || u < -uSlack || u > 1+uSlack {
		return Point{}, false
	}
	return a.Eval(t), true
}

// paramSlack converts a spatial tolerance into parameter-space slack for
// the segment. Degenerate segments get unbounded slack and are handled by
// the bbox prefilter instead.
func paramSlack(l Line, tol float64) float64 {
	length := l.Direction().Length()
	if length < 1e-12 {
		return 1
	}
	return tol / length
}

// pointSegmentDistance returns the distance from p to the segment l.
func pointSegmentDistance(p Point, l Line) float64 {
	d := l.Direction()
	lenSq := d.LengthSquared()
	if lenSq < 1e-24 {
		return p.DistanceTo(l.P0)
	}
	t := p.Sub(l.P0).Dot(d) / lenSq
	if t < 0 {
		return p.DistanceTo(l.P0)
	}
	if t > 1 {
		return p.DistanceTo(l.P1)
	}
	return p.DistanceTo(l.Eval(t))
}
