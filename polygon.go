package wallgeom

import "math"

// Polygon is an outer ring with zero or more holes. Rings are ordered
// point sequences with an implicit closing segment. Holes must lie inside
// the outer ring and must not self-intersect; the validator enforces both.
type Polygon struct {
	Outer []Point
	Holes [][]Point
}

// NewPolygon creates a polygon from an outer ring.
func NewPolygon(outer ...Point) *Polygon {
	return &Polygon{Outer: outer}
}

// Clone returns a deep copy of the polygon.
func (p *Polygon) Clone() *Polygon {
	out := &Polygon{Outer: make([]Point, len(p.Outer))}
	copy(out.Outer, p.Outer)
	for _, h := range p.Holes {
		hole := make([]Point, len(h))
		copy(hole, h)
		out.Holes = append(out.Holes, hole)
	}
	return out
}

// ringArea computes the signed area of a ring using the shoelace formula.
// Positive for counter-clockwise rings.
func ringArea(ring []Point) float64 {
	var area float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		area += 0.5 * (a.X*b.Y - b.X*a.Y)
	}
	return area
}

// Area returns the enclosed area: outer ring area minus hole areas.
// Always non-negative for well-formed polygons.
func (p *Polygon) Area() float64 {
	area := math.Abs(ringArea(p.Outer))
	for _, h := range p.Holes {
		area -= math.Abs(ringArea(h))
	}
	return area
}

// ringWinding returns the winding number of pt relative to a ring.
// Uses upward/downward crossing counting with a horizontal ray.
func ringWinding(ring []Point, pt Point) int {
	var winding int
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if a.Y <= pt.Y && b.Y > pt.Y {
			if isLeft(a, b, pt) > 0 {
				winding++
			}
		} else if a.Y > pt.Y && b.Y <= pt.Y {
			if isLeft(a, b, pt) < 0 {
				winding--
			}
		}
	}
	return winding
}

// Contains tests whether a point is inside the polygon (non-zero rule),
// accounting for holes.
func (p *Polygon) Contains(pt Point) bool {
	if ringWinding(p.Outer, pt) == 0 {
		return false
	}
	for _, h := range p.Holes {
		if ringWinding(h, pt) != 0 {
			return false
		}
	}
	return true
}

// BoundingBox returns the bounding box of the outer ring.
func (p *Polygon) BoundingBox() Rect {
	if len(p.Outer) == 0 {
		return Rect{}
	}
	bbox := Rect{Min: p.Outer[0], Max: p.Outer[0]}
	for _, pt := range p.Outer[1:] {
		bbox = Rect{
			Min: Point{X: math.Min(bbox.Min.X, pt.X), Y: math.Min(bbox.Min.Y, pt.Y)},
			Max: Point{X: math.Max(bbox.Max.X, pt.X), Y: math.Max(bbox.Max.Y, pt.Y)},
		}
	}
	return bbox
}

// IsClockwise reports whether the outer ring is clockwise.
func (p *Polygon) IsClockwise() bool {
	return ringArea(p.Outer) < 0
}

// ringSelfIntersects checks whether any two non-adjacent segments of the
// ring cross. O(n^2) with a bbox prefilter per pair; wall rings are small.
func ringSelfIntersects(ring []Point, tol float64) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a := NewLine(ring[i], ring[(i+1)%n])
		for j := i + 2; j < n; j++ {
			// Skip adjacent segments (shared vertices always touch).
			if i == 0 && j == n-1 {
				continue
			}
			b := NewLine(ring[j], ring[(j+1)%n])
			// Only interior crossings count: shrink the parameter range
			// away from endpoints by the tolerance slack.
			t, u, ok := segmentParams(a, b, tol)
			if !ok {
				continue
			}
			ts := paramSlack(a, tol)
			us := paramSlack(b, tol)
			if t > ts && t < 1-ts && u > us && u < 1-us {
				return true
			}
		}
	}
	return false
}

// SelfIntersects reports whether the outer ring or any hole crosses itself.
func (p *Polygon) SelfIntersects(tol float64) bool {
	if ringSelfIntersects(p.Outer, tol) {
		return true
	}
	for _, h := range p.Holes {
		if ringSelfIntersects(h, tol) {
			return true
		}
	}
	return false
}

// dedupRing removes consecutive points that coincide within tol, including
// a trailing point that duplicates the first. Returns the cleaned ring and
// the number of points removed.
func dedupRing(ring []Point, tol float64) ([]Point, int) {
	if len(ring) == 0 {
		return ring, 0
	}
	out := make([]Point, 0, len(ring))
	out = append(out, ring[0])
	for _, pt := range ring[1:] {
		if !pt.EqualWithin(out[len(out)-1], tol) {
			out = append(out, pt)
		}
	}
	for len(out) > 1 && out[len(out)-1].EqualWithin(out[0], tol) {
		out = out[:len(out)-1]
	}
	return out, len(ring) - len(out)
}

// IsFinite reports whether every vertex of the polygon is finite.
func (p *Polygon) IsFinite() bool {
	for _, pt := range p.Outer {
		if !pt.IsFinite() {
			return false
		}
	}
	for _, h := range p.Holes {
		for _, pt := range h {
			if !pt.IsFinite() {
				return false
			}
		}
	}
	return true
}
