package wallgeom

import "math"

// Rect represents an axis-aligned rectangle.
// Min holds the minimum coordinates and Max the maximum coordinates.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y)},
		Max: Point{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y)},
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand returns the rectangle grown by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Overlaps reports whether two rectangles share any area.
// Touching edges count as overlapping.
func (r Rect) Overlaps(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// CurveType identifies how a curve's point sequence is interpreted.
type CurveType string

// Supported curve types. Arcs are carried as flattened polylines
// internally; the type is preserved for round-tripping.
const (
	CurvePolyline CurveType = "polyline"
	CurveArc      CurveType = "arc"
)

// Curve is an ordered sequence of at least two points.
// A curve with Closed set has an implicit segment from the last point back
// to the first. Consecutive points are expected not to coincide within
// tolerance; violations are surfaced as validation warnings, not failures.
type Curve struct {
	Points []Point
	Type   CurveType
	Closed bool
}

// NewCurve creates a polyline curve over the given points.
func NewCurve(points ...Point) *Curve {
	return &Curve{Points: points, Type: CurvePolyline}
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	out := &Curve{
		Points: make([]Point, len(c.Points)),
		Type:   c.Type,
		Closed: c.Closed,
	}
	copy(out.Points, c.Points)
	return out
}

// SegmentCount returns the number of segments, including the implicit
// closing segment of a closed curve.
func (c *Curve) SegmentCount() int {
	if len(c.Points) < 2 {
		return 0
	}
	n := len(c.Points) - 1
	if c.Closed {
		n++
	}
	return n
}

// Segment returns the i-th segment endpoints.
// For a closed curve, i == len(Points)-1 wraps to the first point.
func (c *Curve) Segment(i int) (Point, Point) {
	a := c.Points[i]
	b := c.Points[(i+1)%len(c.Points)]
	return a, b
}

// Length returns the total arc length of the curve.
func (c *Curve) Length() float64 {
	var length float64
	for i := 0; i < c.SegmentCount(); i++ {
		a, b := c.Segment(i)
		length += a.DistanceTo(b)
	}
	return length
}

// BoundingBox returns the axis-aligned bounding box of the curve.
// An empty curve yields the zero rectangle.
func (c *Curve) BoundingBox() Rect {
	if len(c.Points) == 0 {
		return Rect{}
	}
	bbox := Rect{Min: c.Points[0], Max: c.Points[0]}
	for _, p := range c.Points[1:] {
		bbox = Rect{
			Min: Point{X: math.Min(bbox.Min.X, p.X), Y: math.Min(bbox.Min.Y, p.Y)},
			Max: Point{X: math.Max(bbox.Max.X, p.X), Y: math.Max(bbox.Max.Y, p.Y)},
		}
	}
	return bbox
}

// TangentAt returns the unit tangent of the segment starting at point i.
// Returns the zero vector for a degenerate (zero-length) segment.
func (c *Curve) TangentAt(i int) Vec2 {
	if i < 0 || i >= c.SegmentCount() {
		return Vec2{}
	}
	a, b := c.Segment(i)
	return b.Sub(a).Normalize()
}

// CurvatureAt returns the discrete curvature at interior vertex i:
// the turn angle between incoming and outgoing segments divided by the
// average adjacent segment length. Endpoints of open curves have zero
// curvature.
func (c *Curve) CurvatureAt(i int) float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	if !c.Closed && (i <= 0 || i >= n-1) {
		return 0
	}
	prev := c.Points[(i-1+n)%n]
	cur := c.Points[i]
	next := c.Points[(i+1)%n]

	in := cur.Sub(prev)
	out := next.Sub(cur)
	avgLen := (in.Length() + out.Length()) / 2
	if avgLen < 1e-12 {
		return 0
	}
	return in.AngleBetween(out) / avgLen
}

// Reversed returns a copy of the curve with point order reversed.
func (c *Curve) Reversed() *Curve {
	out := c.Clone()
	for i, j := 0, len(out.Points)-1; i < j; i, j = i+1, j-1 {
		out.Points[i], out.Points[j] = out.Points[j], out.Points[i]
	}
	return out
}

// IsFinite reports whether every point on the curve is finite.
func (c *Curve) IsFinite() bool {
	for _, p := range c.Points {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
