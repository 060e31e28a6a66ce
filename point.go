package wallgeom

import (
	"math"

	"github.com/google/uuid"
)

// CreationMethod records how a point came to exist. It travels with the
// point so that diagnostics can distinguish user input from computed
// geometry when a junction degrades.
type CreationMethod string

// Known creation methods.
const (
	CreatedManual       CreationMethod = "manual"
	CreatedOffset       CreationMethod = "offset"
	CreatedIntersection CreationMethod = "intersection"
	CreatedBoolean      CreationMethod = "boolean"
	CreatedHealing      CreationMethod = "healing"
)

// Point represents a 2D position on the plan together with its provenance.
// Points are immutable once created: derived positions are new points.
//
// Points are never compared with exact float equality; use EqualWithin or
// DistanceTo against a tolerance from the tolerance manager.
type Point struct {
	X, Y           float64
	ID             string
	Tolerance      float64
	CreationMethod CreationMethod
	Accuracy       float64
	Validated      bool
}

// Pt creates a bare geometric point with no provenance.
// Used for intermediate math where identity does not matter.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NewPoint creates an identified point with the given provenance.
// Accuracy defaults to 1 (exact as far as the creator knows).
func NewPoint(x, y, tolerance float64, method CreationMethod) Point {
	return Point{
		X:              x,
		Y:              y,
		ID:             uuid.NewString(),
		Tolerance:      tolerance,
		CreationMethod: method,
		Accuracy:       1,
	}
}

// Vec returns the position as a vector from the origin.
func (p Point) Vec() Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// Add returns the point displaced by v. Provenance is not inherited.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// DistanceTo returns the distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// EqualWithin reports whether two points coincide within tol.
func (p Point) EqualWithin(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return p.Vec().IsFinite()
}

// WithProvenance returns a copy of p carrying identity and provenance.
// Used when a bare computed position is promoted to model geometry.
func (p Point) WithProvenance(tolerance float64, method CreationMethod, accuracy float64) Point {
	p.ID = uuid.NewString()
	p.Tolerance = tolerance
	p.CreationMethod = method
	p.Accuracy = accuracy
	return p
}
