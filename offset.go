package wallgeom

import (
	"fmt"
	"math"
)

// OffsetResult is the outcome of offsetting a baseline.
// Stages inspect Success and Warnings instead of relying on panics; a
// degraded result with FallbackUsed set is still usable geometry.
type OffsetResult struct {
	Success      bool
	LeftOffset   *Curve
	RightOffset  *Curve
	JoinType     JoinType
	Warnings     []string
	FallbackUsed bool
}

// OffsetEngine produces the parallel offset curves forming the two faces
// of a wall. The join policy controls the geometry at interior vertices;
// miter joins that exceed the miter limit or self-intersect degrade to
// bevel rather than failing.
type OffsetEngine struct {
	Tolerance  ToleranceManager
	MiterLimit float64
}

// NewOffsetEngine creates an offset engine with the given miter limit.
// A non-positive limit falls back to DefaultMiterLimit.
func NewOffsetEngine(tm ToleranceManager, miterLimit float64) *OffsetEngine {
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}
	return &OffsetEngine{Tolerance: tm, MiterLimit: miterLimit}
}

// OffsetCurve offsets the baseline by halfThickness on each side.
// The left offset lies along the positive normal of the travel direction
// (counter-clockwise perpendicular), the right offset along the negative.
//
// Degenerate input (fewer than 2 points, all segments zero-length,
// non-finite coordinates) yields Success=false with diagnostic warnings.
func (e *OffsetEngine) OffsetCurve(baseline *Curve, halfThickness float64, join JoinType) OffsetResult {
	result := OffsetResult{JoinType: join}

	if baseline == nil || len(baseline.Points) < 2 {
		result.Warnings = append(result.Warnings, "baseline requires at least 2 points")
		return result
	}
	if halfThickness <= 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("half thickness must be positive, got %g", halfThickness))
		return result
	}
	if !baseline.IsFinite() {
		result.Warnings = append(result.Warnings, "baseline contains non-finite coordinates")
		return result
	}

	tol := e.Tolerance.Calculate(2*halfThickness, math.Pi/2, ContextOffset)

	segs, dropped := usableSegments(baseline, tol)
	if dropped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("skipped %d zero-length baseline segment(s)", dropped))
	}
	if len(segs) == 0 {
		result.Warnings = append(result.Warnings, "baseline has no usable segments")
		return result
	}

	left, leftFellBack := e.offsetSide(segs, halfThickness, join, +1, baseline.Closed, tol)
	right, rightFellBack := e.offsetSide(segs, halfThickness, join, -1, baseline.Closed, tol)

	if join == JoinMiter {
		// A miter apex can fold the offset over itself on tight zigzags.
		// Rebuild with bevel joins when that happens.
		if ringSelfIntersects(left.Points, tol) || ringSelfIntersects(right.Points, tol) {
			left, _ = e.offsetSide(segs, halfThickness, JoinBevel, +1, baseline.Closed, tol)
			right, _ = e.offsetSide(segs, halfThickness, JoinBevel, -1, baseline.Closed, tol)
			result.JoinType = JoinBevel
			result.FallbackUsed = true
			result.Warnings = append(result.Warnings,
				"miter offset self-intersected, rebuilt with bevel joins")
		}
	}
	if leftFellBack || rightFellBack {
		result.FallbackUsed = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("miter limit %g exceeded at one or more vertices, beveled instead", e.MiterLimit))
	}

	left.Closed = baseline.Closed
	right.Closed = baseline.Closed
	result.LeftOffset = left
	result.RightOffset = right
	result.Success = true
	return result
}

// segment is a usable (non-degenerate) baseline segment with its unit
// tangent and normal precomputed.
type segment struct {
	a, b    Point
	tangent Vec2
	normal  Vec2
}

// usableSegments extracts non-degenerate segments from the baseline and
// reports how many were dropped.
func usableSegments(baseline *Curve, tol float64) ([]segment, int) {
	var segs []segment
	dropped := 0
	for i := 0; i < baseline.SegmentCount(); i++ {
		a, b := baseline.Segment(i)
		d := b.Sub(a)
		if d.Length() <= tol {
			dropped++
			continue
		}
		t := d.Normalize()
		segs = append(segs, segment{a: a, b: b, tangent: t, normal: t.Perp()})
	}
	return segs, dropped
}

// offsetSide builds one offset polyline. side is +1 for the left face and
// -1 for the right. Returns the curve and whether any miter degraded to
// bevel under the limit check.
func (e *OffsetEngine) offsetSide(segs []segment, half float64, join JoinType, side float64, closed bool, tol float64) (*Curve, bool) {
	out := &Curve{Type: CurvePolyline}
	fellBack := false

	push := func(p Point) {
		p.CreationMethod = CreatedOffset
		p.Tolerance = tol
		if n := len(out.Points); n > 0 && out.Points[n-1].EqualWithin(p, tol) {
			return
		}
		out.Points = append(out.Points, p)
	}

	shift := func(s segment, pt Point) Point {
		return pt.Add(s.normal.Mul(side * half))
	}

	if !closed {
		push(shift(segs[0], segs[0].a))
	}

	n := len(segs)
	joins := n - 1
	if closed {
		joins = n
	}
	for i := 0; i < joins; i++ {
		prev := segs[i]
		next := segs[(i+1)%n]
		vertex := prev.b

		prevEnd := shift(prev, prev.b)
		nextStart := shift(next, next.a)

		// Straight continuation: nothing to join.
		if prevEnd.EqualWithin(nextStart, tol) {
			push(prevEnd)
			continue
		}

		switch join {
		case JoinMiter:
			if apex, ok := e.miterApex(prev, next, side, half, vertex, tol); ok {
				push(apex)
				continue
			}
			fellBack = true
			fallthrough
		case JoinBevel:
			push(prevEnd)
			push(nextStart)
		case JoinRound:
			for _, p := range arcPoints(vertex, prevEnd, nextStart, half, tol) {
				push(p)
			}
		default:
			push(prevEnd)
			push(nextStart)
		}
	}

	if closed {
		// The last join already emitted the wrap-around vertex geometry.
		if len(out.Points) > 1 && out.Points[len(out.Points)-1].EqualWithin(out.Points[0], tol) {
			out.Points = out.Points[:len(out.Points)-1]
		}
	} else {
		push(shift(segs[n-1], segs[n-1].b))
	}
	return out, fellBack
}

// miterApex extends the two adjacent offset carrier lines to their
// intersection. Returns ok=false when the lines are too parallel to
// intersect stably or the apex violates the miter limit.
func (e *OffsetEngine) miterApex(prev, next segment, side, half float64, vertex Point, tol float64) (Point, bool) {
	angle := prev.tangent.AngleBetween(next.tangent)
	localTol := e.Tolerance.Calculate(2*half, angle, ContextOffset)

	a := Line{P0: prev.a.Add(prev.normal.Mul(side * half)), P1: prev.b.Add(prev.normal.Mul(side * half))}
	b := Line{P0: next.a.Add(next.normal.Mul(side * half)), P1: next.b.Add(next.normal.Mul(side * half))}

	// The parallel rejection threshold is the sine of the angle between
	// the carriers; reuse the tolerance's parallel regime for it.
	apex, ok := lineIntersection(a, b, math.Min(localTol/math.Max(half, 1), degenerateAngleSin))
	if !ok {
		return Point{}, false
	}
	if apex.DistanceTo(vertex) > e.MiterLimit*half {
		return Point{}, false
	}
	if !apex.IsFinite() {
		return Point{}, false
	}
	return apex, true
}

// arcPoints approximates the round-join arc centered at the baseline
// vertex, sweeping from the previous offset endpoint to the next offset
// start. The angular step keeps the chord sagitta within tol.
func arcPoints(center, from, to Point, radius, tol float64) []Point {
	a0 := from.Sub(center).Angle()
	a1 := to.Sub(center).Angle()

	sweep := a1 - a0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}

	maxStep := math.Pi / 8
	if radius > 0 && tol < radius {
		maxStep = 2 * math.Acos(1-tol/radius)
		if maxStep <= 0 || math.IsNaN(maxStep) {
			maxStep = math.Pi / 8
		}
	}
	steps := int(math.Ceil(math.Abs(sweep) / maxStep))
	if steps < 1 {
		steps = 1
	}

	pts := make([]Point, 0, steps+1)
	pts = append(pts, from)
	for i := 1; i < steps; i++ {
		ang := a0 + sweep*float64(i)/float64(steps)
		pts = append(pts, center.Add(V2(math.Cos(ang), math.Sin(ang)).Mul(radius)))
	}
	pts = append(pts, to)
	return pts
}

// SolidOutline assembles the wall's solid polygon from its offsets: the
// left face forward, the right face reversed, butt caps joining the ends.
// Closed baselines produce a ring with the inner face as a hole.
func SolidOutline(baseline *Curve, left, right *Curve) *Polygon {
	if left == nil || right == nil || len(left.Points) == 0 || len(right.Points) == 0 {
		return nil
	}
	if baseline != nil && baseline.Closed {
		outer, inner := left, right
		// The outer ring is the larger of the two loops.
		if math.Abs(ringArea(right.Points)) > math.Abs(ringArea(left.Points)) {
			outer, inner = right, left
		}
		poly := NewPolygon(outer.Points...)
		if len(inner.Points) >= 3 {
			poly.Holes = append(poly.Holes, inner.Points)
		}
		return poly
	}

	ring := make([]Point, 0, len(left.Points)+len(right.Points))
	ring = append(ring, left.Points...)
	for i := len(right.Points) - 1; i >= 0; i-- {
		ring = append(ring, right.Points[i])
	}
	return NewPolygon(ring...)
}
