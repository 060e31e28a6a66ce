package wallgeom

import (
	"fmt"
	"math"
	"time"
)

// BooleanOp selects the ring-clipping operation.
type BooleanOp string

// Supported boolean operations.
const (
	OpUnion        BooleanOp = "union"
	OpIntersection BooleanOp = "intersection"
	OpDifference   BooleanOp = "difference"
)

// BooleanResult is the outcome of combining wall solids.
// RequiresHealing flags degeneracies found by the post-clip scan; healing
// itself is the validator's job so clipping stays a pure geometric step.
type BooleanResult struct {
	Success         bool
	ResultSolid     *WallSolid
	ProcessingTime  time.Duration
	Warnings        []string
	RequiresHealing bool

	// FailureKind classifies the failure when Success is false so callers
	// can wrap it in a GeometricError of the right kind.
	FailureKind ErrorKind
}

// BooleanEngine combines wall solid geometry with ring clipping.
type BooleanEngine struct {
	Tolerance ToleranceManager
}

// NewBooleanEngine creates a boolean engine over the tolerance manager.
func NewBooleanEngine(tm ToleranceManager) *BooleanEngine {
	return &BooleanEngine{Tolerance: tm}
}

// Combine folds the participants' solid geometry into a single polygon set
// under op. On internal numerical failure the clip is retried once per
// coarser tolerance tier before reporting Success=false.
func (e *BooleanEngine) Combine(solids []*WallSolid, op BooleanOp) BooleanResult {
	start := time.Now()
	result := BooleanResult{}

	if len(solids) == 0 {
		result.Warnings = append(result.Warnings, "no solids to combine")
		result.FailureKind = ErrBooleanFailure
		return result
	}

	maxThickness := 0.0
	var polys []*Polygon
	for _, s := range solids {
		if s == nil {
			continue
		}
		if s.Thickness > maxThickness {
			maxThickness = s.Thickness
		}
		for _, p := range s.SolidGeometry {
			if p != nil && len(p.Outer) >= 3 {
				polys = append(polys, p)
			}
		}
	}
	if len(polys) == 0 {
		result.Warnings = append(result.Warnings, "participants carry no solid geometry")
		result.FailureKind = ErrBooleanFailure
		return result
	}

	baseTol := e.Tolerance.Calculate(maxThickness, math.Pi/2, ContextBoolean)

	var combined []*Polygon
	var ok bool
	for _, tol := range ToleranceTiers(baseTol) {
		combined, ok = e.combineAt(polys, op, tol)
		if ok {
			if tol != baseTol {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("clip retried at coarser tolerance %g", tol))
			}
			break
		}
	}
	if !ok {
		result.Warnings = append(result.Warnings, "clipping failed at every tolerance tier")
		result.FailureKind = ErrToleranceExceeded
		result.ProcessingTime = time.Since(start)
		return result
	}

	// Degeneracy scan: slivers, near-duplicate vertices, residual
	// self-intersections. The area threshold scales with thickness so a
	// sliver is judged relative to the wall it came from.
	areaTol := baseTol * math.Max(maxThickness, 1)
	scanned := make([]*Polygon, 0, len(combined))
	for _, p := range combined {
		if !p.IsFinite() {
			result.Warnings = append(result.Warnings, "dropped polygon with non-finite coordinates")
			result.RequiresHealing = true
			continue
		}
		if math.Abs(ringArea(p.Outer)) < areaTol {
			result.Warnings = append(result.Warnings, "sliver face detected")
			result.RequiresHealing = true
		}
		if _, removed := dedupRing(p.Outer, baseTol); removed > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d near-duplicate vertices detected", removed))
			result.RequiresHealing = true
		}
		if p.SelfIntersects(baseTol) {
			result.Warnings = append(result.Warnings, "residual self-intersection detected")
			result.RequiresHealing = true
		}
		scanned = append(scanned, p)
	}

	out := NewWallSolid(solids[0].Baseline, solids[0].Thickness, solids[0].WallType)
	out.SolidGeometry = scanned
	out.Complexity = out.ComputeComplexity()

	result.ResultSolid = out
	result.Success = true
	result.ProcessingTime = time.Since(start)
	return result
}

// combineAt folds the polygon list pairwise at a fixed tolerance.
// Returns ok=false on numerical failure so the caller can retry coarser.
func (e *BooleanEngine) combineAt(polys []*Polygon, op BooleanOp, tol float64) ([]*Polygon, bool) {
	var acc []*Polygon
	var ok bool
	if op == OpUnion {
		acc, ok = unionFold(polys, tol)
	} else {
		acc, ok = clipFold(polys, op, tol)
	}
	if !ok {
		return nil, false
	}
	for _, p := range acc {
		if !p.IsFinite() {
			return nil, false
		}
	}
	return acc, true
}

// clipFold applies intersection or difference left to right, clipping every
// accumulated ring against the next polygon.
func clipFold(polys []*Polygon, op BooleanOp, tol float64) ([]*Polygon, bool) {
	acc := []*Polygon{polys[0].Clone()}
	for _, next := range polys[1:] {
		var merged []*Polygon
		for _, a := range acc {
			out, ok := clipPolygons(a, next, op, tol)
			if !ok {
				return nil, false
			}
			merged = append(merged, out...)
		}
		acc = merged
		if len(acc) == 0 {
			break
		}
	}
	return acc, true
}

// unionFold folds each polygon into the accumulated ring set. The incoming
// polygon grows by absorbing every accumulator ring it overlaps, so a ring
// that bridges previously disjoint rings merges them into one instead of
// being unioned once per ring. The accumulator stays pairwise disjoint: a
// kept ring was disjoint from the running polygon when tested, and the
// polygon only grows by absorbing rings the kept ring was already disjoint
// from.
func unionFold(polys []*Polygon, tol float64) ([]*Polygon, bool) {
	acc := []*Polygon{polys[0].Clone()}
	for _, next := range polys[1:] {
		cur := next.Clone()
		kept := make([]*Polygon, 0, len(acc))
		for _, a := range acc {
			out, ok := clipPolygons(a, cur, OpUnion, tol)
			if !ok {
				return nil, false
			}
			if len(out) == 1 && polygonAbsorbed(out[0], a, cur, tol) {
				cur = out[0]
				continue
			}
			kept = append(kept, a)
		}
		acc = append(kept, cur)
	}
	return acc, true
}

// polygonAbsorbed reports whether out covers both a and b, meaning the
// union pass actually merged them.
func polygonAbsorbed(out, a, b *Polygon, tol float64) bool {
	_ = tol
	return out.Contains(ringMidpoint(a.Outer)) && out.Contains(ringMidpoint(b.Outer))
}

// ringMidpoint returns the midpoint of the ring's first edge, shifted
// slightly toward the centroid so it lands inside the ring rather than on
// the boundary.
func ringMidpoint(ring []Point) Point {
	if len(ring) == 0 {
		return Point{}
	}
	if len(ring) == 1 {
		return ring[0]
	}
	mid := ring[0].Lerp(ring[1], 0.5)
	var cx, cy float64
	for _, p := range ring {
		cx += p.X
		cy += p.Y
	}
	c := Pt(cx/float64(len(ring)), cy/float64(len(ring)))
	return mid.Lerp(c, 1e-3)
}

// --- ring clipping -------------------------------------------------------

// clipVertex is a node in the doubly linked vertex ring used by the
// clipping walk. Intersection nodes carry a link to their twin on the
// other polygon.
type clipVertex struct {
	p          Point
	next, prev *clipVertex
	intersect  bool
	entry      bool
	visited    bool
	neighbor   *clipVertex
	alpha      float64
}

// buildRing converts a point ring to a circular doubly linked list.
func buildRing(ring []Point) *clipVertex {
	var head, tail *clipVertex
	for _, p := range ring {
		v := &clipVertex{p: p}
		if head == nil {
			head = v
			tail = v
			continue
		}
		tail.next = v
		v.prev = tail
		tail = v
	}
	tail.next = head
	head.prev = tail
	return head
}

// insertSorted inserts an intersection vertex between start and the next
// original vertex, ordered by alpha.
func insertSorted(start *clipVertex, v *clipVertex) {
	cur := start
	for cur.next.intersect && cur.next.alpha < v.alpha {
		cur = cur.next
	}
	v.next = cur.next
	v.prev = cur
	cur.next.prev = v
	cur.next = v
}

// ringVertices materializes the original (non-intersection) points of a
// linked ring in order, starting at head.
func originalEdges(head *clipVertex) []*clipVertex {
	var out []*clipVertex
	for v := head; ; {
		if !v.intersect {
			out = append(out, v)
		}
		v = v.next
		if v == head {
			break
		}
	}
	return out
}

// nextOriginal returns the next non-intersection vertex after v.
func nextOriginal(v *clipVertex) *clipVertex {
	for n := v.next; ; n = n.next {
		if !n.intersect {
			return n
		}
	}
}

// clipPolygons clips subject against clip under op at tolerance tol using
// an entry/exit walk over the rings. Hole rings are carried through by
// containment after the outer rings are resolved.
//
// Returns ok=false when the walk hits numerically unusable geometry so
// the caller can retry at a coarser tolerance.
func clipPolygons(subject, clip *Polygon, op BooleanOp, tol float64) ([]*Polygon, bool) {
	subjRing, _ := dedupRing(subject.Outer, tol)
	clipRing, _ := dedupRing(clip.Outer, tol)
	if len(subjRing) < 3 || len(clipRing) < 3 {
		return nil, false
	}

	// Orient both rings counter-clockwise; the entry/exit inversion table
	// below assumes it.
	if ringArea(subjRing) < 0 {
		subjRing = reverseRing(subjRing)
	}
	if ringArea(clipRing) < 0 {
		clipRing = reverseRing(clipRing)
	}

	// Degenerate vertex-on-edge placements make the walk ambiguous;
	// nudge the clip ring by a sub-tolerance amount to break ties.
	if hasDegeneratePlacement(subjRing, clipRing, tol) {
		clipRing = perturbRing(clipRing, tol*1e-2)
	}

	subjHead := buildRing(subjRing)
	clipHead := buildRing(clipRing)

	found := markIntersections(subjHead, clipHead, tol)
	if found == 0 {
		return clipDisjoint(subjRing, clipRing, subject, clip, op, tol)
	}

	markEntries(subjHead, clipRing, op, true)
	markEntries(clipHead, subjRing, op, false)

	rings, ok := traceRings(subjHead, tol)
	if !ok {
		return nil, false
	}

	var out []*Polygon
	for _, ring := range rings {
		ring, _ = dedupRing(ring, tol)
		if len(ring) < 3 {
			continue
		}
		poly := NewPolygon(ring...)
		attachSurvivingHoles(poly, subject, clip, op, tol)
		out = append(out, poly)
	}
	return out, true
}

// markIntersections finds all edge crossings between the two rings and
// links twin intersection vertices into both lists. Returns the number of
// crossings inserted.
func markIntersections(subjHead, clipHead *clipVertex, tol float64) int {
	count := 0
	for _, sv := range originalEdges(subjHead) {
		sNext := nextOriginal(sv)
		for _, cv := range originalEdges(clipHead) {
			cNext := nextOriginal(cv)
			a := NewLine(sv.p, sNext.p)
			b := NewLine(cv.p, cNext.p)

			t, u, ok := segmentParams(a, b, 1e-12)
			if !ok {
				continue
			}
			if t < 0 || t > 1 || u < 0 || u > 1 {
				continue
			}
			p := a.Eval(t)
			si := &clipVertex{p: p, intersect: true, alpha: t}
			ci := &clipVertex{p: p, intersect: true, alpha: u}
			si.neighbor = ci
			ci.neighbor = si
			insertSorted(sv, si)
			insertSorted(cv, ci)
			count++
		}
	}
	return count
}

// markEntries walks a ring toggling entry/exit state against the other
// polygon's ring, then applies the per-operation inversion: union inverts
// both sides, difference inverts the subject side only.
func markEntries(head *clipVertex, other []Point, op BooleanOp, isSubject bool) {
	inside := ringWinding(other, head.p) != 0
	entry := !inside

	invert := false
	switch op {
	case OpUnion:
		invert = true
	case OpDifference:
		invert = isSubject
	}

	for v := head; ; {
		if v.intersect {
			v.entry = entry != invert
			entry = !entry
		}
		v = v.next
		if v == head {
			break
		}
	}
}

// traceRings walks unvisited intersections collecting output rings.
// Bounded by the total vertex count; exceeding it means the entry flags
// are inconsistent (numerically hostile input) and the walk fails.
func traceRings(subjHead *clipVertex, tol float64) ([][]Point, bool) {
	total := 0
	for v := subjHead; ; {
		total++
		v = v.next
		if v == subjHead {
			break
		}
	}
	limit := total * 8

	var rings [][]Point
	for {
		var start *clipVertex
		for v := subjHead; ; {
			if v.intersect && !v.visited {
				start = v
				break
			}
			v = v.next
			if v == subjHead {
				break
			}
		}
		if start == nil {
			break
		}

		var ring []Point
		cur := start
		steps := 0
		for {
			cur.visited = true
			if cur.neighbor != nil {
				cur.neighbor.visited = true
			}
			if cur.entry {
				for {
					cur = cur.next
					ring = append(ring, cur.p)
					steps++
					if steps > limit {
						return nil, false
					}
					if cur.intersect {
						break
					}
				}
			} else {
				for {
					cur = cur.prev
					ring = append(ring, cur.p)
					steps++
					if steps > limit {
						return nil, false
					}
					if cur.intersect {
						break
					}
				}
			}
			cur = cur.neighbor
			if cur == nil {
				return nil, false
			}
			if cur == start || (cur.neighbor != nil && cur.neighbor == start) {
				break
			}
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings, true
}

// clipDisjoint resolves the no-crossing cases by containment.
func clipDisjoint(subjRing, clipRing []Point, subject, clip *Polygon, op BooleanOp, tol float64) ([]*Polygon, bool) {
	subjInClip := ringWinding(clipRing, ringMidpoint(subjRing)) != 0
	clipInSubj := ringWinding(subjRing, ringMidpoint(clipRing)) != 0

	mk := func(ring []Point, src *Polygon) *Polygon {
		p := NewPolygon(ring...)
		for _, h := range src.Holes {
			p.Holes = append(p.Holes, append([]Point(nil), h...))
		}
		return p
	}

	switch op {
	case OpUnion:
		switch {
		case subjInClip:
			return []*Polygon{mk(clipRing, clip)}, true
		case clipInSubj:
			return []*Polygon{mk(subjRing, subject)}, true
		default:
			return []*Polygon{mk(subjRing, subject)}, true
		}
	case OpIntersection:
		switch {
		case subjInClip:
			return []*Polygon{mk(subjRing, subject)}, true
		case clipInSubj:
			return []*Polygon{mk(clipRing, clip)}, true
		default:
			return nil, true
		}
	case OpDifference:
		switch {
		case subjInClip:
			return nil, true
		case clipInSubj:
			p := mk(subjRing, subject)
			p.Holes = append(p.Holes, append([]Point(nil), clipRing...))
			return []*Polygon{p}, true
		default:
			return []*Polygon{mk(subjRing, subject)}, true
		}
	}
	return nil, false
}

// attachSurvivingHoles carries input holes into an output polygon when the
// hole still lies inside the output ring and clear of the other input.
func attachSurvivingHoles(out, subject, clip *Polygon, op BooleanOp, tol float64) {
	carry := func(holes [][]Point, other *Polygon) {
		for _, h := range holes {
			if len(h) < 3 {
				continue
			}
			mid := ringMidpoint(h)
			if ringWinding(out.Outer, mid) == 0 {
				continue
			}
			if op == OpUnion && other != nil && other.Contains(mid) {
				continue
			}
			out.Holes = append(out.Holes, append([]Point(nil), h...))
		}
	}
	carry(subject.Holes, clip)
	carry(clip.Holes, subject)
}

// hasDegeneratePlacement detects vertices of one ring lying on edges of
// the other within tol, the classical ambiguous case for entry/exit walks.
func hasDegeneratePlacement(a, b []Point, tol float64) bool {
	onEdge := func(pts, ring []Point) bool {
		n := len(ring)
		for _, p := range pts {
			for i := 0; i < n; i++ {
				if pointSegmentDistance(p, NewLine(ring[i], ring[(i+1)%n])) <= tol {
					return true
				}
			}
		}
		return false
	}
	return onEdge(a, b) || onEdge(b, a)
}

// perturbRing shifts every vertex by a fixed sub-tolerance offset.
// Deterministic so repeated runs of the same input agree.
func perturbRing(ring []Point, eps float64) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		out[i] = Pt(p.X+eps, p.Y+eps*0.618)
		out[i].CreationMethod = p.CreationMethod
		out[i].Tolerance = p.Tolerance
	}
	return out
}

// reverseRing returns the ring with point order reversed.
func reverseRing(ring []Point) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}
