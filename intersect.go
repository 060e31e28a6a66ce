package wallgeom

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/planweave/wallgeom/cache"
)

// IntersectionType classifies a junction by the walls meeting there.
type IntersectionType string

// Junction classifications.
const (
	IntersectionCorner    IntersectionType = "corner"
	IntersectionTJunction IntersectionType = "t_junction"
	IntersectionCross     IntersectionType = "cross"
	IntersectionParallel  IntersectionType = "parallel"
)

// ResolutionMethod names the geometry used to resolve a junction.
type ResolutionMethod string

// Resolution methods, in decreasing order of sharpness.
const (
	ResolveMiter ResolutionMethod = "miter"
	ResolveBevel ResolutionMethod = "bevel"
	ResolveButt  ResolutionMethod = "butt"
)

// IntersectionData is the resolved geometry of one junction. Instances
// are owned by the intersection cache; callers must treat them as
// immutable.
type IntersectionData struct {
	ID                  string
	Type                IntersectionType
	ParticipatingWalls  []string
	IntersectionPoint   Point
	MiterApex           *Point
	OffsetIntersections []Point
	ResolvedGeometry    *Polygon
	ResolutionMethod    ResolutionMethod
	GeometricAccuracy   float64
	Validated           bool

	// Boolean outcome of the junction union. ResolutionWarnings carries the
	// clip warnings verbatim, RequiresHealing asks the caller to run repair
	// over the participants, and ResolutionFailure is the error kind when
	// the union produced no usable geometry.
	ResolutionWarnings []string
	RequiresHealing    bool
	ResolutionFailure  ErrorKind
}

// IntersectionManager classifies and resolves multi-wall junctions,
// memoizing results keyed by participants, thickness signature and
// tolerance signature.
type IntersectionManager struct {
	Tolerance  ToleranceManager
	MiterLimit float64

	boolean *BooleanEngine
	cache   *cache.Cache[string, *IntersectionData]
}

// NewIntersectionManager creates a manager sharing the boolean engine and
// tolerance regime of the owning engine.
func NewIntersectionManager(tm ToleranceManager, miterLimit float64, be *BooleanEngine) *IntersectionManager {
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}
	return &IntersectionManager{
		Tolerance:  tm,
		MiterLimit: miterLimit,
		boolean:    be,
		cache:      cache.New[string, *IntersectionData](0, cache.StringHasher),
	}
}

// CacheStats exposes the intersection cache counters.
func (m *IntersectionManager) CacheStats() cache.Stats {
	return m.cache.Stats()
}

// InvalidateNode drops the cached resolution for a participant set at a
// node. Version-stamped keys already make stale entries unreachable after
// a participant mutates; this reclaims the memory eagerly.
func (m *IntersectionManager) InvalidateNode(walls []*WallSolid, node Point) bool {
	return m.cache.Invalidate(m.cacheKey(walls, node))
}

// cacheKey builds the memoization key: sorted participant ids with their
// version stamps, the thickness signature, the tolerance signature, and
// the node. Identical inputs always produce identical keys.
func (m *IntersectionManager) cacheKey(walls []*WallSolid, node Point) string {
	parts := make([]string, 0, len(walls))
	for _, w := range walls {
		parts = append(parts, fmt.Sprintf("%s@%d:%.9g", w.ID, w.Version(), w.Thickness))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s|tol=%.9g|n=%.9g,%.9g",
		strings.Join(parts, ";"), m.Tolerance.Signature(), node.X, node.Y)
}

// ResolveIntersection resolves the junction of the given walls at a shared
// node. Participant order does not affect the result.
//
// Structurally invalid input (fewer than 2 participants, nil walls,
// non-finite node) is rejected with a non-recoverable GeometricError
// before any geometry runs. Numerical trouble inside resolution degrades
// the resolution method instead of failing.
//
// Identical calls share a single cached computation: concurrent callers
// for the same key wait for the in-flight result.
func (m *IntersectionManager) ResolveIntersection(walls []*WallSolid, node Point) (*IntersectionData, error) {
	if len(walls) < 2 {
		return nil, NewGeometricError(ErrDegenerateGeometry, "resolve_intersection",
			"need at least 2 participating walls, got %d", len(walls))
	}
	for _, w := range walls {
		if w == nil {
			return nil, NewGeometricError(ErrDegenerateGeometry, "resolve_intersection",
				"nil participant")
		}
	}
	if !node.IsFinite() {
		return nil, NewGeometricError(ErrNumericalInstability, "resolve_intersection",
			"intersection node is not finite")
	}

	return m.cache.GetOrCompute(m.cacheKey(walls, node), func() (*IntersectionData, error) {
		return m.resolve(walls, node), nil
	})
}

// resolve performs the actual junction resolution.
func (m *IntersectionManager) resolve(walls []*WallSolid, node Point) *IntersectionData {
	// Canonical participant order makes every derived quantity
	// independent of caller argument order.
	sorted := append([]*WallSolid(nil), walls...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	ids := make([]string, len(sorted))
	maxHalf := 0.0
	for i, w := range sorted {
		ids[i] = w.ID
		if h := w.HalfThickness(); h > maxHalf {
			maxHalf = h
		}
	}

	mergeTol := m.Tolerance.Calculate(2*maxHalf, math.Pi/2, ContextVertexMerge)
	data := &IntersectionData{
		ID:                 uuid.NewString(),
		ParticipatingWalls: ids,
		IntersectionPoint:  node,
	}

	dirs := incidentDirections(sorted, node, mergeTol)
	data.Type = classify(dirs, len(sorted))

	data.OffsetIntersections = m.offsetIntersections(sorted, node, maxHalf)

	switch data.Type {
	case IntersectionParallel:
		// Near-parallel participants give no stable apex; butt ends the
		// faces square at the node.
		data.ResolutionMethod = ResolveButt
		data.GeometricAccuracy = 0.7
	default:
		apex, dist, ok := m.apexCandidate(data.OffsetIntersections, node)
		limit := m.MiterLimit * maxHalf
		switch {
		case ok && dist <= limit:
			p := apex
			data.MiterApex = &p
			data.ResolutionMethod = ResolveMiter
			data.GeometricAccuracy = clamp01(1 - 0.2*dist/limit)
		case ok:
			data.ResolutionMethod = ResolveBevel
			data.GeometricAccuracy = 0.85
		default:
			data.ResolutionMethod = ResolveButt
			data.GeometricAccuracy = 0.7
		}
	}

	geom, boolRes := m.resolveGeometry(sorted, node)
	data.ResolvedGeometry = geom
	data.ResolutionWarnings = boolRes.Warnings
	data.RequiresHealing = boolRes.RequiresHealing
	if boolRes.FailureKind != "" {
		data.ResolutionFailure = boolRes.FailureKind
	}

	// Stamped before the record is published to the cache; after that the
	// record is shared and must not be written.
	data.Validated = data.ResolutionFailure == ""
	return data
}

// incidentDirections returns, per wall, the unit direction of the wall's
// baseline leaving the node. Walls whose baseline only passes through the
// node contribute the through-segment tangent.
func incidentDirections(walls []*WallSolid, node Point, tol float64) []Vec2 {
	dirs := make([]Vec2, 0, len(walls))
	for _, w := range walls {
		if w.Baseline == nil || len(w.Baseline.Points) < 2 {
			dirs = append(dirs, Vec2{})
			continue
		}
		pts := w.Baseline.Points
		switch {
		case pts[0].EqualWithin(node, tol):
			dirs = append(dirs, pts[1].Sub(pts[0]).Normalize())
		case pts[len(pts)-1].EqualWithin(node, tol):
			dirs = append(dirs, pts[len(pts)-2].Sub(pts[len(pts)-1]).Normalize())
		default:
			// Interior incidence: use the tangent of the nearest segment.
			best, bestDist := 0, math.MaxFloat64
			for i := 0; i < w.Baseline.SegmentCount(); i++ {
				a, b := w.Baseline.Segment(i)
				if d := pointSegmentDistance(node, NewLine(a, b)); d < bestDist {
					best, bestDist = i, d
				}
			}
			dirs = append(dirs, w.Baseline.TangentAt(best))
		}
	}
	return dirs
}

// classify maps incident directions and participant count to a junction
// type. Near-parallel pairs take precedence over degree.
func classify(dirs []Vec2, degree int) IntersectionType {
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if dirs[i].Length() == 0 || dirs[j].Length() == 0 {
				continue
			}
			if math.Abs(math.Sin(dirs[i].AngleBetween(dirs[j]))) < degenerateAngleSin {
				return IntersectionParallel
			}
		}
	}
	switch {
	case degree <= 2:
		return IntersectionCorner
	case degree == 3:
		return IntersectionTJunction
	default:
		return IntersectionCross
	}
}

// offsetIntersections intersects the offset curves of each wall pair near
// the node, producing the candidate points for the apex selection.
func (m *IntersectionManager) offsetIntersections(walls []*WallSolid, node Point, maxHalf float64) []Point {
	reach := (m.MiterLimit + 1) * math.Max(maxHalf, 1)
	var candidates []Point

	offsetsOf := func(w *WallSolid) []*Curve {
		var out []*Curve
		if w.LeftOffset != nil {
			out = append(out, w.LeftOffset)
		}
		if w.RightOffset != nil {
			out = append(out, w.RightOffset)
		}
		return out
	}

	for i := 0; i < len(walls); i++ {
		for j := i + 1; j < len(walls); j++ {
			angle := math.Pi / 2
			if walls[i].Baseline != nil && walls[j].Baseline != nil {
				di := incidentDirections(walls[i:i+1], node, maxHalf)[0]
				dj := incidentDirections(walls[j:j+1], node, maxHalf)[0]
				if di.Length() > 0 && dj.Length() > 0 {
					angle = di.AngleBetween(dj)
				}
			}
			tol := m.Tolerance.Calculate(2*maxHalf, angle, ContextVertexMerge)

			for _, ca := range offsetsOf(walls[i]) {
				for _, cb := range offsetsOf(walls[j]) {
					for _, p := range curveIntersections(ca, cb, node, reach, tol) {
						p.CreationMethod = CreatedIntersection
						p.Tolerance = tol
						candidates = append(candidates, p)
					}
				}
			}
		}
	}
	return candidates
}

// curveIntersections intersects the segments of two polylines that lie
// within reach of the node, extending end segments as carrier lines so
// offsets that stop short of each other still meet.
func curveIntersections(a, b *Curve, node Point, reach, tol float64) []Point {
	var out []Point
	window := NewRect(node, node).Expand(reach)

	for i := 0; i < a.SegmentCount(); i++ {
		a0, a1 := a.Segment(i)
		if !NewRect(a0, a1).Expand(tol).Overlaps(window) {
			continue
		}
		for j := 0; j < b.SegmentCount(); j++ {
			b0, b1 := b.Segment(j)
			if !NewRect(b0, b1).Expand(tol).Overlaps(window) {
				continue
			}
			la := NewLine(a0, a1)
			lb := NewLine(b0, b1)
			p, ok := segmentIntersection(la, lb, tol)
			if !ok {
				// End segments meet beyond their extents at a junction;
				// use the carrier-line intersection when it stays local.
				p, ok = lineIntersection(la, lb, degenerateAngleSin/maxAngleBoost)
				if !ok || p.DistanceTo(node) > reach {
					continue
				}
			}
			if p.IsFinite() && p.DistanceTo(node) <= reach {
				out = append(out, p)
			}
		}
	}
	return out
}

// apexCandidate picks the miter apex from the offset intersection
// candidates: the candidate farthest from the node, which is where the
// two outer faces meet.
func (m *IntersectionManager) apexCandidate(candidates []Point, node Point) (Point, float64, bool) {
	var best Point
	bestDist := -1.0
	for _, p := range candidates {
		if d := p.DistanceTo(node); d > bestDist {
			best, bestDist = p, d
		}
	}
	if bestDist < 0 {
		return Point{}, 0, false
	}
	return best, bestDist, true
}

// resolveGeometry unions the participants' solid geometry and returns the
// result polygon covering the node, or the largest result when none
// contains it exactly. The boolean result is returned alongside so the
// caller can surface warnings, healing flags and failure kinds.
func (m *IntersectionManager) resolveGeometry(walls []*WallSolid, node Point) (*Polygon, BooleanResult) {
	withGeometry := make([]*WallSolid, 0, len(walls))
	for _, w := range walls {
		if len(w.SolidGeometry) > 0 {
			withGeometry = append(withGeometry, w)
		}
	}
	if len(withGeometry) == 0 {
		return nil, BooleanResult{}
	}

	res := m.boolean.Combine(withGeometry, OpUnion)
	if !res.Success || res.ResultSolid == nil {
		return nil, res
	}

	for _, p := range res.ResultSolid.SolidGeometry {
		if p.Contains(node) {
			return p, res
		}
	}
	var largest *Polygon
	for _, p := range res.ResultSolid.SolidGeometry {
		if largest == nil || p.Area() > largest.Area() {
			largest = p
		}
	}
	return largest, res
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
