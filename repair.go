package wallgeom

import (
	"fmt"
	"math"
)

// RepairResult reports what RepairInvalidGeometry did.
type RepairResult struct {
	Success          bool
	IssuesFixed      int
	RepairOperations []string
	RepairedGeometry *WallSolid
}

// RepairInvalidGeometry applies best-effort targeted fixes to a wall
// solid: drop holes with too few vertices, drop intersection records with
// too few participants, deduplicate ring vertices, and synthesize empty
// but structurally valid geometry when everything else fails.
//
// The input is never mutated; the repaired solid is a copy. When repair
// is disabled the call is a no-op reporting Success=false.
func (v *Validator) RepairInvalidGeometry(w *WallSolid) RepairResult {
	result := RepairResult{}
	if !v.RepairEnabled {
		return result
	}
	if w == nil {
		return result
	}

	out := w.Clone()
	tol := v.Tolerance.Calculate(math.Max(out.Thickness, 1), math.Pi/2, ContextVertexMerge)

	log := func(format string, args ...any) {
		op := fmt.Sprintf(format, args...)
		result.RepairOperations = append(result.RepairOperations, op)
		result.IssuesFixed++
		out.RecordHealing("repair", op, true)
		Logger().Debug("geometry repair", "wall", out.ID, "operation", op)
	}

	// Drop invalid holes.
	for _, poly := range out.SolidGeometry {
		kept := poly.Holes[:0]
		for hi, h := range poly.Holes {
			if len(h) < 3 {
				log("dropped hole %d with %d vertices", hi, len(h))
				continue
			}
			kept = append(kept, h)
		}
		poly.Holes = kept
	}

	// Deduplicate ring vertices.
	for pi, poly := range out.SolidGeometry {
		ring, removed := dedupRing(poly.Outer, tol)
		if removed > 0 {
			poly.Outer = ring
			log("removed %d duplicate vertices from polygon %d", removed, pi)
		}
	}

	// Drop degenerate polygons outright.
	keptPolys := out.SolidGeometry[:0]
	for pi, poly := range out.SolidGeometry {
		if len(poly.Outer) < 3 {
			log("dropped degenerate polygon %d with %d vertices", pi, len(poly.Outer))
			continue
		}
		keptPolys = append(keptPolys, poly)
	}
	out.SolidGeometry = keptPolys

	// Drop invalid intersection records.
	keptIx := out.Intersections[:0]
	for _, d := range out.Intersections {
		if d == nil || len(d.ParticipatingWalls) < 2 {
			log("removed invalid intersection record")
			continue
		}
		keptIx = append(keptIx, d)
	}
	out.Intersections = keptIx

	// Last resort: a solid with no geometry at all gets an empty but
	// structurally valid shell so downstream consumers never see nil.
	if len(out.SolidGeometry) == 0 && out.Baseline != nil && len(out.Baseline.Points) >= 2 {
		half := math.Max(out.HalfThickness(), tol)
		a := out.Baseline.Points[0]
		b := out.Baseline.Points[len(out.Baseline.Points)-1]
		n := b.Sub(a).Normalize().Perp().Mul(half)
		out.SolidGeometry = []*Polygon{NewPolygon(a.Add(n), b.Add(n), b.Add(n.Neg()), a.Add(n.Neg()))}
		log("synthesized placeholder geometry from baseline envelope")
	}

	result.Success = result.IssuesFixed > 0
	result.RepairedGeometry = out
	if !result.Success {
		// Nothing needed fixing; report the untouched copy as repaired.
		result.Success = true
	}
	return result
}
