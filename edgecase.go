package wallgeom

import (
	"fmt"
	"math"
)

// EdgeCaseKind names a known-hard input configuration.
type EdgeCaseKind string

// Edge cases the detector recognizes.
const (
	EdgeNearParallel     EdgeCaseKind = "near_parallel_walls"
	EdgeThicknessRatio   EdgeCaseKind = "thickness_exceeds_segment"
	EdgeClosedLoop       EdgeCaseKind = "closed_loop_baseline"
	EdgeDuplicateOverlap EdgeCaseKind = "duplicate_overlapping_walls"
)

// EdgeCase is one detected hard configuration with the walls involved.
type EdgeCase struct {
	Kind    EdgeCaseKind
	Walls   []string
	Node    *Point
	Detail  string
	AtAngle float64
}

// EdgeCaseDetector scans a network for configurations that break the
// primary algorithms, so the handler can route them to simplified
// alternatives before anything fails.
type EdgeCaseDetector struct {
	Tolerance ToleranceManager
}

// Detect scans the network and returns every recognized edge case.
func (d *EdgeCaseDetector) Detect(n *WallNetwork) []EdgeCase {
	if n == nil {
		return nil
	}
	var cases []EdgeCase
	cases = append(cases, d.detectNearParallel(n)...)
	cases = append(cases, d.detectThicknessRatio(n)...)
	cases = append(cases, d.detectClosedLoops(n)...)
	cases = append(cases, d.detectDuplicates(n)...)
	return cases
}

// detectNearParallel finds node participants whose baselines leave the
// node at nearly the same or opposite direction.
func (d *EdgeCaseDetector) detectNearParallel(n *WallNetwork) []EdgeCase {
	var cases []EdgeCase
	for _, node := range n.Nodes {
		walls := make([]*WallSolid, 0, len(node.Walls))
		for _, id := range node.Walls {
			if w := n.Wall(id); w != nil {
				walls = append(walls, w)
			}
		}
		if len(walls) < 2 {
			continue
		}
		tol := d.Tolerance.Calculate(maxNetThickness(walls), math.Pi/2, ContextVertexMerge)
		dirs := incidentDirections(walls, node.Position, tol)
		for i := 0; i < len(dirs); i++ {
			for j := i + 1; j < len(dirs); j++ {
				if dirs[i].Length() == 0 || dirs[j].Length() == 0 {
					continue
				}
				angle := dirs[i].AngleBetween(dirs[j])
				if math.Abs(math.Sin(angle)) < degenerateAngleSin {
					pos := node.Position
					cases = append(cases, EdgeCase{
						Kind:    EdgeNearParallel,
						Walls:   []string{walls[i].ID, walls[j].ID},
						Node:    &pos,
						AtAngle: angle,
						Detail:  fmt.Sprintf("baselines meet at %.4f rad", angle),
					})
				}
			}
		}
	}
	return cases
}

// detectThicknessRatio flags walls whose thickness dwarfs an adjacent
// segment: the join geometry of such a wall swallows the segment.
func (d *EdgeCaseDetector) detectThicknessRatio(n *WallNetwork) []EdgeCase {
	var cases []EdgeCase
	for _, w := range n.Walls {
		if w.Baseline == nil || w.Thickness <= 0 {
			continue
		}
		for i := 0; i < w.Baseline.SegmentCount(); i++ {
			a, b := w.Baseline.Segment(i)
			length := a.DistanceTo(b)
			if length > 0 && w.Thickness > 2*length {
				cases = append(cases, EdgeCase{
					Kind:   EdgeThicknessRatio,
					Walls:  []string{w.ID},
					Detail: fmt.Sprintf("segment %d length %.1f below thickness %.1f", i, length, w.Thickness),
				})
				break
			}
		}
	}
	return cases
}

// detectClosedLoops flags closed baselines; their offsets form rings with
// a hole and need ring-aware handling downstream.
func (d *EdgeCaseDetector) detectClosedLoops(n *WallNetwork) []EdgeCase {
	var cases []EdgeCase
	for _, w := range n.Walls {
		if w.Baseline != nil && w.Baseline.Closed {
			cases = append(cases, EdgeCase{
				Kind:   EdgeClosedLoop,
				Walls:  []string{w.ID},
				Detail: "baseline is a closed loop",
			})
		}
	}
	return cases
}

// detectDuplicates flags wall pairs whose baselines overlap within the
// merge tolerance: drawing artifacts that double the solid geometry.
func (d *EdgeCaseDetector) detectDuplicates(n *WallNetwork) []EdgeCase {
	var cases []EdgeCase
	for i, a := range n.Walls {
		for _, b := range n.Walls[i+1:] {
			if a.Baseline == nil || b.Baseline == nil {
				continue
			}
			tol := d.Tolerance.Calculate(math.Max(a.Thickness, b.Thickness), math.Pi/2, ContextVertexMerge)
			if baselinesOverlap(a.Baseline, b.Baseline, tol) {
				cases = append(cases, EdgeCase{
					Kind:   EdgeDuplicateOverlap,
					Walls:  []string{a.ID, b.ID},
					Detail: "baselines coincide within tolerance",
				})
			}
		}
	}
	return cases
}

// baselinesOverlap reports whether every vertex of the shorter baseline
// lies on the longer one within tol.
func baselinesOverlap(a, b *Curve, tol float64) bool {
	shorter, longer := a, b
	if len(a.Points) > len(b.Points) {
		shorter, longer = b, a
	}
	if len(shorter.Points) == 0 {
		return false
	}
	for _, p := range shorter.Points {
		if distanceToCurve(p, longer) > tol {
			return false
		}
	}
	return true
}

func maxNetThickness(walls []*WallSolid) float64 {
	t := DefaultAreaThickness
	for _, w := range walls {
		t = math.Max(t, w.Thickness)
	}
	return t
}
