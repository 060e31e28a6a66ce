package wallgeom

import (
	"math"
	"testing"
)

func newBooleanEngine() *BooleanEngine {
	return NewBooleanEngine(ToleranceManager{DocumentPrecision: DefaultDocumentPrecision})
}

// solidWithSquare wraps an axis-aligned square in a wall solid so the
// boolean engine can consume it.
func solidWithSquare(id string, x0, y0, x1, y1 float64) *WallSolid {
	w := NewWallSolid(NewCurve(Pt(x0, y0), Pt(x1, y0)), 100, WallZone)
	w.ID = id
	w.SolidGeometry = []*Polygon{
		NewPolygon(Pt(x0, y0), Pt(x1, y0), Pt(x1, y1), Pt(x0, y1)),
	}
	return w
}

func totalArea(s *WallSolid) float64 {
	var area float64
	for _, p := range s.SolidGeometry {
		area += p.Area()
	}
	return area
}

func TestCombine_UnionOverlapping(t *testing.T) {
	e := newBooleanEngine()
	a := solidWithSquare("a", 0, 0, 1000, 1000)
	b := solidWithSquare("b", 500, 500, 1500, 1500)

	res := e.Combine([]*WallSolid{a, b}, OpUnion)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if len(res.ResultSolid.SolidGeometry) != 1 {
		t.Fatalf("union of overlapping squares = %d polygons, want 1", len(res.ResultSolid.SolidGeometry))
	}
	want := 1000.0*1000 + 1000.0*1000 - 500.0*500
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("union area = %g, want %g", got, want)
	}
}

func TestCombine_UnionDisjoint(t *testing.T) {
	e := newBooleanEngine()
	a := solidWithSquare("a", 0, 0, 1000, 1000)
	b := solidWithSquare("b", 5000, 0, 6000, 1000)

	res := e.Combine([]*WallSolid{a, b}, OpUnion)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if len(res.ResultSolid.SolidGeometry) != 2 {
		t.Fatalf("union of disjoint squares = %d polygons, want 2", len(res.ResultSolid.SolidGeometry))
	}
	want := 2_000_000.0
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("union area = %g, want %g", got, want)
	}
}

func TestCombine_UnionContained(t *testing.T) {
	e := newBooleanEngine()
	big := solidWithSquare("big", 0, 0, 2000, 2000)
	small := solidWithSquare("small", 500, 500, 800, 800)

	res := e.Combine([]*WallSolid{big, small}, OpUnion)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	want := 4_000_000.0
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("union area = %g, want the containing square %g", got, want)
	}
}

func TestCombine_Intersection(t *testing.T) {
	e := newBooleanEngine()
	a := solidWithSquare("a", 0, 0, 1000, 1000)
	b := solidWithSquare("b", 500, 500, 1500, 1500)

	res := e.Combine([]*WallSolid{a, b}, OpIntersection)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	want := 500.0 * 500.0
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("intersection area = %g, want %g", got, want)
	}
}

func TestCombine_IntersectionDisjoint(t *testing.T) {
	e := newBooleanEngine()
	a := solidWithSquare("a", 0, 0, 1000, 1000)
	b := solidWithSquare("b", 5000, 0, 6000, 1000)

	res := e.Combine([]*WallSolid{a, b}, OpIntersection)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if got := totalArea(res.ResultSolid); got > 1 {
		t.Errorf("disjoint intersection area = %g, want 0", got)
	}
}

func TestCombine_Difference(t *testing.T) {
	e := newBooleanEngine()
	a := solidWithSquare("a", 0, 0, 1000, 1000)
	b := solidWithSquare("b", 500, 500, 1500, 1500)

	res := e.Combine([]*WallSolid{a, b}, OpDifference)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	want := 1000.0*1000 - 500.0*500
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("difference area = %g, want %g", got, want)
	}
}

func TestCombine_DifferenceContained(t *testing.T) {
	e := newBooleanEngine()
	big := solidWithSquare("big", 0, 0, 2000, 2000)
	small := solidWithSquare("small", 500, 500, 800, 800)

	res := e.Combine([]*WallSolid{big, small}, OpDifference)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if len(res.ResultSolid.SolidGeometry) != 1 {
		t.Fatalf("got %d polygons, want 1", len(res.ResultSolid.SolidGeometry))
	}
	poly := res.ResultSolid.SolidGeometry[0]
	if len(poly.Holes) != 1 {
		t.Fatalf("contained difference should carve a hole, got %d", len(poly.Holes))
	}
	want := 4_000_000.0 - 300.0*300.0
	if got := poly.Area(); math.Abs(got-want) > 10 {
		t.Errorf("difference area = %g, want %g", got, want)
	}
}

func TestCombine_UnionOrderIndependent(t *testing.T) {
	e := newBooleanEngine()
	mk := func() (*WallSolid, *WallSolid, *WallSolid) {
		return solidWithSquare("a", 0, 0, 1000, 1000),
			solidWithSquare("b", 500, 0, 1500, 1000),
			solidWithSquare("c", 3000, 0, 4000, 1000)
	}

	a1, b1, c1 := mk()
	fwd := e.Combine([]*WallSolid{a1, b1, c1}, OpUnion)
	a2, b2, c2 := mk()
	rev := e.Combine([]*WallSolid{c2, b2, a2}, OpUnion)

	if !fwd.Success || !rev.Success {
		t.Fatalf("Combine failed: %v / %v", fwd.Warnings, rev.Warnings)
	}
	if math.Abs(totalArea(fwd.ResultSolid)-totalArea(rev.ResultSolid)) > 10 {
		t.Errorf("union area depends on argument order: %g vs %g",
			totalArea(fwd.ResultSolid), totalArea(rev.ResultSolid))
	}
	if len(fwd.ResultSolid.SolidGeometry) != len(rev.ResultSolid.SolidGeometry) {
		t.Errorf("polygon count depends on argument order: %d vs %d",
			len(fwd.ResultSolid.SolidGeometry), len(rev.ResultSolid.SolidGeometry))
	}
}

func TestCombine_UnionBridgesDisjointRings(t *testing.T) {
	e := newBooleanEngine()
	mk := func() (*WallSolid, *WallSolid, *WallSolid) {
		return solidWithSquare("a", 0, 0, 1000, 1000),
			solidWithSquare("b", 2000, 0, 3000, 1000),
			solidWithSquare("c", 500, -100, 2500, 1100)
	}

	// c overlaps both a and b, so the two accumulated rings must merge
	// into one; counting c once per ring would inflate the area.
	a, b, c := mk()
	res := e.Combine([]*WallSolid{a, b, c}, OpUnion)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if len(res.ResultSolid.SolidGeometry) != 1 {
		t.Fatalf("bridged union = %d polygons, want 1", len(res.ResultSolid.SolidGeometry))
	}
	want := 1_000_000.0 + 1_000_000.0 + 2000.0*1200.0 - 2*500.0*1000.0
	if got := totalArea(res.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("bridged union area = %g, want %g", got, want)
	}

	// The bridge must merge regardless of where c sits in the argument list.
	a2, b2, c2 := mk()
	first := e.Combine([]*WallSolid{c2, a2, b2}, OpUnion)
	if !first.Success {
		t.Fatalf("Combine failed: %v", first.Warnings)
	}
	if len(first.ResultSolid.SolidGeometry) != 1 {
		t.Errorf("bridge first = %d polygons, want 1", len(first.ResultSolid.SolidGeometry))
	}
	if got := totalArea(first.ResultSolid); math.Abs(got-want) > 10 {
		t.Errorf("bridge first area = %g, want %g", got, want)
	}
}

func TestCombine_EmptyInput(t *testing.T) {
	e := newBooleanEngine()
	res := e.Combine(nil, OpUnion)
	if res.Success {
		t.Error("empty input should not succeed")
	}
	if res.FailureKind != ErrBooleanFailure {
		t.Errorf("FailureKind = %q, want %q", res.FailureKind, ErrBooleanFailure)
	}
	bare := NewWallSolid(NewCurve(Pt(0, 0), Pt(10, 0)), 100, WallZone)
	res = e.Combine([]*WallSolid{bare}, OpUnion)
	if res.Success {
		t.Error("participants without geometry should not succeed")
	}
	if res.FailureKind != ErrBooleanFailure {
		t.Errorf("FailureKind = %q, want %q", res.FailureKind, ErrBooleanFailure)
	}
}

func TestCombine_SliverFlagsHealing(t *testing.T) {
	e := newBooleanEngine()
	// A hair-thin square: area far below the sliver threshold.
	s := NewWallSolid(NewCurve(Pt(0, 0), Pt(1000, 0)), 100, WallZone)
	s.ID = "sliver"
	s.SolidGeometry = []*Polygon{
		NewPolygon(Pt(0, 0), Pt(1000, 0), Pt(1000, 0.001), Pt(0, 0.001)),
	}

	res := e.Combine([]*WallSolid{s}, OpUnion)
	if !res.Success {
		t.Fatalf("Combine failed: %v", res.Warnings)
	}
	if !res.RequiresHealing {
		t.Error("sliver face should set RequiresHealing")
	}
}
