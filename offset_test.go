package wallgeom

import (
	"math"
	"strings"
	"testing"
)

func newOffsetEngine() *OffsetEngine {
	return NewOffsetEngine(ToleranceManager{DocumentPrecision: DefaultDocumentPrecision}, DefaultMiterLimit)
}

func TestOffsetCurve_StraightWall(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(10, 0))

	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}

	for _, p := range res.LeftOffset.Points {
		if math.Abs(p.Y-100) > 1e-9 {
			t.Errorf("left offset point %v, want y=+100", p)
		}
	}
	for _, p := range res.RightOffset.Points {
		if math.Abs(p.Y+100) > 1e-9 {
			t.Errorf("right offset point %v, want y=-100", p)
		}
	}
	if res.FallbackUsed {
		t.Error("straight wall should not need a fallback")
	}
}

func TestOffsetCurve_ProvenanceStamped(t *testing.T) {
	e := newOffsetEngine()
	res := e.OffsetCurve(NewCurve(Pt(0, 0), Pt(5000, 0)), 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	for _, p := range res.LeftOffset.Points {
		if p.CreationMethod != CreatedOffset {
			t.Errorf("point %v creation method = %q, want %q", p, p.CreationMethod, CreatedOffset)
		}
		if p.Tolerance <= 0 {
			t.Errorf("point %v carries no tolerance", p)
		}
	}
}

func TestOffsetCurve_RightAngleMiter(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(5000, 0), Pt(5000, 5000))

	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	if res.FallbackUsed {
		t.Fatalf("right angle is within miter limit %g, no fallback expected", e.MiterLimit)
	}

	// Inner face meets at the carrier intersection (4900, 100), outer at
	// the mitered apex (5100, -100).
	wantLeft := Pt(4900, 100)
	wantRight := Pt(5100, -100)
	if !containsPoint(res.LeftOffset.Points, wantLeft, 1e-6) {
		t.Errorf("left offset %v missing corner point %v", res.LeftOffset.Points, wantLeft)
	}
	if !containsPoint(res.RightOffset.Points, wantRight, 1e-6) {
		t.Errorf("right offset %v missing apex %v", res.RightOffset.Points, wantRight)
	}
}

func TestOffsetCurve_SharpAngleBevels(t *testing.T) {
	e := newOffsetEngine()
	// Near-reversal: the miter apex would land far outside the limit.
	baseline := NewCurve(Pt(0, 0), Pt(5000, 0), Pt(0, 50))

	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	if !res.FallbackUsed {
		t.Error("sharp reversal should degrade the miter to a bevel")
	}
}

func TestOffsetCurve_ZeroLengthSegment(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(0, 0), Pt(5000, 0))

	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "zero-length") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v missing zero-length segment notice", res.Warnings)
	}
	for _, p := range res.LeftOffset.Points {
		if math.Abs(p.Y-100) > 1e-9 {
			t.Errorf("left offset point %v, want y=+100", p)
		}
	}
}

func TestOffsetCurve_RoundJoin(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(5000, 0), Pt(5000, 5000))

	res := e.OffsetCurve(baseline, 100, JoinRound)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	// The outer face arc stays on the offset circle around the vertex.
	vertex := Pt(5000, 0)
	arcSeen := 0
	for _, p := range res.RightOffset.Points {
		d := p.DistanceTo(vertex)
		if math.Abs(d-100) < 1.0 {
			arcSeen++
		}
	}
	if arcSeen < 3 {
		t.Errorf("round join produced %d arc points near the vertex, want >= 3", arcSeen)
	}
}

func TestOffsetCurve_ClosedBaseline(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(4000, 0), Pt(4000, 4000), Pt(0, 4000))
	baseline.Closed = true

	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}
	if !res.LeftOffset.Closed || !res.RightOffset.Closed {
		t.Error("offsets of a closed baseline must be closed")
	}
	// CCW square: left offsets shrink inward, right offsets grow outward.
	inner := math.Abs(ringArea(res.LeftOffset.Points))
	outer := math.Abs(ringArea(res.RightOffset.Points))
	if inner >= outer {
		t.Errorf("inner ring area %g should be smaller than outer %g", inner, outer)
	}
}

func TestOffsetCurve_InvalidInput(t *testing.T) {
	e := newOffsetEngine()
	tests := []struct {
		name     string
		baseline *Curve
		half     float64
	}{
		{"nil baseline", nil, 100},
		{"single point", NewCurve(Pt(0, 0)), 100},
		{"zero half thickness", NewCurve(Pt(0, 0), Pt(10, 0)), 0},
		{"negative half thickness", NewCurve(Pt(0, 0), Pt(10, 0)), -50},
		{"non-finite", NewCurve(Pt(0, 0), Pt(math.NaN(), 0)), 100},
		{"all segments degenerate", NewCurve(Pt(0, 0), Pt(0, 0)), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.OffsetCurve(tt.baseline, tt.half, JoinMiter)
			if res.Success {
				t.Error("expected failure")
			}
			if len(res.Warnings) == 0 {
				t.Error("expected a diagnostic warning")
			}
		})
	}
}

func TestSolidOutline_OpenBaseline(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(1000, 0))
	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}

	poly := SolidOutline(baseline, res.LeftOffset, res.RightOffset)
	if poly == nil {
		t.Fatal("SolidOutline returned nil")
	}
	wantArea := 1000.0 * 200.0
	if math.Abs(poly.Area()-wantArea) > 1.0 {
		t.Errorf("solid area = %g, want %g", poly.Area(), wantArea)
	}
}

func TestSolidOutline_ClosedBaseline(t *testing.T) {
	e := newOffsetEngine()
	baseline := NewCurve(Pt(0, 0), Pt(4000, 0), Pt(4000, 4000), Pt(0, 4000))
	baseline.Closed = true
	res := e.OffsetCurve(baseline, 100, JoinMiter)
	if !res.Success {
		t.Fatalf("OffsetCurve failed: %v", res.Warnings)
	}

	poly := SolidOutline(baseline, res.LeftOffset, res.RightOffset)
	if poly == nil {
		t.Fatal("SolidOutline returned nil")
	}
	if len(poly.Holes) != 1 {
		t.Fatalf("closed wall should carve 1 hole, got %d", len(poly.Holes))
	}
	// Outer square side 4200, inner square side 3800.
	got := poly.Area()
	want := 4200.0*4200.0 - 3800.0*3800.0
	if math.Abs(got-want) > want*0.01 {
		t.Errorf("ring area = %g, want ~%g", got, want)
	}
}

func containsPoint(pts []Point, want Point, eps float64) bool {
	for _, p := range pts {
		if p.EqualWithin(want, eps) {
			return true
		}
	}
	return false
}
