package wallgeom

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return NewValidator(ToleranceManager{DocumentPrecision: DefaultDocumentPrecision}, true)
}

func TestValidateWallSolid_NegativeThickness(t *testing.T) {
	v := newValidator()
	w := NewWallSolid(NewCurve(Pt(0, 0), Pt(1000, 0)), -100, WallZone)

	res := v.ValidateWallSolid(w)
	require.False(t, res.IsValid)

	found := false
	for _, issue := range res.Errors {
		if strings.Contains(issue.Message, "thickness") {
			found = true
		}
	}
	assert.True(t, found, "errors %v should mention thickness", res.Errors)
}

func TestValidateWallSolid_Valid(t *testing.T) {
	v := newValidator()
	w := buildWall(t, "w", 200, Pt(0, 0), Pt(5000, 0))

	res := v.ValidateWallSolid(w)
	assert.True(t, res.IsValid, "errors: %v", res.Errors)
	assert.False(t, w.LastValidated.IsZero(), "LastValidated not stamped")
}

func TestValidateWallSolid_Idempotent(t *testing.T) {
	v := newValidator()
	w := NewWallSolid(NewCurve(Pt(0, 0), Pt(0, 0), Pt(5000, 0)), 5000, WallZone)

	first := v.ValidateWallSolid(w)
	second := v.ValidateWallSolid(w)

	assert.Equal(t, first.IsValid, second.IsValid)
	assert.Equal(t, len(first.Errors), len(second.Errors))
	assert.Equal(t, len(first.Warnings), len(second.Warnings))
}

func TestValidateCurve(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name      string
		curve     *Curve
		wantValid bool
	}{
		{"two points", NewCurve(Pt(0, 0), Pt(100, 0)), true},
		{"single point", NewCurve(Pt(0, 0)), false},
		{"non-finite", NewCurve(Pt(0, 0), Pt(math.Inf(1), 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateCurve(tt.curve)
			assert.Equal(t, tt.wantValid, res.IsValid, "errors: %v", res.Errors)
		})
	}
}

func TestValidateCurve_DuplicatePointsWarn(t *testing.T) {
	v := newValidator()
	res := v.ValidateCurve(NewCurve(Pt(0, 0), Pt(0, 0), Pt(5000, 0)))

	assert.True(t, res.IsValid, "duplicate points are a warning, not an error")
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "zero-length")
	assert.NotEmpty(t, res.Suggestions, "auto-fixable issue should suggest repair")
}

func TestValidateIntersection(t *testing.T) {
	v := newValidator()

	d := &IntersectionData{
		ParticipatingWalls: []string{"a", "b"},
		ResolvedGeometry:   NewPolygon(Pt(0, 0), Pt(100, 0), Pt(0, 100)),
		GeometricAccuracy:  0.95,
		Validated:          true,
	}
	res := v.ValidateIntersection(d)
	assert.True(t, res.IsValid)
	assert.InDelta(t, 0.95, res.QualityMetrics.Accuracy, 1e-9)

	bad := &IntersectionData{ParticipatingWalls: []string{"a"}, Validated: true}
	res = v.ValidateIntersection(bad)
	assert.False(t, res.IsValid)
	assert.True(t, bad.Validated, "validation must not write to the shared junction record")
}

func TestAddRemoveValidationRule(t *testing.T) {
	v := newValidator()
	rule := ValidationRule{
		Name:     "curve.max-span",
		Target:   TargetCurve,
		Severity: SeverityError,
		Evaluate: func(entity any) []string {
			c, ok := entity.(*Curve)
			if !ok || c == nil {
				return nil
			}
			if bb := c.BoundingBox(); bb.Width() > 100000 {
				return []string{"curve spans more than 100m"}
			}
			return nil
		},
	}
	require.NoError(t, v.AddValidationRule(rule))

	res := v.ValidateCurve(NewCurve(Pt(0, 0), Pt(200000, 0)))
	assert.False(t, res.IsValid, "custom rule should reject the long curve")

	assert.Error(t, v.AddValidationRule(rule), "duplicate name must be rejected")
	assert.Error(t, v.AddValidationRule(ValidationRule{Name: "no-eval"}))

	assert.True(t, v.RemoveValidationRule("curve.max-span"))
	assert.False(t, v.RemoveValidationRule("curve.max-span"))
	res = v.ValidateCurve(NewCurve(Pt(0, 0), Pt(200000, 0)))
	assert.True(t, res.IsValid)
}

func TestValidateWallNetwork(t *testing.T) {
	v := newValidator()
	a := buildWall(t, "a", 200, Pt(0, 0), Pt(1000, 0))
	b := buildWall(t, "b", 200, Pt(0, 0), Pt(0, 1000))
	n := &WallNetwork{
		Walls: []*WallSolid{a, b},
		Nodes: []NetworkNode{{ID: "n1", Position: Pt(0, 0), Walls: []string{"a", "b"}}},
	}

	res := v.ValidateWallNetwork(n)
	assert.True(t, res.IsValid, "errors: %v", res.Errors)
}

func TestValidateWallNetwork_ThicknessConsistency(t *testing.T) {
	v := newValidator()
	a := buildWall(t, "a", 100, Pt(0, 0), Pt(1000, 0))
	b := buildWall(t, "b", 500, Pt(0, 0), Pt(0, 1000))
	n := &WallNetwork{
		Walls: []*WallSolid{a, b},
		Nodes: []NetworkNode{{ID: "n1", Position: Pt(0, 0), Walls: []string{"a", "b"}}},
	}

	res := v.ValidateWallNetwork(n)
	found := false
	for _, w := range res.Warnings {
		if w.Rule == "network.thickness-consistency" {
			found = true
		}
	}
	assert.True(t, found, "5x thickness mismatch at a node should warn")
}

func TestValidateTopology(t *testing.T) {
	v := newValidator()
	a := buildWall(t, "a", 200, Pt(0, 0), Pt(1000, 0))
	b := buildWall(t, "b", 200, Pt(0, 0), Pt(0, 1000))

	t.Run("unknown wall reference", func(t *testing.T) {
		n := &WallNetwork{
			Walls: []*WallSolid{a},
			Nodes: []NetworkNode{{ID: "n1", Position: Pt(0, 0), Walls: []string{"a", "ghost"}}},
		}
		res := v.ValidateTopology(n)
		assert.False(t, res.IsValid)
	})

	t.Run("missing node", func(t *testing.T) {
		n := &WallNetwork{Walls: []*WallSolid{a, b}}
		res := v.ValidateTopology(n)
		assert.True(t, res.IsValid)
		found := false
		for _, w := range res.Warnings {
			if w.Rule == "topology.missing-node" {
				found = true
			}
		}
		assert.True(t, found, "shared endpoint without a node should warn")
	})

	t.Run("dangling node", func(t *testing.T) {
		n := &WallNetwork{
			Walls: []*WallSolid{a},
			Nodes: []NetworkNode{{ID: "n1", Position: Pt(1000, 0), Walls: []string{"a"}}},
		}
		res := v.ValidateTopology(n)
		found := false
		for _, w := range res.Warnings {
			if w.Rule == "topology.dangling-node" {
				found = true
			}
		}
		assert.True(t, found)
	})
}
