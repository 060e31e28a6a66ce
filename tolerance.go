package wallgeom

import "math"

// ToleranceContext selects the scaling profile for a tolerance query.
// Different algorithms have different numerical sensitivity: vertex merging
// wants tight tolerances, boolean clipping wants coarser ones.
type ToleranceContext string

// Tolerance contexts understood by CalculateTolerance.
const (
	ContextVertexMerge ToleranceContext = "vertex_merge"
	ContextBoolean     ToleranceContext = "boolean_operation"
	ContextOffset      ToleranceContext = "offset"
)

// toleranceProfile holds the per-context scaling constants and bounds.
type toleranceProfile struct {
	scale   float64 // fraction of wall thickness
	floor   float64 // minimum tolerance in model units (mm)
	ceiling float64 // maximum tolerance in model units (mm)
}

var toleranceProfiles = map[ToleranceContext]toleranceProfile{
	ContextVertexMerge: {scale: 0.0005, floor: 0.001, ceiling: 1.0},
	ContextBoolean:     {scale: 0.002, floor: 0.01, ceiling: 5.0},
	ContextOffset:      {scale: 0.001, floor: 0.005, ceiling: 2.0},
}

// degenerateAngleSin is the sine threshold below which an angle counts as
// near-degenerate (close to 0 or pi). sin is symmetric about pi/2, so one
// threshold covers both the near-parallel and near-collinear cases.
const degenerateAngleSin = 0.05

// maxAngleBoost caps the angle-dependent tolerance scaling so a fully
// collinear pair cannot blow the tolerance up without bound.
const maxAngleBoost = 10.0

// CalculateTolerance maps wall thickness, document precision, the local
// angle between adjoining baselines, and an operation context to a
// tolerance for that operation.
//
// Properties relied on elsewhere:
//   - pure and deterministic: equal inputs always produce equal outputs,
//     so the value is usable as a cache key component
//   - monotonically non-decreasing in thickness
//   - never smaller than documentPrecision, never <= 0
//
// Angles near 0 or pi scale the result upward: the downstream
// line-intersection math divides by the cross product of the baseline
// directions, which vanishes as the baselines become parallel.
func CalculateTolerance(thickness, documentPrecision, localAngle float64, ctx ToleranceContext) float64 {
	profile, ok := toleranceProfiles[ctx]
	if !ok {
		profile = toleranceProfiles[ContextOffset]
	}

	base := math.Abs(thickness) * profile.scale
	if base < profile.floor {
		base = profile.floor
	}
	if base > profile.ceiling {
		base = profile.ceiling
	}

	base *= angleBoost(localAngle)

	if documentPrecision > 0 && base < documentPrecision {
		base = documentPrecision
	}
	if base <= 0 {
		base = minTolerance
	}
	return base
}

// minTolerance is the absolute lower bound returned by CalculateTolerance.
const minTolerance = 1e-9

// angleBoost returns the tolerance multiplier for a local angle.
// 1 for well-conditioned angles, growing toward maxAngleBoost as the angle
// approaches 0 or pi.
func angleBoost(angle float64) float64 {
	if math.IsNaN(angle) {
		return 1
	}
	s := math.Abs(math.Sin(angle))
	if s >= degenerateAngleSin {
		return 1
	}
	boost := degenerateAngleSin / math.Max(s, degenerateAngleSin/maxAngleBoost)
	return math.Min(boost, maxAngleBoost)
}

// toleranceTierFactor is the step between retry tiers in the recovery
// ladder: each retry runs with a tolerance this many times coarser.
const toleranceTierFactor = 4.0

// ToleranceTiers returns the retry ladder for a base tolerance:
// the base value followed by progressively coarser tiers.
func ToleranceTiers(base float64) []float64 {
	return []float64{base, base * toleranceTierFactor, base * toleranceTierFactor * toleranceTierFactor}
}

// ToleranceManager binds a document precision so pipeline stages can query
// tolerances without threading configuration through every call.
// The zero value uses DefaultDocumentPrecision.
type ToleranceManager struct {
	DocumentPrecision float64
}

// Calculate returns the tolerance for the given thickness, local angle and
// context under this manager's document precision.
func (m ToleranceManager) Calculate(thickness, localAngle float64, ctx ToleranceContext) float64 {
	prec := m.DocumentPrecision
	if prec <= 0 {
		prec = DefaultDocumentPrecision
	}
	return CalculateTolerance(thickness, prec, localAngle, ctx)
}

// Signature returns the manager's cache-key component: tolerances are
// derived deterministically from thickness and precision, so the precision
// value alone identifies the tolerance regime.
func (m ToleranceManager) Signature() float64 {
	if m.DocumentPrecision <= 0 {
		return DefaultDocumentPrecision
	}
	return m.DocumentPrecision
}
