package wallgeom

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// QualityMetrics scores an entity's geometry. Score fields live in
// [0, 1]; defect fields count findings; cost fields record what producing
// the entity took. Metrics are computed, never hand-edited.
type QualityMetrics struct {
	Accuracy          float64 `json:"accuracy"`
	Consistency       float64 `json:"consistency"`
	Manufacturability float64 `json:"manufacturability"`

	SliverFaces        int `json:"sliverFaces"`
	MicroGaps          int `json:"microGaps"`
	SelfIntersections  int `json:"selfIntersections"`
	DegenerateElements int `json:"degenerateElements"`

	Complexity     int           `json:"complexity"`
	ProcessingTime time.Duration `json:"processingTime"`
	MemoryEstimate int64         `json:"memoryEstimate"`
}

// Overall returns the mean of the three score components.
func (q QualityMetrics) Overall() float64 {
	return (q.Accuracy + q.Consistency + q.Manufacturability) / 3
}

// accumulate sums score and defect fields for later averaging.
func (q QualityMetrics) accumulate(other QualityMetrics) QualityMetrics {
	q.Accuracy += other.Accuracy
	q.Consistency += other.Consistency
	q.Manufacturability += other.Manufacturability
	q.SliverFaces += other.SliverFaces
	q.MicroGaps += other.MicroGaps
	q.SelfIntersections += other.SelfIntersections
	q.DegenerateElements += other.DegenerateElements
	q.Complexity += other.Complexity
	q.ProcessingTime += other.ProcessingTime
	q.MemoryEstimate += other.MemoryEstimate
	return q
}

// average divides the score fields by n; defect and cost fields stay
// summed.
func (q QualityMetrics) average(n int) QualityMetrics {
	if n <= 0 {
		return q
	}
	q.Accuracy /= float64(n)
	q.Consistency /= float64(n)
	q.Manufacturability /= float64(n)
	return q
}

// HealthClass is the overall classification of a validation report.
type HealthClass string

// Health classes in decreasing order.
const (
	HealthExcellent HealthClass = "excellent"
	HealthGood      HealthClass = "good"
	HealthFair      HealthClass = "fair"
	HealthPoor      HealthClass = "poor"
	HealthCritical  HealthClass = "critical"
)

// classifyHealth maps an overall score and critical issue count to a
// health class.
func classifyHealth(overall float64, criticalIssues int) HealthClass {
	if criticalIssues > 0 {
		return HealthCritical
	}
	switch {
	case overall >= 0.95:
		return HealthExcellent
	case overall >= 0.85:
		return HealthGood
	case overall >= 0.7:
		return HealthFair
	case overall >= 0.5:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// curveQuality scores a curve from its validation result and smoothness.
func (v *Validator) curveQuality(c *Curve, result ValidationResult) QualityMetrics {
	q := QualityMetrics{Accuracy: 1, Consistency: 1, Manufacturability: 1}
	if c == nil || len(c.Points) < 2 {
		return QualityMetrics{}
	}

	q.DegenerateElements = len(result.Warnings)
	q.Consistency = clamp01(1 - 0.1*float64(len(result.Warnings)))
	if !result.IsValid {
		q.Accuracy = 0.3
	}
	q.Manufacturability = clamp01(1 - baselineRoughness(c))
	q.Complexity = len(c.Points)
	return q
}

// baselineRoughness measures how jagged a baseline is: the mean absolute
// discrete curvature scaled into [0, 1].
func baselineRoughness(c *Curve) float64 {
	if len(c.Points) < 3 {
		return 0
	}
	var sum float64
	for i := 1; i < len(c.Points)-1; i++ {
		sum += c.CurvatureAt(i)
	}
	mean := sum / float64(len(c.Points)-2)
	return clamp01(mean * 100)
}

// solidQuality scores a wall solid: validation findings, offset
// consistency, and per-polygon defects.
func (v *Validator) solidQuality(w *WallSolid, result ValidationResult) QualityMetrics {
	if w == nil {
		return QualityMetrics{}
	}
	q := QualityMetrics{Accuracy: 1, Consistency: 1, Manufacturability: 1}

	if !result.IsValid {
		q.Accuracy = 0.2
	}

	q.Consistency = v.offsetConsistency(w)

	tol := v.Tolerance.Calculate(w.Thickness, math.Pi/2, ContextBoolean)
	areaTol := tol * math.Max(w.Thickness, 1)
	for _, poly := range w.SolidGeometry {
		if math.Abs(ringArea(poly.Outer)) < areaTol {
			q.SliverFaces++
		}
		if poly.SelfIntersects(tol) {
			q.SelfIntersections++
		}
		if _, removed := dedupRing(poly.Outer, tol); removed > 0 {
			q.DegenerateElements += removed
		}
	}
	q.MicroGaps = countMicroGaps(w, tol)

	defects := q.SliverFaces + q.SelfIntersections + q.MicroGaps
	q.Manufacturability = clamp01(1 - 0.15*float64(defects) - 0.02*float64(q.DegenerateElements))

	q.Complexity = w.ComputeComplexity()
	q.ProcessingTime = w.ProcessingTime
	q.MemoryEstimate = int64(q.Complexity) * 48
	return q
}

// offsetConsistency measures how well the offsets hold their distance
// from the baseline: 1 when every offset vertex sits at half thickness
// within tolerance.
func (v *Validator) offsetConsistency(w *WallSolid) float64 {
	if w.Baseline == nil || w.LeftOffset == nil || w.RightOffset == nil {
		return 1
	}
	half := w.HalfThickness()
	if half <= 0 {
		return 0
	}
	tol := v.Tolerance.Calculate(w.Thickness, math.Pi/2, ContextOffset)

	var worst float64
	check := func(c *Curve) {
		for _, p := range c.Points {
			d := distanceToCurve(p, w.Baseline)
			// Join geometry legitimately pushes vertices past half
			// thickness; only shortfalls count against consistency.
			if err := half - d; err > tol && err > worst {
				worst = err
			}
		}
	}
	check(w.LeftOffset)
	check(w.RightOffset)
	return clamp01(1 - worst/half)
}

// distanceToCurve returns the minimum distance from p to any segment of c.
func distanceToCurve(p Point, c *Curve) float64 {
	best := math.MaxFloat64
	for i := 0; i < c.SegmentCount(); i++ {
		a, b := c.Segment(i)
		if d := pointSegmentDistance(p, NewLine(a, b)); d < best {
			best = d
		}
	}
	return best
}

// countMicroGaps counts adjacent solid polygons whose rings come close
// without touching: a small unintended opening between geometry that
// should be continuous.
func countMicroGaps(w *WallSolid, tol float64) int {
	gaps := 0
	polys := w.SolidGeometry
	for i := 0; i < len(polys); i++ {
		for j := i + 1; j < len(polys); j++ {
			d := ringDistance(polys[i].Outer, polys[j].Outer)
			if d > tol && d < tol*20 {
				gaps++
			}
		}
	}
	return gaps
}

// ringDistance returns the minimum vertex-to-edge distance between rings.
func ringDistance(a, b []Point) float64 {
	best := math.MaxFloat64
	nb := len(b)
	for _, p := range a {
		for i := 0; i < nb; i++ {
			if d := pointSegmentDistance(p, NewLine(b[i], b[(i+1)%nb])); d < best {
				best = d
			}
		}
	}
	return best
}

// CalculateDetailedQualityMetrics aggregates per-wall and per-junction
// scores across a network.
func (v *Validator) CalculateDetailedQualityMetrics(n *WallNetwork) QualityMetrics {
	if n == nil || len(n.Walls) == 0 {
		return QualityMetrics{}
	}
	var agg QualityMetrics
	count := 0
	for _, w := range n.Walls {
		result := v.run(TargetWallSolid, w)
		agg = agg.accumulate(v.solidQuality(w, result))
		count++
		for _, d := range w.Intersections {
			agg = agg.accumulate(QualityMetrics{
				Accuracy:          d.GeometricAccuracy,
				Consistency:       boolScore(d.Validated),
				Manufacturability: d.GeometricAccuracy,
			})
			count++
		}
	}
	return agg.average(count)
}

// ValidationReport is the health summary for a wall network.
type ValidationReport struct {
	GeneratedAt     time.Time
	WallCount       int
	NodeCount       int
	Health          HealthClass
	Overall         QualityMetrics
	WallResults     map[string]ValidationResult
	NetworkResult   ValidationResult
	Recommendations []string
}

// GenerateValidationReport validates every wall and the network, then
// classifies overall health and ranks recommendations worst-first.
func (v *Validator) GenerateValidationReport(n *WallNetwork) *ValidationReport {
	report := &ValidationReport{
		GeneratedAt: time.Now(),
		WallResults: make(map[string]ValidationResult),
	}
	if n == nil {
		report.Health = HealthCritical
		return report
	}
	report.WallCount = len(n.Walls)
	report.NodeCount = len(n.Nodes)

	criticals := 0
	type ranked struct {
		score float64
		text  string
	}
	var recs []ranked

	for _, w := range n.Walls {
		result := v.ValidateWallSolid(w)
		report.WallResults[w.ID] = result
		for _, issue := range result.Errors {
			if issue.Severity == SeverityCritical {
				criticals++
			}
			recs = append(recs, ranked{score: 0, text: fmt.Sprintf("wall %s: %s", w.ID, issue.Message)})
		}
		if q := result.QualityMetrics; q.Overall() < 0.85 {
			recs = append(recs, ranked{
				score: q.Overall(),
				text:  fmt.Sprintf("wall %s quality %.2f: review junction fallbacks and slivers", w.ID, q.Overall()),
			})
		}
	}

	report.NetworkResult = v.ValidateWallNetwork(n)
	for _, issue := range report.NetworkResult.Warnings {
		recs = append(recs, ranked{score: 0.8, text: issue.Message})
	}

	report.Overall = v.CalculateDetailedQualityMetrics(n)
	report.Health = classifyHealth(report.Overall.Overall(), criticals)

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].score < recs[j].score })
	for _, r := range recs {
		report.Recommendations = append(report.Recommendations, r.text)
	}
	return report
}
