package wallgeom

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RuleTarget names the entity kind a validation rule inspects.
type RuleTarget string

// Rule targets.
const (
	TargetCurve        RuleTarget = "curve"
	TargetWallSolid    RuleTarget = "wall_solid"
	TargetIntersection RuleTarget = "intersection"
	TargetNetwork      RuleTarget = "network"
)

// ValidationIssue is one finding from a rule.
type ValidationIssue struct {
	Rule        string
	Severity    Severity
	Message     string
	AutoFixable bool
}

// ValidationResult aggregates rule findings for an entity.
// IsValid is false iff any issue carries error or critical severity.
type ValidationResult struct {
	IsValid        bool
	Errors         []ValidationIssue
	Warnings       []ValidationIssue
	QualityMetrics QualityMetrics
	Suggestions    []string
}

// ValidationRule is a named, pure inspection. Evaluate must not mutate
// the entity; severity and fixability tag every issue the rule emits.
type ValidationRule struct {
	Name        string
	Target      RuleTarget
	Severity    Severity
	AutoFixable bool
	Evaluate    func(entity any) []string
}

// Validator runs an ordered registry of rules over engine entities and
// owns healing. Rules registered later run after built-in rules.
type Validator struct {
	Tolerance     ToleranceManager
	RepairEnabled bool

	mu    sync.RWMutex
	rules []ValidationRule
}

// Sanity bounds for wall thickness in millimeters. Outside this range the
// thickness is almost certainly a unit mistake; it validates with a
// warning, not an error.
const (
	saneThicknessMin = 10.0
	saneThicknessMax = 1000.0
)

// NewValidator creates a validator with the built-in rules registered.
func NewValidator(tm ToleranceManager, repairEnabled bool) *Validator {
	v := &Validator{Tolerance: tm, RepairEnabled: repairEnabled}
	for _, r := range builtinRules(tm) {
		v.rules = append(v.rules, r)
	}
	return v
}

// AddValidationRule appends a rule to the registry. Rules evaluate in
// registration order. A rule with an already-registered name is rejected.
func (v *Validator) AddValidationRule(r ValidationRule) error {
	if r.Name == "" || r.Evaluate == nil {
		return fmt.Errorf("validation rule needs a name and an evaluate function")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, existing := range v.rules {
		if existing.Name == r.Name {
			return fmt.Errorf("validation rule %q already registered", r.Name)
		}
	}
	v.rules = append(v.rules, r)
	return nil
}

// RemoveValidationRule removes a rule by name. Returns true if found.
func (v *Validator) RemoveValidationRule(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, r := range v.rules {
		if r.Name == name {
			v.rules = append(v.rules[:i], v.rules[i+1:]...)
			return true
		}
	}
	return false
}

// ValidationRules returns a snapshot of the registry in evaluation order.
func (v *Validator) ValidationRules() []ValidationRule {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]ValidationRule(nil), v.rules...)
}

// run evaluates all rules for a target over the entity.
func (v *Validator) run(target RuleTarget, entity any) ValidationResult {
	result := ValidationResult{IsValid: true}
	for _, r := range v.ValidationRules() {
		if r.Target != target {
			continue
		}
		for _, msg := range r.Evaluate(entity) {
			issue := ValidationIssue{
				Rule:        r.Name,
				Severity:    r.Severity,
				Message:     msg,
				AutoFixable: r.AutoFixable,
			}
			if r.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, issue)
			} else {
				result.Errors = append(result.Errors, issue)
				result.IsValid = false
			}
			if r.AutoFixable {
				result.Suggestions = append(result.Suggestions,
					fmt.Sprintf("%s: repairable automatically", msg))
			}
		}
	}
	return result
}

// ValidateCurve checks a curve against the curve rules.
func (v *Validator) ValidateCurve(c *Curve) ValidationResult {
	result := v.run(TargetCurve, c)
	result.QualityMetrics = v.curveQuality(c, result)
	return result
}

// ValidateWallSolid checks a wall solid and its geometry.
func (v *Validator) ValidateWallSolid(w *WallSolid) ValidationResult {
	result := v.run(TargetWallSolid, w)
	if w != nil && w.Baseline != nil {
		base := v.ValidateCurve(w.Baseline)
		result.Errors = append(result.Errors, base.Errors...)
		result.Warnings = append(result.Warnings, base.Warnings...)
		if !base.IsValid {
			result.IsValid = false
		}
	}
	result.QualityMetrics = v.solidQuality(w, result)
	if w != nil {
		w.LastValidated = time.Now()
	}
	return result
}

// ValidateIntersection checks a resolved junction record. The record is
// cache-owned and shared between callers, so the outcome lives in the
// returned result rather than being written back onto d.
func (v *Validator) ValidateIntersection(d *IntersectionData) ValidationResult {
	result := v.run(TargetIntersection, d)
	if d != nil {
		result.QualityMetrics.Accuracy = d.GeometricAccuracy
		result.QualityMetrics.Consistency = boolScore(result.IsValid)
		result.QualityMetrics.Manufacturability = d.GeometricAccuracy
	}
	return result
}

// ValidateWallNetwork checks cross-wall consistency over a network.
func (v *Validator) ValidateWallNetwork(n *WallNetwork) ValidationResult {
	result := v.run(TargetNetwork, n)
	if n != nil {
		var agg QualityMetrics
		count := 0
		for _, w := range n.Walls {
			wr := v.ValidateWallSolid(w)
			if !wr.IsValid {
				result.IsValid = false
				result.Errors = append(result.Errors, wr.Errors...)
			}
			result.Warnings = append(result.Warnings, wr.Warnings...)
			agg = agg.accumulate(wr.QualityMetrics)
			count++
		}
		if count > 0 {
			result.QualityMetrics = agg.average(count)
		}
	}
	return result
}

// ValidateTopology checks network connectivity: every node's wall list
// must reference known walls, and every wall endpoint shared by two walls
// must appear as a node.
func (v *Validator) ValidateTopology(n *WallNetwork) ValidationResult {
	result := ValidationResult{IsValid: true}
	if n == nil {
		return result
	}

	known := make(map[string]*WallSolid, len(n.Walls))
	for _, w := range n.Walls {
		known[w.ID] = w
	}
	for _, node := range n.Nodes {
		for _, id := range node.Walls {
			if _, ok := known[id]; !ok {
				result.IsValid = false
				result.Errors = append(result.Errors, ValidationIssue{
					Rule:     "topology.unknown-wall",
					Severity: SeverityError,
					Message:  fmt.Sprintf("node %s references unknown wall %s", node.ID, id),
				})
			}
		}
		if len(node.Walls) < 2 {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Rule:     "topology.dangling-node",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("node %s joins fewer than 2 walls", node.ID),
			})
		}
	}

	mergeTol := v.Tolerance.Calculate(DefaultLayoutThickness, math.Pi/2, ContextVertexMerge)
	for i, a := range n.Walls {
		for _, b := range n.Walls[i+1:] {
			at := sharedEndpoint(a, b, mergeTol)
			if at == nil {
				continue
			}
			if !n.hasNodeAt(*at, mergeTol) {
				result.Warnings = append(result.Warnings, ValidationIssue{
					Rule:     "topology.missing-node",
					Severity: SeverityWarning,
					Message: fmt.Sprintf("walls %s and %s touch at (%.1f, %.1f) without a declared node",
						a.ID, b.ID, at.X, at.Y),
				})
			}
		}
	}
	return result
}

// sharedEndpoint returns a point where the two baselines share an
// endpoint within tol, or nil.
func sharedEndpoint(a, b *WallSolid, tol float64) *Point {
	if a.Baseline == nil || b.Baseline == nil {
		return nil
	}
	ea := curveEndpoints(a.Baseline)
	eb := curveEndpoints(b.Baseline)
	for _, p := range ea {
		for _, q := range eb {
			if p.EqualWithin(q, tol) {
				return &p
			}
		}
	}
	return nil
}

// curveEndpoints returns the free endpoints of a curve (none for closed).
func curveEndpoints(c *Curve) []Point {
	if c.Closed || len(c.Points) == 0 {
		return nil
	}
	return []Point{c.Points[0], c.Points[len(c.Points)-1]}
}

// boolScore maps a boolean to a unit score.
func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0.5
}

// builtinRules returns the default rule set in evaluation order.
func builtinRules(tm ToleranceManager) []ValidationRule {
	return []ValidationRule{
		{
			Name:     "curve.min-points",
			Target:   TargetCurve,
			Severity: SeverityError,
			Evaluate: func(entity any) []string {
				c, ok := entity.(*Curve)
				if !ok || c == nil {
					return []string{"entity is not a curve"}
				}
				if len(c.Points) < 2 {
					return []string{fmt.Sprintf("curve has %d points, need at least 2", len(c.Points))}
				}
				return nil
			},
		},
		{
			Name:     "curve.finite",
			Target:   TargetCurve,
			Severity: SeverityCritical,
			Evaluate: func(entity any) []string {
				c, ok := entity.(*Curve)
				if !ok || c == nil || c.IsFinite() {
					return nil
				}
				return []string{"curve contains non-finite coordinates"}
			},
		},
		{
			Name:        "curve.duplicate-points",
			Target:      TargetCurve,
			Severity:    SeverityWarning,
			AutoFixable: true,
			Evaluate: func(entity any) []string {
				c, ok := entity.(*Curve)
				if !ok || c == nil || len(c.Points) < 2 {
					return nil
				}
				var msgs []string
				for i := 1; i < len(c.Points); i++ {
					tol := c.Points[i].Tolerance
					if tol <= 0 {
						tol = tm.Calculate(DefaultAreaThickness, math.Pi/2, ContextVertexMerge)
					}
					if c.Points[i].EqualWithin(c.Points[i-1], tol) {
						msgs = append(msgs, fmt.Sprintf("zero-length segment at index %d", i-1))
					}
				}
				return msgs
			},
		},
		{
			Name:     "solid.thickness-positive",
			Target:   TargetWallSolid,
			Severity: SeverityError,
			Evaluate: func(entity any) []string {
				w, ok := entity.(*WallSolid)
				if !ok || w == nil {
					return []string{"entity is not a wall solid"}
				}
				if w.Thickness <= 0 {
					return []string{fmt.Sprintf("thickness must be positive, got %g", w.Thickness)}
				}
				return nil
			},
		},
		{
			Name:     "solid.thickness-sane",
			Target:   TargetWallSolid,
			Severity: SeverityWarning,
			Evaluate: func(entity any) []string {
				w, ok := entity.(*WallSolid)
				if !ok || w == nil || w.Thickness <= 0 {
					return nil
				}
				if w.Thickness < saneThicknessMin || w.Thickness > saneThicknessMax {
					return []string{fmt.Sprintf("thickness %g mm outside sane range [%g, %g]",
						w.Thickness, saneThicknessMin, saneThicknessMax)}
				}
				return nil
			},
		},
		{
			Name:        "solid.hole-vertices",
			Target:      TargetWallSolid,
			Severity:    SeverityError,
			AutoFixable: true,
			Evaluate: func(entity any) []string {
				w, ok := entity.(*WallSolid)
				if !ok || w == nil {
					return nil
				}
				var msgs []string
				for _, poly := range w.SolidGeometry {
					for hi, h := range poly.Holes {
						if len(h) < 3 {
							msgs = append(msgs, fmt.Sprintf("polygon hole %d has %d vertices, need at least 3", hi, len(h)))
						}
					}
				}
				return msgs
			},
		},
		{
			Name:     "solid.self-intersection",
			Target:   TargetWallSolid,
			Severity: SeverityWarning,
			Evaluate: func(entity any) []string {
				w, ok := entity.(*WallSolid)
				if !ok || w == nil {
					return nil
				}
				tol := tm.Calculate(w.Thickness, math.Pi/2, ContextBoolean)
				var msgs []string
				for i, poly := range w.SolidGeometry {
					if poly.SelfIntersects(tol) {
						msgs = append(msgs, fmt.Sprintf("solid polygon %d self-intersects", i))
					}
				}
				return msgs
			},
		},
		{
			Name:     "intersection.participants",
			Target:   TargetIntersection,
			Severity: SeverityError,
			Evaluate: func(entity any) []string {
				d, ok := entity.(*IntersectionData)
				if !ok || d == nil {
					return []string{"entity is not intersection data"}
				}
				if len(d.ParticipatingWalls) < 2 {
					return []string{fmt.Sprintf("intersection has %d participants, need at least 2",
						len(d.ParticipatingWalls))}
				}
				return nil
			},
		},
		{
			Name:     "intersection.resolved",
			Target:   TargetIntersection,
			Severity: SeverityWarning,
			Evaluate: func(entity any) []string {
				d, ok := entity.(*IntersectionData)
				if !ok || d == nil {
					return nil
				}
				if d.ResolvedGeometry == nil {
					return []string{"intersection carries no resolved geometry"}
				}
				return nil
			},
		},
		{
			Name:     "network.isolated-walls",
			Target:   TargetNetwork,
			Severity: SeverityWarning,
			Evaluate: func(entity any) []string {
				n, ok := entity.(*WallNetwork)
				if !ok || n == nil {
					return nil
				}
				connected := make(map[string]bool)
				for _, node := range n.Nodes {
					if len(node.Walls) >= 2 {
						for _, id := range node.Walls {
							connected[id] = true
						}
					}
				}
				var msgs []string
				if len(n.Walls) < 2 {
					return nil
				}
				for _, w := range n.Walls {
					if !connected[w.ID] {
						msgs = append(msgs, fmt.Sprintf("wall %s shares no node with any other wall", w.ID))
					}
				}
				return msgs
			},
		},
		{
			Name:     "network.thickness-consistency",
			Target:   TargetNetwork,
			Severity: SeverityWarning,
			Evaluate: func(entity any) []string {
				n, ok := entity.(*WallNetwork)
				if !ok || n == nil {
					return nil
				}
				byID := make(map[string]*WallSolid, len(n.Walls))
				for _, w := range n.Walls {
					byID[w.ID] = w
				}
				var msgs []string
				for _, node := range n.Nodes {
					minT, maxT := math.MaxFloat64, 0.0
					for _, id := range node.Walls {
						if w, ok := byID[id]; ok && w.Thickness > 0 {
							minT = math.Min(minT, w.Thickness)
							maxT = math.Max(maxT, w.Thickness)
						}
					}
					if maxT > 0 && maxT > 2*minT {
						msgs = append(msgs, fmt.Sprintf(
							"node %s joins walls with inconsistent thickness (%g vs %g)",
							node.ID, minT, maxT))
					}
				}
				return msgs
			},
		},
	}
}
