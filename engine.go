package wallgeom

import (
	"math"
	"time"
)

// Engine is the wall geometry pipeline: offsetting, boolean combination,
// junction resolution, validation and repair. Each call is synchronous
// and CPU-bound; the engine holds no ambient mutable state except the
// intersection cache, performs no I/O, and imposes no timeouts. A caller
// that needs bounded latency runs it on its own worker.
type Engine struct {
	cfg Config

	Tolerance     ToleranceManager
	Offsets       *OffsetEngine
	Booleans      *BooleanEngine
	Intersections *IntersectionManager
	Validator     *Validator
	Detector      *EdgeCaseDetector
}

// NewEngine creates an engine with the given options applied over
// DefaultConfig.
func NewEngine(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tm := ToleranceManager{DocumentPrecision: cfg.DocumentPrecision}
	be := NewBooleanEngine(tm)
	return &Engine{
		cfg:           cfg,
		Tolerance:     tm,
		Offsets:       NewOffsetEngine(tm, cfg.MiterLimit),
		Booleans:      be,
		Intersections: NewIntersectionManager(tm, cfg.MiterLimit, be),
		Validator:     NewValidator(tm, cfg.RepairEnabled),
		Detector:      &EdgeCaseDetector{Tolerance: tm},
	}
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ThicknessFor resolves a wall type to its configured thickness.
// Unknown types fall back to the area thickness.
func (e *Engine) ThicknessFor(wt WallType) float64 {
	if t, ok := e.cfg.WallTypes[wt]; ok {
		return t
	}
	return DefaultAreaThickness
}

// BuildResult is the outcome of building one wall solid.
type BuildResult struct {
	Solid         *WallSolid
	Warnings      []string
	Errors        []*GeometricError
	Notifications []FallbackNotification
}

// BuildWall runs the offset and solidify stages for a single wall:
// baseline + thickness in, offsets and solid geometry out.
//
// Structurally invalid input (baseline with fewer than 2 points,
// thickness <= 0) is rejected before any stage runs; everything else
// degrades per the recovery ladder and always yields a solid.
func (e *Engine) BuildWall(baseline *Curve, thickness float64, wallType WallType) (BuildResult, error) {
	if baseline == nil || len(baseline.Points) < 2 {
		return BuildResult{}, NewGeometricError(ErrDegenerateGeometry, "build_wall",
			"baseline requires at least 2 points")
	}
	if thickness <= 0 {
		return BuildResult{}, NewGeometricError(ErrDegenerateGeometry, "build_wall",
			"thickness must be positive, got %g", thickness)
	}

	start := time.Now()
	opID := e.cfg.Monitor.StartOperation("build_wall", len(baseline.Points))

	solid := NewWallSolid(baseline, thickness, wallType)
	result := BuildResult{Solid: solid}
	handler := &EdgeCaseHandler{}

	join := e.cfg.DefaultJoin
	n := &WallNetwork{Walls: []*WallSolid{solid}}
	for _, ec := range e.Detector.Detect(n) {
		if forced, ok := handler.JoinOverride(ec, join); ok {
			join = forced
		}
	}

	off := e.Offsets.OffsetCurve(baseline, thickness/2, join)
	result.Warnings = append(result.Warnings, off.Warnings...)
	if !off.Success {
		// Degraded-but-valid: a wall that cannot be offset still exists.
		// Synthesize the envelope via repair so the network keeps it.
		result.Errors = append(result.Errors,
			NewGeometricError(ErrOffsetFailure, "build_wall", "offset failed: %s",
				firstOr(off.Warnings, "unknown cause")).AsRecoverable())
		if repaired := e.Validator.RepairInvalidGeometry(solid); repaired.Success {
			solid = repaired.RepairedGeometry
			result.Solid = solid
		}
	} else {
		if off.FallbackUsed {
			handler.RecordOffsetFallback(solid.ID, off.Warnings)
		}
		solid.LeftOffset = off.LeftOffset
		solid.RightOffset = off.RightOffset
		if poly := SolidOutline(baseline, off.LeftOffset, off.RightOffset); poly != nil {
			solid.SolidGeometry = []*Polygon{poly}
		}
	}

	vr := e.Validator.ValidateWallSolid(solid)
	solid.GeometricQuality = vr.QualityMetrics
	solid.ProcessingTime = time.Since(start)
	solid.Complexity = solid.ComputeComplexity()

	result.Notifications = handler.Notifications()

	errKind := ErrorKind("")
	if len(result.Errors) > 0 {
		errKind = result.Errors[0].Kind
	}
	e.cfg.Monitor.EndOperation(opID, solid.Complexity, len(result.Errors) == 0, errKind)
	return result, nil
}

// NetworkResult is the outcome of resolving a wall network.
type NetworkResult struct {
	Network       *WallNetwork
	Intersections []*IntersectionData
	Report        *ValidationReport
	Warnings      []string
	Errors        []*GeometricError
	Notifications []FallbackNotification
}

// ResolveNetwork runs the full pipeline over a network: per-wall builds
// are assumed done (walls carry offsets and solids); junctions at every
// declared node are classified and resolved, results are validated, and
// a report is generated.
//
// The guarantee of the recovery ladder holds network-wide: hostile input
// degrades in quality, never in existence.
func (e *Engine) ResolveNetwork(n *WallNetwork) NetworkResult {
	result := NetworkResult{Network: n}
	if n == nil || len(n.Walls) == 0 {
		result.Warnings = append(result.Warnings, "empty network")
		return result
	}

	opID := e.cfg.Monitor.StartOperation("resolve_network", networkComplexity(n))
	handler := &EdgeCaseHandler{}

	if len(n.Nodes) == 0 {
		n.DetectNodes(e.Tolerance)
	}

	edgeCases := e.Detector.Detect(n)

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

		data, err := e.Intersections.ResolveIntersection(walls, node.Position)
		if err != nil {
			if ge, ok := IsGeometricError(err); ok {
				result.Errors = append(result.Errors, ge)
			}
			continue
		}

		if data.ResolutionMethod != ResolveMiter {
			handler.notify(FallbackNotification{
				Operation:      "resolve_intersection",
				OriginalError:  "miter resolution unavailable at node " + node.ID,
				FallbackMethod: string(data.ResolutionMethod) + " resolution",
				QualityImpact:  clamp01(1 - data.GeometricAccuracy),
				UserGuidance: []string{
					"junction " + node.ID + " was resolved with a simplified method",
				},
				CanRetry:              true,
				AlternativeApproaches: []string{"adjust wall angles", "equalize thicknesses"},
			})
		}

		if len(data.ResolutionWarnings) > 0 || data.RequiresHealing {
			handler.RecordBooleanFallback("junction_union", data.ResolutionWarnings)
		}
		if data.ResolutionFailure != "" {
			result.Errors = append(result.Errors,
				NewGeometricError(data.ResolutionFailure, "resolve_network",
					"junction %s union failed: %s", node.ID,
					firstOr(data.ResolutionWarnings, "no usable geometry")).AsRecoverable())
		}

		result.Intersections = append(result.Intersections, data)
		for _, w := range walls {
			w.Intersections = append(w.Intersections, data)
			w.JoinTypes[node.ID] = joinForResolution(data.ResolutionMethod)
		}
	}

	for _, ec := range edgeCases {
		if ec.Kind == EdgeDuplicateOverlap {
			result.Warnings = append(result.Warnings,
				"duplicate overlapping walls: "+ec.Walls[0]+" and "+ec.Walls[1])
		}
	}

	if e.cfg.RepairEnabled {
		for i, w := range n.Walls {
			vr := e.Validator.ValidateWallSolid(w)
			if vr.IsValid && !needsHealing(w) {
				continue
			}
			if repaired := e.Validator.RepairInvalidGeometry(w); repaired.Success && repaired.IssuesFixed > 0 {
				n.Walls[i] = repaired.RepairedGeometry
				result.Warnings = append(result.Warnings,
					"wall "+w.ID+" repaired: "+firstOr(repaired.RepairOperations, ""))
			}
		}
	}

	result.Report = e.Validator.GenerateValidationReport(n)
	result.Notifications = handler.Notifications()

	e.cfg.Monitor.EndOperation(opID, networkComplexity(n), len(result.Errors) == 0, "")
	return result
}

// needsHealing reports whether any junction on the wall asked for a repair
// pass after its boolean stage found degeneracies.
func needsHealing(w *WallSolid) bool {
	for _, d := range w.Intersections {
		if d != nil && d.RequiresHealing {
			return true
		}
	}
	return false
}

// joinForResolution maps a junction resolution to the join type recorded
// on the participating walls.
func joinForResolution(m ResolutionMethod) JoinType {
	switch m {
	case ResolveMiter:
		return JoinMiter
	default:
		return JoinBevel
	}
}

// networkComplexity sums wall complexities for monitor hooks.
func networkComplexity(n *WallNetwork) int {
	c := 0
	for _, w := range n.Walls {
		c += int(math.Max(1, float64(w.ComputeComplexity())))
	}
	return c
}
