package wallgeom

import (
	"time"

	"github.com/google/uuid"
)

// JoinType selects how adjacent offset segments meet at a baseline vertex.
type JoinType string

// Supported join types.
const (
	JoinMiter JoinType = "miter"
	JoinBevel JoinType = "bevel"
	JoinRound JoinType = "round"
)

// WallType names a wall category from the host's fixed thickness table.
type WallType string

// Wall types known to the default thickness table.
const (
	WallLayout WallType = "layout"
	WallZone   WallType = "zone"
	WallArea   WallType = "area"
)

// Default per-type thickness table in millimeters. These are the host
// conventions; override with WithWallTypes when the document differs.
const (
	DefaultLayoutThickness = 350.0
	DefaultZoneThickness   = 250.0
	DefaultAreaThickness   = 150.0
)

// DefaultWallTypes returns the default {type -> thickness} table.
func DefaultWallTypes() map[WallType]float64 {
	return map[WallType]float64{
		WallLayout: DefaultLayoutThickness,
		WallZone:   DefaultZoneThickness,
		WallArea:   DefaultAreaThickness,
	}
}

// HealingRecord logs one repair operation applied to a solid.
type HealingRecord struct {
	Operation string    `json:"operation"`
	Detail    string    `json:"detail"`
	AppliedAt time.Time `json:"appliedAt"`
	Success   bool      `json:"success"`
}

// WallSolid is the manufacturable geometry of one wall: the baseline it
// was drawn along, its offset faces, and the solid polygons produced by
// the pipeline. Stages never mutate a solid partially; each stage either
// returns an updated solid or leaves the previous one intact and reports
// diagnostics.
type WallSolid struct {
	ID        string
	Baseline  *Curve
	Thickness float64
	WallType  WallType

	LeftOffset  *Curve
	RightOffset *Curve

	SolidGeometry []*Polygon
	JoinTypes     map[string]JoinType
	Intersections []*IntersectionData

	HealingHistory   []HealingRecord
	GeometricQuality QualityMetrics
	LastValidated    time.Time
	ProcessingTime   time.Duration
	Complexity       int

	// version stamps the mutable inputs (baseline, thickness). The
	// intersection cache embeds participant versions in its keys, so a
	// bump makes stale entries unreachable without identity tracking.
	version uint64
}

// NewWallSolid creates a wall solid for a baseline and thickness.
// The solid starts unresolved: offsets and geometry are filled in by the
// engine stages.
func NewWallSolid(baseline *Curve, thickness float64, wallType WallType) *WallSolid {
	return &WallSolid{
		ID:        uuid.NewString(),
		Baseline:  baseline,
		Thickness: thickness,
		WallType:  wallType,
		JoinTypes: make(map[string]JoinType),
		version:   1,
	}
}

// Version returns the solid's current mutation stamp.
func (w *WallSolid) Version() uint64 {
	return w.version
}

// SetBaseline replaces the baseline and bumps the version stamp.
func (w *WallSolid) SetBaseline(c *Curve) {
	w.Baseline = c
	w.LeftOffset = nil
	w.RightOffset = nil
	w.version++
}

// SetThickness replaces the thickness and bumps the version stamp.
func (w *WallSolid) SetThickness(t float64) {
	w.Thickness = t
	w.version++
}

// HalfThickness returns half the wall thickness, the offset distance of
// each face from the baseline.
func (w *WallSolid) HalfThickness() float64 {
	return w.Thickness / 2
}

// ComputeComplexity derives the solid's complexity score: baseline and
// solid vertex counts plus a term per hole and per junction. Used for
// monitor hooks and quality cost metrics.
func (w *WallSolid) ComputeComplexity() int {
	c := 0
	if w.Baseline != nil {
		c += len(w.Baseline.Points)
	}
	for _, poly := range w.SolidGeometry {
		c += len(poly.Outer)
		c += 2 * len(poly.Holes)
	}
	c += 3 * len(w.Intersections)
	return c
}

// RecordHealing appends a healing record to the solid's history.
func (w *WallSolid) RecordHealing(op, detail string, success bool) {
	w.HealingHistory = append(w.HealingHistory, HealingRecord{
		Operation: op,
		Detail:    detail,
		AppliedAt: time.Now(),
		Success:   success,
	})
}

// Clone returns a deep copy of the solid. The copy shares no geometry
// with the original; the version stamp is preserved.
func (w *WallSolid) Clone() *WallSolid {
	out := &WallSolid{
		ID:               w.ID,
		Thickness:        w.Thickness,
		WallType:         w.WallType,
		GeometricQuality: w.GeometricQuality,
		LastValidated:    w.LastValidated,
		ProcessingTime:   w.ProcessingTime,
		Complexity:       w.Complexity,
		version:          w.version,
	}
	if w.Baseline != nil {
		out.Baseline = w.Baseline.Clone()
	}
	if w.LeftOffset != nil {
		out.LeftOffset = w.LeftOffset.Clone()
	}
	if w.RightOffset != nil {
		out.RightOffset = w.RightOffset.Clone()
	}
	for _, poly := range w.SolidGeometry {
		out.SolidGeometry = append(out.SolidGeometry, poly.Clone())
	}
	out.JoinTypes = make(map[string]JoinType, len(w.JoinTypes))
	for k, v := range w.JoinTypes {
		out.JoinTypes[k] = v
	}
	out.Intersections = append(out.Intersections, w.Intersections...)
	out.HealingHistory = append(out.HealingHistory, w.HealingHistory...)
	return out
}
