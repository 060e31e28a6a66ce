// Package wallgeom builds manufacturable 2D wall solids from baseline
// centerlines and thicknesses.
//
// # Overview
//
// wallgeom is a pure Go computational geometry engine for architectural
// wall networks. A wall is authored as a baseline polyline plus a
// thickness; the engine offsets the baseline to both sides, closes the
// result into a solid outline, resolves junctions where walls meet, and
// validates and repairs the output so downstream consumers always
// receive structurally valid geometry.
//
// # Quick Start
//
//	import "github.com/planweave/wallgeom"
//
//	eng := wallgeom.NewEngine()
//	baseline := wallgeom.NewCurve(wallgeom.Pt(0, 0), wallgeom.Pt(5000, 0))
//	res, err := eng.BuildWall(baseline, 200, wallgeom.WallZone)
//	if err != nil {
//	    // structurally invalid input
//	}
//	_ = res.Solid.SolidGeometry
//
// # Architecture
//
// The engine is organized as a staged pipeline:
//   - Tolerance: context-aware epsilon selection scaled by thickness
//   - Offsets: baseline to left/right face curves with join handling
//   - Booleans: polygon union/intersection/difference with tiered retry
//   - Intersections: junction classification and resolution, memoized
//   - Validator: rule registry, quality metrics, repair
//
// Supporting subpackages: cache (sharded memoization with in-flight
// deduplication), export (DXF and PDF output), internal/planfile (plan
// file parsing).
//
// # Coordinate System
//
// All coordinates are millimeters in document space. Left and right
// offsets are relative to baseline direction: walking from the first
// point to the last, left is the counter-clockwise perpendicular.
//
// # Failure Model
//
// Hostile input degrades in quality, never in existence: each stage
// falls back through simpler strategies (coarser tolerance, simpler
// joins, placeholder geometry) and reports what it did via warnings
// and FallbackNotification records. Structurally invalid input such as
// a one-point baseline or non-positive thickness is the only hard
// rejection.
package wallgeom
