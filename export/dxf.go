// Package export writes wall geometry and quality reports to exchange
// formats consumed by CAD and review workflows.
package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"

	"github.com/planweave/wallgeom"
)

// DXF layer names. Baselines, wall faces and junction outlines land on
// separate layers so CAD users can toggle them independently.
const (
	LayerBaselines     = "WALL_BASELINES"
	LayerSolids        = "WALL_SOLIDS"
	LayerIntersections = "WALL_JUNCTIONS"
)

// ExportDXF writes the network's baselines, solid outlines and resolved
// junction polygons to a DXF file. Coordinates pass through unscaled;
// the document is millimeters, matching the engine's unit.
func ExportDXF(path string, n *wallgeom.WallNetwork) error {
	if n == nil || len(n.Walls) == 0 {
		return fmt.Errorf("export dxf: no walls to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerBaselines, color.Yellow, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	if _, err := d.AddLayer(LayerSolids, color.White, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	if _, err := d.AddLayer(LayerIntersections, color.Cyan, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}

	seenJunctions := make(map[string]bool)
	for _, w := range n.Walls {
		if err := d.ChangeLayer(LayerBaselines); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		if w.Baseline != nil && len(w.Baseline.Points) >= 2 {
			if _, err := d.LwPolyline(w.Baseline.Closed, polylineVertices(w.Baseline.Points)...); err != nil {
				return fmt.Errorf("export dxf: wall %s baseline: %w", w.ID, err)
			}
		}

		if err := d.ChangeLayer(LayerSolids); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		for _, poly := range w.SolidGeometry {
			if poly == nil || len(poly.Outer) < 3 {
				continue
			}
			if _, err := d.LwPolyline(true, polylineVertices(poly.Outer)...); err != nil {
				return fmt.Errorf("export dxf: wall %s outline: %w", w.ID, err)
			}
			for _, hole := range poly.Holes {
				if len(hole) < 3 {
					continue
				}
				if _, err := d.LwPolyline(true, polylineVertices(hole)...); err != nil {
					return fmt.Errorf("export dxf: wall %s hole: %w", w.ID, err)
				}
			}
		}

		if err := d.ChangeLayer(LayerIntersections); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		for _, data := range w.Intersections {
			if data == nil || data.ResolvedGeometry == nil || seenJunctions[data.ID] {
				continue
			}
			seenJunctions[data.ID] = true
			if len(data.ResolvedGeometry.Outer) < 3 {
				continue
			}
			if _, err := d.LwPolyline(true, polylineVertices(data.ResolvedGeometry.Outer)...); err != nil {
				return fmt.Errorf("export dxf: junction %s: %w", data.ID, err)
			}
		}
	}

	return d.SaveAs(path)
}

// polylineVertices converts engine points to the x/y/z triples the DXF
// writer expects.
func polylineVertices(pts []wallgeom.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{p.X, p.Y, 0}
	}
	return out
}
