package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/planweave/wallgeom"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	contentWidth = pageWidth - marginLeft - marginRight
	planAreaTop  = marginTop + headerHeight + 5.0
)

// healthColors maps health classes to fill colors for the summary badge.
var healthColors = map[wallgeom.HealthClass][3]int{
	wallgeom.HealthExcellent: {76, 175, 80},
	wallgeom.HealthGood:      {139, 195, 74},
	wallgeom.HealthFair:      {255, 193, 7},
	wallgeom.HealthPoor:      {255, 152, 0},
	wallgeom.HealthCritical:  {244, 67, 54},
}

// ExportReportPDF generates a quality report PDF for a wall network: a
// plan overview page with the wall outlines, followed by a per-wall
// quality table and the ranked recommendations.
func ExportReportPDF(path string, n *wallgeom.WallNetwork, report *wallgeom.ValidationReport) error {
	if n == nil || len(n.Walls) == 0 {
		return fmt.Errorf("export report: no walls to export")
	}
	if report == nil {
		return fmt.Errorf("export report: nil report")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, n, report)

	pdf.AddPage()
	renderQualityPage(pdf, n, report)

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws the wall plan scaled to fit the page.
func renderPlanPage(pdf *fpdf.Fpdf, n *wallgeom.WallNetwork, report *wallgeom.ValidationReport) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Wall Network Report: %d walls, %d junctions", report.WallCount, report.NodeCount)
	pdf.CellFormat(contentWidth, headerHeight, title, "", 0, "L", false, 0, "")

	// Health badge
	col, ok := healthColors[report.Health]
	if !ok {
		col = healthColors[wallgeom.HealthCritical]
	}
	pdf.SetFillColor(col[0], col[1], col[2])
	pdf.SetDrawColor(60, 60, 60)
	pdf.Rect(pageWidth-marginRight-30, marginTop, 30, 8, "FD")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(pageWidth-marginRight-30, marginTop)
	pdf.CellFormat(30, 8, string(report.Health), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	bounds, ok := networkBounds(n)
	if !ok {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, planAreaTop)
		pdf.CellFormat(contentWidth, rowHeight, "No drawable geometry.", "", 0, "L", false, 0, "")
		return
	}

	drawWidth := contentWidth
	drawHeight := pageHeight - planAreaTop - marginBottom - 20
	scale := math.Min(drawWidth/math.Max(bounds.Width(), 1), drawHeight/math.Max(bounds.Height(), 1))
	offsetX := marginLeft + (drawWidth-bounds.Width()*scale)/2
	offsetY := planAreaTop

	// PDF y grows downward, document y grows upward
	toPage := func(p wallgeom.Point) (float64, float64) {
		return offsetX + (p.X-bounds.Min.X)*scale, offsetY + (bounds.Max.Y-p.Y)*scale
	}

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.4)
	for _, w := range n.Walls {
		for _, poly := range w.SolidGeometry {
			if poly == nil {
				continue
			}
			drawRing(pdf, poly.Outer, toPage)
			for _, hole := range poly.Holes {
				drawRing(pdf, hole, toPage)
			}
		}
	}

	pdf.SetDrawColor(33, 150, 243)
	pdf.SetLineWidth(0.2)
	for _, w := range n.Walls {
		if w.Baseline == nil {
			continue
		}
		pts := w.Baseline.Points
		for i := 1; i < len(pts); i++ {
			x1, y1 := toPage(pts[i-1])
			x2, y2 := toPage(pts[i])
			pdf.Line(x1, y1, x2, y2)
		}
	}
}

// renderQualityPage draws the per-wall quality table and the ranked
// recommendation list.
func renderQualityPage(pdf *fpdf.Fpdf, n *wallgeom.WallNetwork, report *wallgeom.ValidationReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, headerHeight, "Quality Breakdown", "", 0, "L", false, 0, "")

	y := marginTop + headerHeight
	colW := []float64{60, 30, 30, 30, 30}
	headers := []string{"Wall", "Accuracy", "Consistency", "Manufact.", "Valid"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(marginLeft, y)
	for i, h := range headers {
		pdf.CellFormat(colW[i], rowHeight, h, "1", 0, "C", true, 0, "")
	}
	y += rowHeight

	ids := make([]string, 0, len(report.WallResults))
	for id := range report.WallResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pdf.SetFont("Helvetica", "", 9)
	for _, id := range ids {
		res := report.WallResults[id]
		valid := "yes"
		if !res.IsValid {
			valid = "NO"
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(colW[0], rowHeight, shortID(id), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], rowHeight, fmt.Sprintf("%.2f", res.QualityMetrics.Accuracy), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], rowHeight, fmt.Sprintf("%.2f", res.QualityMetrics.Consistency), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], rowHeight, fmt.Sprintf("%.2f", res.QualityMetrics.Manufacturability), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[4], rowHeight, valid, "1", 0, "C", false, 0, "")
		y += rowHeight
		if y > pageHeight-marginBottom-rowHeight {
			pdf.AddPage()
			y = marginTop
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, rowHeight, "Recommendations", "", 0, "L", false, 0, "")
	y += rowHeight + 2

	pdf.SetFont("Helvetica", "", 9)
	if len(report.Recommendations) == 0 {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, rowHeight, "None. Geometry is within tolerance.", "", 0, "L", false, 0, "")
		return
	}
	for i, rec := range report.Recommendations {
		pdf.SetXY(marginLeft, y)
		pdf.MultiCell(contentWidth, 5, fmt.Sprintf("%d. %s", i+1, rec), "", "L", false)
		y = pdf.GetY() + 1
		if y > pageHeight-marginBottom-rowHeight {
			pdf.AddPage()
			y = marginTop
		}
	}
}

func drawRing(pdf *fpdf.Fpdf, ring []wallgeom.Point, toPage func(wallgeom.Point) (float64, float64)) {
	if len(ring) < 2 {
		return
	}
	for i := 1; i <= len(ring); i++ {
		a := ring[i-1]
		b := ring[i%len(ring)]
		x1, y1 := toPage(a)
		x2, y2 := toPage(b)
		pdf.Line(x1, y1, x2, y2)
	}
}

// networkBounds unions the bounding boxes of all drawable geometry.
func networkBounds(n *wallgeom.WallNetwork) (wallgeom.Rect, bool) {
	var bounds wallgeom.Rect
	found := false
	add := func(r wallgeom.Rect) {
		if !found {
			bounds = r
			found = true
			return
		}
		bounds = bounds.Union(r)
	}
	for _, w := range n.Walls {
		if w.Baseline != nil && len(w.Baseline.Points) > 0 {
			add(w.Baseline.BoundingBox())
		}
		for _, poly := range w.SolidGeometry {
			if poly != nil && len(poly.Outer) > 0 {
				add(poly.BoundingBox())
			}
		}
	}
	return bounds, found
}

func shortID(id string) string {
	if len(id) > 24 {
		return id[:24]
	}
	return id
}
