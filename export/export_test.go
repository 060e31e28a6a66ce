package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/planweave/wallgeom"
)

// buildTestNetwork assembles a resolved L-corner network with a report.
func buildTestNetwork(t *testing.T) (*wallgeom.WallNetwork, *wallgeom.ValidationReport) {
	t.Helper()
	eng := wallgeom.NewEngine()

	n := &wallgeom.WallNetwork{}
	walls := []struct {
		id  string
		pts []wallgeom.Point
	}{
		{"south", []wallgeom.Point{wallgeom.Pt(0, 0), wallgeom.Pt(8000, 0)}},
		{"west", []wallgeom.Point{wallgeom.Pt(0, 0), wallgeom.Pt(0, 6000)}},
	}
	for _, spec := range walls {
		res, err := eng.BuildWall(wallgeom.NewCurve(spec.pts...), 200, wallgeom.WallZone)
		if err != nil {
			t.Fatalf("BuildWall(%s) returned error: %v", spec.id, err)
		}
		res.Solid.ID = spec.id
		n.Walls = append(n.Walls, res.Solid)
	}

	result := eng.ResolveNetwork(n)
	if result.Report == nil {
		t.Fatal("ResolveNetwork produced no report")
	}
	return n, result.Report
}

func TestExportDXF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.dxf")

	n, _ := buildTestNetwork(t)
	if err := ExportDXF(path, n); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("DXF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("DXF file is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read DXF: %v", err)
	}
	for _, layer := range []string{LayerBaselines, LayerSolids, LayerIntersections} {
		if !bytes.Contains(data, []byte(layer)) {
			t.Errorf("DXF output missing layer %s", layer)
		}
	}
}

func TestExportDXF_ClosedBaseline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.dxf")

	eng := wallgeom.NewEngine()
	base := wallgeom.NewCurve(
		wallgeom.Pt(0, 0), wallgeom.Pt(4000, 0),
		wallgeom.Pt(4000, 4000), wallgeom.Pt(0, 4000),
	)
	base.Closed = true
	res, err := eng.BuildWall(base, 200, wallgeom.WallLayout)
	if err != nil {
		t.Fatalf("BuildWall returned error: %v", err)
	}

	n := &wallgeom.WallNetwork{Walls: []*wallgeom.WallSolid{res.Solid}}
	if err := ExportDXF(path, n); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("DXF file missing or empty: %v", err)
	}
}

func TestExportDXF_EmptyNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")

	if err := ExportDXF(path, nil); err == nil {
		t.Fatal("expected error for nil network, got nil")
	}
	if err := ExportDXF(path, &wallgeom.WallNetwork{}); err == nil {
		t.Fatal("expected error for empty network, got nil")
	}
}

func TestExportReportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")

	n, report := buildTestNetwork(t)
	if err := ExportReportPDF(path, n, report); err != nil {
		t.Fatalf("ExportReportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Two pages of content should comfortably exceed a minimal PDF.
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportReportPDF_WithRecommendations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recs.pdf")

	n, report := buildTestNetwork(t)
	report.Recommendations = append(report.Recommendations,
		"wall south quality 0.54: review junction fallbacks and slivers",
		"thickness mismatch at node n0")

	if err := ExportReportPDF(path, n, report); err != nil {
		t.Fatalf("ExportReportPDF returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("PDF file missing or empty: %v", err)
	}
}

func TestExportReportPDF_InvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.pdf")

	n, report := buildTestNetwork(t)
	if err := ExportReportPDF(path, nil, report); err == nil {
		t.Fatal("expected error for nil network, got nil")
	}
	if err := ExportReportPDF(path, n, nil); err == nil {
		t.Fatal("expected error for nil report, got nil")
	}
}
