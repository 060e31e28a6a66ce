package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wp")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}
	return path
}

func TestLoadNetwork(t *testing.T) {
	path := writePlan(t, `
precision 0.1

wall south type zone thickness 200 {
	(0, 0) (8000, 0)
}
wall west {
	(0, 0) (0, 6000)
}
`)

	eng, network, err := loadNetwork(path)
	if err != nil {
		t.Fatalf("loadNetwork returned error: %v", err)
	}
	if eng == nil {
		t.Fatal("loadNetwork returned nil engine")
	}
	if len(network.Walls) != 2 {
		t.Fatalf("Expected 2 walls, got %d", len(network.Walls))
	}

	south := network.Wall("south")
	if south == nil {
		t.Fatal("Wall 'south' not found")
	}
	if south.Thickness != 200 {
		t.Errorf("Expected thickness 200, got %g", south.Thickness)
	}
	if south.LeftOffset == nil || len(south.SolidGeometry) == 0 {
		t.Error("Wall 'south' was not built")
	}

	// The untyped wall falls back to the area defaults.
	west := network.Wall("west")
	if west == nil {
		t.Fatal("Wall 'west' not found")
	}
	if west.Thickness != eng.ThicknessFor("area") {
		t.Errorf("Expected area default thickness, got %g", west.Thickness)
	}
}

func TestLoadNetwork_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no walls", "precision 0.1\n"},
		{"unknown type", "wall w type partition {\n\t(0, 0) (1000, 0)\n}\n"},
		{"syntax error", "wall w { (0 0) }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePlan(t, tt.content)
			if _, _, err := loadNetwork(path); err == nil {
				t.Errorf("Expected error for plan %q", tt.content)
			}
		})
	}

	if _, _, err := loadNetwork(filepath.Join(t.TempDir(), "missing.wp")); err == nil {
		t.Error("Expected error for missing file")
	}
}
