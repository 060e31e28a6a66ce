package wallgeom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallFromLegacy_PointMaps(t *testing.T) {
	baseline, thickness, wt, err := WallFromLegacy(map[string]any{
		"baseline": []any{
			map[string]any{"x": 0.0, "y": 0.0},
			map[string]any{"x": 5000.0, "y": 0.0},
		},
		"wall_type": "zone",
		"thickness": 200.0,
	})
	require.NoError(t, err)
	assert.Equal(t, WallZone, wt)
	assert.Equal(t, 200.0, thickness)
	require.Len(t, baseline.Points, 2)
	assert.Equal(t, 5000.0, baseline.Points[1].X)
	assert.False(t, baseline.Closed)
}

func TestWallFromLegacy_PointPairsAndDefaults(t *testing.T) {
	baseline, thickness, wt, err := WallFromLegacy(map[string]any{
		"points": []any{
			[]any{0.0, 0.0},
			[]any{0.0, 4000.0},
			[]any{3000.0, 4000.0},
		},
		"closed": true,
	})
	require.NoError(t, err)
	assert.Equal(t, WallArea, wt)
	assert.Equal(t, DefaultAreaThickness, thickness)
	assert.True(t, baseline.Closed)
	assert.Len(t, baseline.Points, 3)
}

func TestWallFromLegacy_IntThicknessAndTypeAlias(t *testing.T) {
	_, thickness, wt, err := WallFromLegacy(map[string]any{
		"points":    []any{[]any{0, 0}, []any{1000, 0}},
		"type":      "layout",
		"thickness": 350,
	})
	require.NoError(t, err)
	assert.Equal(t, WallLayout, wt)
	assert.Equal(t, 350.0, thickness)
}

func TestWallFromLegacy_UnknownTypeFallsBack(t *testing.T) {
	_, thickness, wt, err := WallFromLegacy(map[string]any{
		"points":    []any{[]any{0.0, 0.0}, []any{1000.0, 0.0}},
		"wall_type": "partition",
	})
	require.NoError(t, err)
	assert.Equal(t, WallArea, wt)
	assert.Equal(t, DefaultAreaThickness, thickness)
}

func TestWallFromLegacy_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
	}{
		{"nil record", nil},
		{"missing baseline", map[string]any{"thickness": 200.0}},
		{"baseline not a list", map[string]any{"baseline": "nope"}},
		{"single point", map[string]any{"points": []any{[]any{0.0, 0.0}}}},
		{"bad point shape", map[string]any{"points": []any{"a", "b"}}},
		{"short pair", map[string]any{"points": []any{[]any{0.0}, []any{1.0, 2.0}}}},
		{"non-numeric pair", map[string]any{"points": []any{[]any{"x", "y"}, []any{1.0, 2.0}}}},
		{"bad thickness type", map[string]any{
			"points":    []any{[]any{0.0, 0.0}, []any{1.0, 0.0}},
			"thickness": "thick",
		}},
		{"negative thickness", map[string]any{
			"points":    []any{[]any{0.0, 0.0}, []any{1.0, 0.0}},
			"thickness": -5.0,
		}},
		{"bad type kind", map[string]any{
			"points":    []any{[]any{0.0, 0.0}, []any{1.0, 0.0}},
			"wall_type": 7,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := WallFromLegacy(tt.record)
			assert.Error(t, err)
		})
	}
}

func TestNetworkFromLegacy(t *testing.T) {
	n, errs := NetworkFromLegacy([]map[string]any{
		{
			"id":        "a",
			"points":    []any{[]any{0.0, 0.0}, []any{5000.0, 0.0}},
			"thickness": 200.0,
		},
		{
			"points": []any{[]any{0.0, 0.0}}, // too short, skipped
		},
		{
			"id":     "b",
			"points": []any{[]any{0.0, 0.0}, []any{0.0, 5000.0}},
		},
	})

	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "record 1")
	require.Len(t, n.Walls, 2)
	assert.Equal(t, "a", n.Walls[0].ID)
	assert.Equal(t, "b", n.Walls[1].ID)
	assert.NotEmpty(t, n.Walls[1].ID)
}
