package wallgeom

import (
	"fmt"
	"log/slog"
)

// WallFromLegacy converts a loosely-typed wall record, as produced by
// older plan importers, into a typed baseline, thickness and wall type.
// Recognized keys:
//
//	"baseline" or "points": []any of {x, y} maps or [2]float64 pairs
//	"thickness":            number (millimeters)
//	"wall_type" or "type":  string, one of layout/zone/area
//	"closed":               bool
//
// Unknown wall types fall back to area with a warning; missing thickness
// falls back to the wall type's default. The conversion happens once at
// the boundary, so nothing downstream touches map[string]any again.
func WallFromLegacy(record map[string]any) (*Curve, float64, WallType, error) {
	if record == nil {
		return nil, 0, "", fmt.Errorf("legacy wall: nil record")
	}

	raw, ok := record["baseline"]
	if !ok {
		raw, ok = record["points"]
	}
	if !ok {
		return nil, 0, "", fmt.Errorf("legacy wall: missing baseline")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, 0, "", fmt.Errorf("legacy wall: baseline is %T, want list", raw)
	}
	if len(items) < 2 {
		return nil, 0, "", fmt.Errorf("legacy wall: baseline has %d points, need at least 2", len(items))
	}

	pts := make([]Point, 0, len(items))
	for i, item := range items {
		p, err := legacyPoint(item)
		if err != nil {
			return nil, 0, "", fmt.Errorf("legacy wall: point %d: %w", i, err)
		}
		pts = append(pts, p)
	}

	wt := WallArea
	switch v := firstKey(record, "wall_type", "type").(type) {
	case nil:
	case string:
		switch WallType(v) {
		case WallLayout, WallZone, WallArea:
			wt = WallType(v)
		default:
			Logger().Warn("legacy wall: unknown wall type, using area",
				slog.String("wall_type", v))
		}
	default:
		return nil, 0, "", fmt.Errorf("legacy wall: wall type is %T, want string", v)
	}

	thickness := 0.0
	switch v := record["thickness"].(type) {
	case nil:
		thickness = DefaultWallTypes()[wt]
	case float64:
		thickness = v
	case int:
		thickness = float64(v)
	default:
		return nil, 0, "", fmt.Errorf("legacy wall: thickness is %T, want number", v)
	}
	if thickness <= 0 {
		return nil, 0, "", fmt.Errorf("legacy wall: thickness must be positive, got %g", thickness)
	}

	closed, _ := record["closed"].(bool)
	curve := NewCurve(pts...)
	curve.Closed = closed
	return curve, thickness, wt, nil
}

// NetworkFromLegacy converts a list of legacy wall records into a typed
// network. Records that fail conversion are skipped and reported; a
// partially usable network beats none.
func NetworkFromLegacy(records []map[string]any) (*WallNetwork, []error) {
	n := &WallNetwork{}
	var errs []error
	for i, rec := range records {
		baseline, thickness, wt, err := WallFromLegacy(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		w := NewWallSolid(baseline, thickness, wt)
		if id, ok := rec["id"].(string); ok && id != "" {
			w.ID = id
		}
		n.Walls = append(n.Walls, w)
	}
	return n, errs
}

func legacyPoint(item any) (Point, error) {
	switch v := item.(type) {
	case map[string]any:
		x, okX := legacyNumber(v["x"])
		y, okY := legacyNumber(v["y"])
		if !okX || !okY {
			return Point{}, fmt.Errorf("point map needs numeric x and y")
		}
		return Pt(x, y), nil
	case []any:
		if len(v) != 2 {
			return Point{}, fmt.Errorf("point pair has %d elements, want 2", len(v))
		}
		x, okX := legacyNumber(v[0])
		y, okY := legacyNumber(v[1])
		if !okX || !okY {
			return Point{}, fmt.Errorf("point pair elements must be numeric")
		}
		return Pt(x, y), nil
	default:
		return Point{}, fmt.Errorf("unsupported point shape %T", item)
	}
}

func legacyNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func firstKey(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}
