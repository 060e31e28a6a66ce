package wallgeom

import (
	"encoding/json"
	"fmt"
)

// pointJSON is the wire shape of a point. Provenance fields ride along
// so round-tripped geometry keeps its audit trail.
type pointJSON struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ID             string  `json:"id,omitempty"`
	Tolerance      float64 `json:"tolerance,omitempty"`
	CreationMethod string  `json:"creation_method,omitempty"`
	Accuracy       float64 `json:"accuracy,omitempty"`
	Validated      bool    `json:"validated,omitempty"`
}

type curveJSON struct {
	Points []pointJSON `json:"points"`
	Type   string      `json:"type"`
	Closed bool        `json:"closed,omitempty"`
}

type polygonJSON struct {
	Outer []pointJSON   `json:"outer"`
	Holes [][]pointJSON `json:"holes,omitempty"`
}

type wallSolidJSON struct {
	ID            string              `json:"id"`
	Baseline      *curveJSON          `json:"baseline"`
	Thickness     float64             `json:"thickness"`
	WallType      string              `json:"wall_type"`
	LeftOffset    *curveJSON          `json:"left_offset,omitempty"`
	RightOffset   *curveJSON          `json:"right_offset,omitempty"`
	SolidGeometry []polygonJSON       `json:"solid_geometry,omitempty"`
	JoinTypes     map[string]JoinType `json:"join_types,omitempty"`
	Version       uint64              `json:"version"`
}

func pointToJSON(p Point) pointJSON {
	return pointJSON{
		X: p.X, Y: p.Y, ID: p.ID,
		Tolerance:      p.Tolerance,
		CreationMethod: string(p.CreationMethod),
		Accuracy:       p.Accuracy,
		Validated:      p.Validated,
	}
}

func pointFromJSON(j pointJSON) Point {
	return Point{
		X: j.X, Y: j.Y, ID: j.ID,
		Tolerance:      j.Tolerance,
		CreationMethod: CreationMethod(j.CreationMethod),
		Accuracy:       j.Accuracy,
		Validated:      j.Validated,
	}
}

func pointsToJSON(pts []Point) []pointJSON {
	out := make([]pointJSON, len(pts))
	for i, p := range pts {
		out[i] = pointToJSON(p)
	}
	return out
}

func pointsFromJSON(js []pointJSON) []Point {
	out := make([]Point, len(js))
	for i, j := range js {
		out[i] = pointFromJSON(j)
	}
	return out
}

func curveToJSON(c *Curve) *curveJSON {
	if c == nil {
		return nil
	}
	return &curveJSON{Points: pointsToJSON(c.Points), Type: string(c.Type), Closed: c.Closed}
}

func curveFromJSON(j *curveJSON) *Curve {
	if j == nil {
		return nil
	}
	return &Curve{Points: pointsFromJSON(j.Points), Type: CurveType(j.Type), Closed: j.Closed}
}

// MarshalWallSolid serializes a wall solid to JSON. Derived validation
// state (healing history, quality metrics, intersection records) is
// intentionally excluded; it is recomputed after load.
func MarshalWallSolid(w *WallSolid) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("marshal wall solid: nil solid")
	}
	j := wallSolidJSON{
		ID:          w.ID,
		Baseline:    curveToJSON(w.Baseline),
		Thickness:   w.Thickness,
		WallType:    string(w.WallType),
		LeftOffset:  curveToJSON(w.LeftOffset),
		RightOffset: curveToJSON(w.RightOffset),
		JoinTypes:   w.JoinTypes,
		Version:     w.Version(),
	}
	for _, poly := range w.SolidGeometry {
		if poly == nil {
			continue
		}
		pj := polygonJSON{Outer: pointsToJSON(poly.Outer)}
		for _, h := range poly.Holes {
			pj.Holes = append(pj.Holes, pointsToJSON(h))
		}
		j.SolidGeometry = append(j.SolidGeometry, pj)
	}
	return json.MarshalIndent(j, "", "  ")
}

// UnmarshalWallSolid restores a wall solid from JSON produced by
// MarshalWallSolid. Baseline, thickness and wall type round-trip
// exactly; the restored version stamp is carried over so cached
// junction results keyed against the saved state stay addressable.
func UnmarshalWallSolid(data []byte) (*WallSolid, error) {
	var j wallSolidJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal wall solid: %w", err)
	}
	if j.Baseline == nil || len(j.Baseline.Points) < 2 {
		return nil, fmt.Errorf("unmarshal wall solid %q: baseline requires at least 2 points", j.ID)
	}
	if j.Thickness <= 0 {
		return nil, fmt.Errorf("unmarshal wall solid %q: thickness must be positive, got %g", j.ID, j.Thickness)
	}

	w := &WallSolid{
		ID:          j.ID,
		Baseline:    curveFromJSON(j.Baseline),
		Thickness:   j.Thickness,
		WallType:    WallType(j.WallType),
		LeftOffset:  curveFromJSON(j.LeftOffset),
		RightOffset: curveFromJSON(j.RightOffset),
		JoinTypes:   j.JoinTypes,
		version:     j.Version,
	}
	if w.JoinTypes == nil {
		w.JoinTypes = make(map[string]JoinType)
	}
	for _, pj := range j.SolidGeometry {
		poly := &Polygon{Outer: pointsFromJSON(pj.Outer)}
		for _, h := range pj.Holes {
			poly.Holes = append(poly.Holes, pointsFromJSON(h))
		}
		w.SolidGeometry = append(w.SolidGeometry, poly)
	}
	if w.version == 0 {
		w.version = 1
	}
	return w, nil
}

// MarshalWallNetwork serializes every wall in the network plus its node
// topology.
func MarshalWallNetwork(n *WallNetwork) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("marshal wall network: nil network")
	}
	type nodeJSON struct {
		ID       string    `json:"id"`
		Position pointJSON `json:"position"`
		Walls    []string  `json:"walls"`
	}
	type networkJSON struct {
		Walls []json.RawMessage `json:"walls"`
		Nodes []nodeJSON        `json:"nodes,omitempty"`
	}

	var out networkJSON
	for _, w := range n.Walls {
		raw, err := MarshalWallSolid(w)
		if err != nil {
			return nil, err
		}
		out.Walls = append(out.Walls, raw)
	}
	for _, node := range n.Nodes {
		out.Nodes = append(out.Nodes, nodeJSON{
			ID:       node.ID,
			Position: pointToJSON(node.Position),
			Walls:    node.Walls,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalWallNetwork restores a network saved by MarshalWallNetwork.
func UnmarshalWallNetwork(data []byte) (*WallNetwork, error) {
	type nodeJSON struct {
		ID       string    `json:"id"`
		Position pointJSON `json:"position"`
		Walls    []string  `json:"walls"`
	}
	type networkJSON struct {
		Walls []json.RawMessage `json:"walls"`
		Nodes []nodeJSON        `json:"nodes"`
	}

	var in networkJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal wall network: %w", err)
	}
	n := &WallNetwork{}
	for _, raw := range in.Walls {
		w, err := UnmarshalWallSolid(raw)
		if err != nil {
			return nil, err
		}
		n.Walls = append(n.Walls, w)
	}
	for _, node := range in.Nodes {
		n.Nodes = append(n.Nodes, NetworkNode{
			ID:       node.ID,
			Position: pointFromJSON(node.Position),
			Walls:    node.Walls,
		})
	}
	return n, nil
}
