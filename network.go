package wallgeom

import (
	"fmt"
	"math"
)

// NetworkNode is a shared junction point between walls.
type NetworkNode struct {
	ID       string
	Position Point
	Walls    []string
}

// WallNetwork is the engine's view of the host model: walls plus their
// adjacency at shared nodes.
type WallNetwork struct {
	Walls []*WallSolid
	Nodes []NetworkNode
}

// Wall returns the wall with the given id, or nil.
func (n *WallNetwork) Wall(id string) *WallSolid {
	for _, w := range n.Walls {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// hasNodeAt reports whether a declared node sits within tol of p.
func (n *WallNetwork) hasNodeAt(p Point, tol float64) bool {
	for _, node := range n.Nodes {
		if node.Position.EqualWithin(p, tol) {
			return true
		}
	}
	return false
}

// DetectNodes derives nodes from baseline endpoints that coincide within
// the merge tolerance. Hosts that track adjacency themselves can populate
// Nodes directly instead.
func (n *WallNetwork) DetectNodes(tm ToleranceManager) {
	maxThickness := DefaultAreaThickness
	for _, w := range n.Walls {
		maxThickness = math.Max(maxThickness, w.Thickness)
	}
	tol := tm.Calculate(maxThickness, math.Pi/2, ContextVertexMerge)

	type cluster struct {
		at    Point
		walls []string
	}
	var clusters []*cluster

	for _, w := range n.Walls {
		if w.Baseline == nil {
			continue
		}
		for _, p := range curveEndpoints(w.Baseline) {
			placed := false
			for _, c := range clusters {
				if c.at.EqualWithin(p, tol) {
					if !containsString(c.walls, w.ID) {
						c.walls = append(c.walls, w.ID)
					}
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, &cluster{at: p, walls: []string{w.ID}})
			}
		}
	}

	n.Nodes = n.Nodes[:0]
	for i, c := range clusters {
		if len(c.walls) < 2 {
			continue
		}
		n.Nodes = append(n.Nodes, NetworkNode{
			ID:       fmt.Sprintf("n%d", i),
			Position: c.at,
			Walls:    c.walls,
		})
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
