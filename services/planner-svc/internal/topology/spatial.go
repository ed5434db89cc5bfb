package topology

import (
	"math"
)

// SpatialIndex answers nearest-neighbor queries over indexed points.
type SpatialIndex interface {
	// Insert adds a point to the index.
	Insert(id NodeID, x, y float64)
	// Nearest returns the indexed point closest to (x, y) and its
	// distance. The boolean is false when the index is empty.
	Nearest(x, y float64) (NodeID, float64, bool)
}

// GridIndex is a uniform-grid spatial index. Points are bucketed into
// square cells; Nearest scans outward ring by ring until a candidate
// is found that no closer cell can beat.
type GridIndex struct {
	cellSize float64
	cells    map[gridCell][]gridEntry
	count    int
}

type gridCell struct {
	cx, cy int
}

type gridEntry struct {
	id   NodeID
	x, y float64
}

// NewGridIndex creates a grid index with the given cell size. The cell
// size should be on the order of the expected query distance.
func NewGridIndex(cellSize float64) *GridIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &GridIndex{
		cellSize: cellSize,
		cells:    make(map[gridCell][]gridEntry),
	}
}

func (g *GridIndex) cellOf(x, y float64) gridCell {
	return gridCell{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// Insert adds a point to the index.
func (g *GridIndex) Insert(id NodeID, x, y float64) {
	cell := g.cellOf(x, y)
	g.cells[cell] = append(g.cells[cell], gridEntry{id: id, x: x, y: y})
	g.count++
}

// Nearest returns the closest indexed point to (x, y).
func (g *GridIndex) Nearest(x, y float64) (NodeID, float64, bool) {
	if g.count == 0 {
		return "", 0, false
	}

	center := g.cellOf(x, y)
	bestID := NodeID("")
	bestDist := math.Inf(1)
	found := false

	maxRing := g.maxRing(center)
	for ring := 0; ring <= maxRing; ring++ {
		// Once a candidate is found, a further ring can only help if
		// its nearest boundary is still closer than the candidate.
		if found && float64(ring-1)*g.cellSize > bestDist {
			break
		}

		g.scanRing(center, ring, func(e gridEntry) {
			d := math.Hypot(e.x-x, e.y-y)
			if d < bestDist || (d == bestDist && e.id < bestID) {
				bestDist = d
				bestID = e.id
				found = true
			}
		})
	}

	if !found {
		return "", 0, false
	}
	return bestID, bestDist, true
}

// maxRing bounds the outward search by the spread of occupied cells.
func (g *GridIndex) maxRing(center gridCell) int {
	max := 0
	for cell := range g.cells {
		dx := cell.cx - center.cx
		if dx < 0 {
			dx = -dx
		}
		dy := cell.cy - center.cy
		if dy < 0 {
			dy = -dy
		}
		if dx > max {
			max = dx
		}
		if dy > max {
			max = dy
		}
	}
	return max
}

// scanRing visits every entry in the cells at Chebyshev distance ring
// from the center cell.
func (g *GridIndex) scanRing(center gridCell, ring int, visit func(gridEntry)) {
	if ring == 0 {
		for _, e := range g.cells[center] {
			visit(e)
		}
		return
	}

	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if dx > -ring && dx < ring && dy > -ring && dy < ring {
				continue // interior, already scanned
			}
			cell := gridCell{cx: center.cx + dx, cy: center.cy + dy}
			for _, e := range g.cells[cell] {
				visit(e)
			}
		}
	}
}

// ConnectNearest links every building node to its nearest network
// point when the distance is below maxDistance, inserting a connection
// edge with that distance as length. Buildings with no network point
// in range keep Connected=false. When index is nil a grid index over
// the graph's network points and substations is built internally.
// Returns the number of buildings connected.
func (g *Graph) ConnectNearest(index SpatialIndex, maxDistance float64) int {
	if index == nil {
		grid := NewGridIndex(maxDistance)
		for _, id := range g.sortedIDs {
			n := g.nodes[id]
			if n.Kind == NodeKindNetworkPoint || n.Kind == NodeKindSubstation {
				grid.Insert(n.ID, n.X, n.Y)
			}
		}
		index = grid
	}

	connected := 0
	for _, id := range g.sortedIDs {
		n := g.nodes[id]
		if n.Kind != NodeKindBuilding {
			continue
		}

		target, dist, ok := index.Nearest(n.X, n.Y)
		if !ok || dist >= maxDistance || target == n.ID {
			n.Connected = false
			continue
		}

		key := newEdgeKey(n.ID, target)
		if _, dup := g.keys[key]; !dup {
			// Connection edges cannot fail validation here: both
			// endpoints exist and the distance is non-negative.
			_ = g.addEdge(Edge{
				A:      n.ID,
				B:      target,
				Length: dist,
				Kind:   EdgeKindConnection,
				Status: EdgeStatusActive,
			})
		}
		n.Connected = true
		connected++
	}

	g.freeze()
	return connected
}
