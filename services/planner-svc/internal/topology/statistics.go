package topology

// Statistics summarizes the structure of a graph.
type Statistics struct {
	NodeCount              int     `json:"node_count"`
	EdgeCount              int     `json:"edge_count"`
	SubstationCount        int     `json:"substation_count"`
	NetworkPointCount      int     `json:"network_point_count"`
	BuildingCount          int     `json:"building_count"`
	ConnectedBuildingCount int     `json:"connected_building_count"`
	TotalLength            float64 `json:"total_length"`
	AverageEdgeLength      float64 `json:"average_edge_length"`
	AverageDegree          float64 `json:"average_degree"`
	MaxDegree              int     `json:"max_degree"`
	MinDegree              int     `json:"min_degree"`
	ComponentCount         int     `json:"component_count"`
	IsConnected            bool    `json:"is_connected"`
	Density                float64 `json:"density"`
}

// Statistics computes summary figures in a single pass over the graph.
func (g *Graph) Statistics() Statistics {
	stats := Statistics{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
	}

	for i, id := range g.sortedIDs {
		n := g.nodes[id]
		switch n.Kind {
		case NodeKindSubstation:
			stats.SubstationCount++
		case NodeKindNetworkPoint:
			stats.NetworkPointCount++
		case NodeKindBuilding:
			stats.BuildingCount++
			if n.Connected {
				stats.ConnectedBuildingCount++
			}
		}

		deg := len(g.adj[id])
		if deg > stats.MaxDegree {
			stats.MaxDegree = deg
		}
		// An isolated node legitimately records degree zero, so the
		// minimum is seeded from the first node rather than from zero.
		if i == 0 || deg < stats.MinDegree {
			stats.MinDegree = deg
		}
	}

	for _, e := range g.edges {
		stats.TotalLength += e.Length
	}

	if stats.EdgeCount > 0 {
		stats.AverageEdgeLength = stats.TotalLength / float64(stats.EdgeCount)
	}
	if stats.NodeCount > 0 {
		stats.AverageDegree = 2 * float64(stats.EdgeCount) / float64(stats.NodeCount)
	}
	if stats.NodeCount > 1 {
		maxEdges := float64(stats.NodeCount) * float64(stats.NodeCount-1) / 2
		stats.Density = float64(stats.EdgeCount) / maxEdges
	}

	stats.ComponentCount = len(g.ConnectedComponents())
	stats.IsConnected = stats.ComponentCount == 1

	return stats
}
