package topology

import (
	"container/heap"
	"math"
	"sort"

	"reconnect/pkg/apperror"
	"reconnect/pkg/domain"
)

// Metric selects a centrality measure.
type Metric string

const (
	MetricDegree      Metric = "degree"
	MetricCloseness   Metric = "closeness"
	MetricBetweenness Metric = "betweenness"
	MetricEigenvector Metric = "eigenvector"
)

// ParseMetric parses a centrality metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricDegree, MetricCloseness, MetricBetweenness, MetricEigenvector:
		return Metric(s), nil
	default:
		return "", apperror.Newf(apperror.CodeUnknownMetric, "unknown centrality metric %q", s)
	}
}

const (
	eigenvectorTolerance = 1e-6
	eigenvectorMaxIter   = 100
)

// Centrality computes the selected centrality measure for every node.
// Higher scores mark structurally more critical nodes.
func (g *Graph) Centrality(metric Metric) (map[NodeID]float64, error) {
	switch metric {
	case MetricDegree:
		return g.degreeCentrality(), nil
	case MetricCloseness:
		return g.closenessCentrality(), nil
	case MetricBetweenness:
		return g.betweennessCentrality(), nil
	case MetricEigenvector:
		return g.eigenvectorCentrality(), nil
	default:
		return nil, apperror.Newf(apperror.CodeUnknownMetric, "unknown centrality metric %q", metric)
	}
}

// degreeCentrality is the degree scaled by the maximum possible degree.
func (g *Graph) degreeCentrality() map[NodeID]float64 {
	scores := make(map[NodeID]float64, len(g.nodes))
	n := len(g.nodes)
	if n <= 1 {
		for _, id := range g.sortedIDs {
			scores[id] = 0
		}
		return scores
	}

	scale := 1.0 / float64(n-1)
	for _, id := range g.sortedIDs {
		scores[id] = float64(len(g.adj[id])) * scale
	}
	return scores
}

// closenessCentrality runs Dijkstra from every node. Scores are scaled
// by the fraction of the graph each node can reach, so nodes in small
// components do not get inflated scores.
func (g *Graph) closenessCentrality() map[NodeID]float64 {
	scores := make(map[NodeID]float64, len(g.nodes))
	n := len(g.nodes)

	for _, id := range g.sortedIDs {
		dist, _ := g.dijkstra(id)

		total := 0.0
		reachable := 0
		for _, d := range dist {
			if d < domain.Infinity {
				total += d
				reachable++
			}
		}

		// reachable includes the node itself at distance 0.
		if reachable > 1 && total > 0 && n > 1 {
			s := float64(reachable-1) / total
			s *= float64(reachable-1) / float64(n-1)
			scores[id] = s
		} else {
			scores[id] = 0
		}
	}

	return scores
}

// betweennessCentrality implements Brandes' algorithm with Dijkstra
// orderings, so edge weights (including the damaged-segment penalty)
// are honored.
func (g *Graph) betweennessCentrality() map[NodeID]float64 {
	scores := make(map[NodeID]float64, len(g.nodes))
	for _, id := range g.sortedIDs {
		scores[id] = 0
	}

	n := len(g.nodes)
	if n < 3 {
		return scores
	}

	for _, source := range g.sortedIDs {
		stack := make([]NodeID, 0, n)
		predecessors := make(map[NodeID][]NodeID, n)
		sigma := make(map[NodeID]float64, n)
		dist := make(map[NodeID]float64, n)
		settled := make(map[NodeID]bool, n)

		for _, id := range g.sortedIDs {
			sigma[id] = 0
			dist[id] = domain.Infinity
		}
		sigma[source] = 1
		dist[source] = 0

		pq := make(priorityQueue, 0, n)
		heap.Init(&pq)
		heap.Push(&pq, &priorityQueueItem{node: source, distance: 0})

		for pq.Len() > 0 {
			current := heap.Pop(&pq).(*priorityQueueItem)
			u := current.node
			if settled[u] {
				continue
			}
			settled[u] = true
			stack = append(stack, u)

			for _, edge := range g.adj[u] {
				v := edge.other(u)
				newDist := dist[u] + g.weight(edge)

				if newDist < dist[v]-domain.Epsilon {
					dist[v] = newDist
					sigma[v] = sigma[u]
					predecessors[v] = []NodeID{u}
					heap.Push(&pq, &priorityQueueItem{node: v, distance: newDist})
				} else if math.Abs(newDist-dist[v]) <= domain.Epsilon && !settled[v] {
					sigma[v] += sigma[u]
					predecessors[v] = append(predecessors[v], u)
				}
			}
		}

		// Back-propagation of dependencies in reverse settle order.
		delta := make(map[NodeID]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, pred := range predecessors[w] {
				delta[pred] += (sigma[pred] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	// Each undirected pair was counted twice; normalize to [0,1].
	scale := 1.0 / (float64(n-1) * float64(n-2))
	for id := range scores {
		scores[id] *= scale
	}

	return scores
}

// eigenvectorCentrality runs power iteration on A+I until the change
// falls below the tolerance or the iteration cap is hit.
func (g *Graph) eigenvectorCentrality() map[NodeID]float64 {
	n := len(g.nodes)
	scores := make(map[NodeID]float64, n)
	if n == 0 {
		return scores
	}

	x := make(map[NodeID]float64, n)
	for _, id := range g.sortedIDs {
		x[id] = 1.0 / float64(n)
	}

	for iter := 0; iter < eigenvectorMaxIter; iter++ {
		xlast := x
		x = make(map[NodeID]float64, n)
		for id, v := range xlast {
			x[id] = v
		}

		for _, u := range g.sortedIDs {
			for _, edge := range g.adj[u] {
				x[edge.other(u)] += xlast[u]
			}
		}

		norm := 0.0
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}

		change := 0.0
		for id := range x {
			x[id] /= norm
			change += math.Abs(x[id] - xlast[id])
		}

		if change < float64(n)*eigenvectorTolerance {
			break
		}
	}

	for id, v := range x {
		scores[id] = v
	}
	return scores
}

// NodeScore pairs a node with a centrality score.
type NodeScore struct {
	ID    NodeID  `json:"id"`
	Score float64 `json:"score"`
}

// TopCritical returns the limit highest-scoring nodes for the metric,
// ties broken by ascending identifier.
func (g *Graph) TopCritical(metric Metric, limit int) ([]NodeScore, error) {
	scores, err := g.Centrality(metric)
	if err != nil {
		return nil, err
	}

	ranked := make([]NodeScore, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, NodeScore{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
