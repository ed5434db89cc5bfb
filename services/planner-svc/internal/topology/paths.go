package topology

import (
	"container/heap"
	"sort"

	"reconnect/pkg/apperror"
	"reconnect/pkg/domain"
)

// priorityQueueItem is an element of the Dijkstra priority queue.
type priorityQueueItem struct {
	node     NodeID
	distance float64
	index    int
}

// priorityQueue is a min-heap on distance with tie-breaking by node ID
// for deterministic results.
type priorityQueue []*priorityQueueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*priorityQueueItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// dijkstra computes shortest distances from source to every reachable
// node. Edge weights are non-negative by construction.
func (g *Graph) dijkstra(source NodeID) (dist map[NodeID]float64, parent map[NodeID]NodeID) {
	dist = make(map[NodeID]float64, len(g.nodes))
	parent = make(map[NodeID]NodeID, len(g.nodes))

	for _, id := range g.sortedIDs {
		dist[id] = domain.Infinity
	}
	dist[source] = 0

	pq := make(priorityQueue, 0, len(g.nodes))
	heap.Init(&pq)
	heap.Push(&pq, &priorityQueueItem{node: source, distance: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*priorityQueueItem)
		u := current.node

		// Skip stale entries already settled with a better distance.
		if current.distance > dist[u]+domain.Epsilon {
			continue
		}

		for _, edge := range g.adj[u] {
			v := edge.other(u)
			newDist := dist[u] + g.weight(edge)

			if newDist < dist[v]-domain.Epsilon {
				dist[v] = newDist
				parent[v] = u
				heap.Push(&pq, &priorityQueueItem{node: v, distance: newDist})
			}
		}
	}

	return dist, parent
}

// ShortestPath returns the node sequence minimizing summed edge weight
// between source and target, along with the path weight. A missing
// path between components is a recoverable condition reported with a
// NO_PATH error code.
func (g *Graph) ShortestPath(source, target NodeID) ([]NodeID, float64, error) {
	if _, ok := g.nodes[source]; !ok {
		return nil, 0, apperror.Newf(apperror.CodeNodeNotFound, "node %q not found", source)
	}
	if _, ok := g.nodes[target]; !ok {
		return nil, 0, apperror.Newf(apperror.CodeNodeNotFound, "node %q not found", target)
	}

	if source == target {
		return []NodeID{source}, 0, nil
	}

	dist, parent := g.dijkstra(source)
	if dist[target] >= domain.Infinity {
		return nil, 0, apperror.Newf(apperror.CodeNoPath,
			"no path between %q and %q", source, target)
	}

	path := []NodeID{target}
	for at := target; at != source; {
		at = parent[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, dist[target], nil
}

// PathCost sums the lengths of the edges along a node sequence.
func (g *Graph) PathCost(path []NodeID) (float64, error) {
	if len(path) == 0 {
		return 0, apperror.New(apperror.CodeInvalidArgument, "path must not be empty")
	}

	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		edge, ok := g.edgeBetween(path[i], path[i+1])
		if !ok {
			return 0, apperror.Newf(apperror.CodeNoPath,
				"no edge between %q and %q", path[i], path[i+1])
		}
		total += edge.Length
	}
	return total, nil
}

func (g *Graph) edgeBetween(a, b NodeID) (*Edge, bool) {
	for _, e := range g.adj[a] {
		if e.other(a) == b {
			return e, true
		}
	}
	return nil, false
}

// ConnectedComponents partitions the nodes into maximal connected
// sets. Component members are sorted ascending and components are
// ordered by their smallest member, so the output is reproducible.
func (g *Graph) ConnectedComponents() [][]NodeID {
	visited := make(map[NodeID]bool, len(g.nodes))
	var components [][]NodeID

	for _, start := range g.sortedIDs {
		if visited[start] {
			continue
		}

		component := []NodeID{}
		queue := []NodeID{start}
		visited[start] = true

		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			component = append(component, u)

			for _, edge := range g.adj[u] {
				v := edge.other(u)
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}

		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}

	return components
}
