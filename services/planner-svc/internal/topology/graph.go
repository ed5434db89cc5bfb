// Package topology models the damaged distribution network as an
// undirected graph and answers connectivity, shortest-path and
// centrality queries over it.
package topology

import (
	"fmt"
	"sort"

	"reconnect/pkg/apperror"
)

// NodeID identifies a node within a graph.
type NodeID string

// NodeKind classifies graph nodes.
type NodeKind int

const (
	NodeKindUnspecified NodeKind = iota
	NodeKindSubstation
	NodeKindNetworkPoint
	NodeKindBuilding
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeKindSubstation:
		return "substation"
	case NodeKindNetworkPoint:
		return "network_point"
	case NodeKindBuilding:
		return "building"
	default:
		return "unspecified"
	}
}

// ParseNodeKind parses a node kind name.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "substation":
		return NodeKindSubstation, nil
	case "network_point":
		return NodeKindNetworkPoint, nil
	case "building":
		return NodeKindBuilding, nil
	default:
		return NodeKindUnspecified, apperror.Newf(apperror.CodeInvalidNodeKind,
			"unknown node kind %q", s)
	}
}

// EdgeKind classifies graph edges.
type EdgeKind int

const (
	EdgeKindUnspecified EdgeKind = iota
	EdgeKindSegment
	EdgeKindConnection
)

// String returns the edge kind name.
func (k EdgeKind) String() string {
	switch k {
	case EdgeKindSegment:
		return "segment"
	case EdgeKindConnection:
		return "connection"
	default:
		return "unspecified"
	}
}

// ParseEdgeKind parses an edge kind name.
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch s {
	case "segment":
		return EdgeKindSegment, nil
	case "connection":
		return EdgeKindConnection, nil
	default:
		return EdgeKindUnspecified, apperror.Newf(apperror.CodeInvalidEdgeKind,
			"unknown edge kind %q", s)
	}
}

// EdgeStatus is the operational status of a segment.
type EdgeStatus int

const (
	EdgeStatusActive EdgeStatus = iota
	EdgeStatusDamaged
)

// String returns the status name.
func (s EdgeStatus) String() string {
	if s == EdgeStatusDamaged {
		return "damaged"
	}
	return "active"
}

// Node is a vertex of the network graph.
type Node struct {
	ID   NodeID
	Kind NodeKind
	X, Y float64
	Name string

	// Substation attributes
	Capacity float64

	// Building attributes
	Inhabitants int
	Connected   bool
}

// Edge is an undirected edge between two nodes.
type Edge struct {
	A, B     NodeID
	Length   float64
	Kind     EdgeKind
	Status   EdgeStatus
	Capacity float64
}

// other returns the endpoint opposite to id.
func (e *Edge) other(id NodeID) NodeID {
	if e.A == id {
		return e.B
	}
	return e.A
}

type edgeKey struct {
	a, b NodeID
}

func newEdgeKey(a, b NodeID) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// Graph is an undirected network graph. It is built once and then
// queried; ConnectNearest is the only mutation after Build and it
// resets any cached fingerprint.
type Graph struct {
	nodes map[NodeID]*Node
	adj   map[NodeID][]*Edge
	edges []*Edge
	keys  map[edgeKey]struct{}

	sortedIDs []NodeID
	frozen    bool

	damagedMultiplier float64
	fingerprint       string
}

// Option customizes graph construction.
type Option func(*Graph)

// WithDamagedWeightMultiplier sets the traversal weight multiplier
// applied to damaged segments. Must be >= 1; the default is 1 (damage
// does not affect path weights).
func WithDamagedWeightMultiplier(m float64) Option {
	return func(g *Graph) {
		if m >= 1 {
			g.damagedMultiplier = m
		}
	}
}

// Build constructs a graph from node and edge records. Malformed input
// is fatal: dangling edge references, negative lengths, duplicate
// identifiers and self loops abort construction.
func Build(nodes []Node, edges []Edge, opts ...Option) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, apperror.New(apperror.CodeEmptyGraph, "graph must contain at least one node")
	}

	g := &Graph{
		nodes:             make(map[NodeID]*Node, len(nodes)),
		adj:               make(map[NodeID][]*Edge, len(nodes)),
		edges:             make([]*Edge, 0, len(edges)),
		keys:              make(map[edgeKey]struct{}, len(edges)),
		damagedMultiplier: 1,
	}

	for _, opt := range opts {
		opt(g)
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, apperror.New(apperror.CodeInvalidArgument, "node identifier must not be empty")
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, apperror.Newf(apperror.CodeDuplicateNode,
				"duplicate node identifier %q", n.ID)
		}
		g.nodes[n.ID] = &n
	}

	for i := range edges {
		if err := g.addEdge(edges[i]); err != nil {
			return nil, err
		}
	}

	g.freeze()
	return g, nil
}

// addEdge validates and inserts an edge.
func (g *Graph) addEdge(e Edge) error {
	if e.Length < 0 {
		return apperror.Newf(apperror.CodeNegativeLength,
			"edge %s-%s has negative length %v", e.A, e.B, e.Length)
	}
	if e.A == e.B {
		return apperror.Newf(apperror.CodeSelfLoop,
			"edge %s-%s is a self loop", e.A, e.B)
	}
	if _, ok := g.nodes[e.A]; !ok {
		return apperror.Newf(apperror.CodeDanglingEdge,
			"edge %s-%s references unknown node %q", e.A, e.B, e.A)
	}
	if _, ok := g.nodes[e.B]; !ok {
		return apperror.Newf(apperror.CodeDanglingEdge,
			"edge %s-%s references unknown node %q", e.A, e.B, e.B)
	}

	key := newEdgeKey(e.A, e.B)
	if _, dup := g.keys[key]; dup {
		return apperror.Newf(apperror.CodeDuplicateEdge,
			"duplicate edge between %q and %q", e.A, e.B)
	}
	g.keys[key] = struct{}{}

	edge := e
	g.edges = append(g.edges, &edge)
	g.adj[e.A] = append(g.adj[e.A], &edge)
	g.adj[e.B] = append(g.adj[e.B], &edge)
	return nil
}

// freeze sorts node identifiers and adjacency lists so that every
// traversal visits nodes in a reproducible order.
func (g *Graph) freeze() {
	g.sortedIDs = make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		g.sortedIDs = append(g.sortedIDs, id)
	}
	sort.Slice(g.sortedIDs, func(i, j int) bool { return g.sortedIDs[i] < g.sortedIDs[j] })

	for id, list := range g.adj {
		nid := id
		sort.Slice(list, func(i, j int) bool {
			return list[i].other(nid) < list[j].other(nid)
		})
	}

	g.fingerprint = ""
	g.frozen = true
}

// Node returns the node with the given identifier.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node identifiers in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	return g.sortedIDs
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edges returns all edges.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Neighbors returns the edges incident to id, ordered by the opposite
// endpoint identifier.
func (g *Graph) Neighbors(id NodeID) []*Edge {
	return g.adj[id]
}

// weight returns the traversal weight of an edge. Damaged segments are
// penalized by the configured multiplier so that paths prefer intact
// infrastructure.
func (g *Graph) weight(e *Edge) float64 {
	if e.Kind == EdgeKindSegment && e.Status == EdgeStatusDamaged {
		return e.Length * g.damagedMultiplier
	}
	return e.Length
}

// String implements fmt.Stringer for diagnostics.
func (g *Graph) String() string {
	return fmt.Sprintf("graph(nodes=%d, edges=%d)", len(g.nodes), len(g.edges))
}
