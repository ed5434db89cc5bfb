package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconnect/pkg/apperror"
)

func testNodes() []Node {
	return []Node{
		{ID: "sub-1", Kind: NodeKindSubstation, X: 0, Y: 0, Capacity: 1000},
		{ID: "np-1", Kind: NodeKindNetworkPoint, X: 10, Y: 0},
		{ID: "np-2", Kind: NodeKindNetworkPoint, X: 20, Y: 0},
		{ID: "bld-1", Kind: NodeKindBuilding, X: 10, Y: 5, Inhabitants: 40},
	}
}

func testEdges() []Edge {
	return []Edge{
		{A: "sub-1", B: "np-1", Length: 10, Kind: EdgeKindSegment},
		{A: "np-1", B: "np-2", Length: 10, Kind: EdgeKindSegment},
		{A: "np-1", B: "bld-1", Length: 5, Kind: EdgeKindConnection},
	}
}

func TestBuild(t *testing.T) {
	g, err := Build(testNodes(), testEdges())
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	n, ok := g.Node("bld-1")
	require.True(t, ok)
	assert.Equal(t, NodeKindBuilding, n.Kind)
	assert.Equal(t, 40, n.Inhabitants)

	assert.Equal(t, []NodeID{"bld-1", "np-1", "np-2", "sub-1"}, g.NodeIDs())
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		edges    []Edge
		wantCode apperror.ErrorCode
	}{
		{
			name:     "empty graph",
			nodes:    nil,
			edges:    nil,
			wantCode: apperror.CodeEmptyGraph,
		},
		{
			name:     "empty node id",
			nodes:    []Node{{ID: "", Kind: NodeKindBuilding}},
			wantCode: apperror.CodeInvalidArgument,
		},
		{
			name: "duplicate node",
			nodes: []Node{
				{ID: "a", Kind: NodeKindNetworkPoint},
				{ID: "a", Kind: NodeKindBuilding},
			},
			wantCode: apperror.CodeDuplicateNode,
		},
		{
			name: "negative length",
			nodes: []Node{
				{ID: "a", Kind: NodeKindNetworkPoint},
				{ID: "b", Kind: NodeKindNetworkPoint},
			},
			edges:    []Edge{{A: "a", B: "b", Length: -1, Kind: EdgeKindSegment}},
			wantCode: apperror.CodeNegativeLength,
		},
		{
			name:     "self loop",
			nodes:    []Node{{ID: "a", Kind: NodeKindNetworkPoint}},
			edges:    []Edge{{A: "a", B: "a", Length: 1, Kind: EdgeKindSegment}},
			wantCode: apperror.CodeSelfLoop,
		},
		{
			name:     "dangling edge",
			nodes:    []Node{{ID: "a", Kind: NodeKindNetworkPoint}},
			edges:    []Edge{{A: "a", B: "missing", Length: 1, Kind: EdgeKindSegment}},
			wantCode: apperror.CodeDanglingEdge,
		},
		{
			name: "duplicate edge",
			nodes: []Node{
				{ID: "a", Kind: NodeKindNetworkPoint},
				{ID: "b", Kind: NodeKindNetworkPoint},
			},
			edges: []Edge{
				{A: "a", B: "b", Length: 1, Kind: EdgeKindSegment},
				{A: "b", B: "a", Length: 2, Kind: EdgeKindSegment},
			},
			wantCode: apperror.CodeDuplicateEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.nodes, tt.edges)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		in      string
		want    NodeKind
		wantErr bool
	}{
		{in: "substation", want: NodeKindSubstation},
		{in: "network_point", want: NodeKindNetworkPoint},
		{in: "building", want: NodeKindBuilding},
		{in: "generator", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseNodeKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidNodeKind))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestParseEdgeKind(t *testing.T) {
	got, err := ParseEdgeKind("segment")
	require.NoError(t, err)
	assert.Equal(t, EdgeKindSegment, got)

	got, err = ParseEdgeKind("connection")
	require.NoError(t, err)
	assert.Equal(t, EdgeKindConnection, got)

	_, err = ParseEdgeKind("cable")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidEdgeKind))
}

func TestGraph_Neighbors(t *testing.T) {
	g, err := Build(testNodes(), testEdges())
	require.NoError(t, err)

	edges := g.Neighbors("np-1")
	require.Len(t, edges, 3)

	// Ordered by opposite endpoint.
	assert.Equal(t, NodeID("bld-1"), edges[0].other("np-1"))
	assert.Equal(t, NodeID("np-2"), edges[1].other("np-1"))
	assert.Equal(t, NodeID("sub-1"), edges[2].other("np-1"))
}

func TestGraph_Fingerprint(t *testing.T) {
	g1, err := Build(testNodes(), testEdges())
	require.NoError(t, err)

	// Same topology built in a different order.
	nodes := testNodes()
	nodes[0], nodes[3] = nodes[3], nodes[0]
	edges := testEdges()
	edges[0], edges[2] = edges[2], edges[0]
	edges[1].A, edges[1].B = edges[1].B, edges[1].A

	g2, err := Build(nodes, edges)
	require.NoError(t, err)

	fp := g1.Fingerprint()
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, g2.Fingerprint())

	// Cached value survives repeated calls.
	assert.Equal(t, fp, g1.Fingerprint())

	// A structural change produces a different fingerprint.
	g3, err := Build(testNodes(), testEdges()[:2])
	require.NoError(t, err)
	assert.NotEqual(t, fp, g3.Fingerprint())
}

func TestGraph_Statistics(t *testing.T) {
	g, err := Build(testNodes(), testEdges())
	require.NoError(t, err)

	stats := g.Statistics()
	assert.Equal(t, 4, stats.NodeCount)
	assert.Equal(t, 3, stats.EdgeCount)
	assert.Equal(t, 1, stats.SubstationCount)
	assert.Equal(t, 2, stats.NetworkPointCount)
	assert.Equal(t, 1, stats.BuildingCount)
	assert.Equal(t, 0, stats.ConnectedBuildingCount)
	assert.InDelta(t, 25.0, stats.TotalLength, 1e-9)
	assert.InDelta(t, 25.0/3, stats.AverageEdgeLength, 1e-9)
	assert.InDelta(t, 1.5, stats.AverageDegree, 1e-9)
	assert.Equal(t, 3, stats.MaxDegree)
	assert.Equal(t, 1, stats.MinDegree)
	assert.Equal(t, 1, stats.ComponentCount)
	assert.True(t, stats.IsConnected)
	assert.InDelta(t, 0.5, stats.Density, 1e-9)
}

func TestGraph_Statistics_Disconnected(t *testing.T) {
	nodes := append(testNodes(), Node{ID: "island", Kind: NodeKindBuilding, X: 99, Y: 99})
	g, err := Build(nodes, testEdges())
	require.NoError(t, err)

	stats := g.Statistics()
	assert.Equal(t, 2, stats.ComponentCount)
	assert.False(t, stats.IsConnected)

	// The isolated node has degree zero and must show up as the minimum.
	assert.Equal(t, 0, stats.MinDegree)
	assert.Equal(t, 3, stats.MaxDegree)
}

func TestGraph_Statistics_IsolatedNodeOnly(t *testing.T) {
	nodes := []Node{
		{ID: "a", Kind: NodeKindNetworkPoint},
		{ID: "b", Kind: NodeKindNetworkPoint},
		{ID: "c", Kind: NodeKindNetworkPoint},
	}
	edges := []Edge{{A: "b", B: "c", Length: 1, Kind: EdgeKindSegment}}

	g, err := Build(nodes, edges)
	require.NoError(t, err)

	stats := g.Statistics()
	assert.Equal(t, 0, stats.MinDegree)
	assert.Equal(t, 1, stats.MaxDegree)
}
