package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"reconnect/pkg/apperror"
	"reconnect/pkg/cache"
	"reconnect/pkg/metrics"
	"reconnect/pkg/telemetry"

	"reconnect/services/planner-svc/internal/topology"
)

// GraphMetricsRequest describes one topology analysis run.
type GraphMetricsRequest struct {
	Nodes []topology.Node
	Edges []topology.Edge

	// Connect buildings to their nearest network point before analysis.
	Connect bool

	// Centrality metrics to compute. Empty means none.
	Metrics []topology.Metric

	// Number of critical nodes to report, by betweenness. Zero skips
	// the report.
	TopCritical int

	// Optional shortest-path query.
	PathFrom topology.NodeID
	PathTo   topology.NodeID
}

// GraphMetricsResult is the topology analysis output.
type GraphMetricsResult struct {
	Fingerprint string              `json:"fingerprint"`
	Statistics  topology.Statistics `json:"statistics"`
	Components  [][]topology.NodeID `json:"components"`

	ConnectedBuildings int `json:"connected_buildings,omitempty"`

	Centrality    map[string]map[topology.NodeID]float64 `json:"centrality,omitempty"`
	CriticalNodes []topology.NodeScore                   `json:"critical_nodes,omitempty"`

	Path       []topology.NodeID `json:"path,omitempty"`
	PathWeight float64           `json:"path_weight,omitempty"`
	PathLength float64           `json:"path_length,omitempty"`
}

// GraphMetrics builds the network graph and answers connectivity,
// centrality and path queries over it.
func (s *PlannerService) GraphMetrics(ctx context.Context, req *GraphMetricsRequest) (*GraphMetricsResult, error) {
	if req == nil {
		return nil, apperror.New(apperror.CodeNilInput, "graph metrics request is required")
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "service.GraphMetrics")
	defer span.End()

	graph, err := topology.Build(req.Nodes, req.Edges,
		topology.WithDamagedWeightMultiplier(s.cfg.DamagedWeightMultiplier))
	if err != nil {
		metrics.Get().RecordPlanOperation("graph_metrics", false, time.Since(start))
		return nil, err
	}

	connected := 0
	if req.Connect {
		connected = graph.ConnectNearest(nil, s.cfg.MaxConnectDistance)
	}

	metrics.Get().RecordGraphSize("graph_metrics", graph.NodeCount(), graph.EdgeCount())

	fp := graph.Fingerprint()
	key := cache.BuildMetricsKey(fp, s.metricsKeySuffix(req))
	if s.results != nil {
		var cached GraphMetricsResult
		hit, err := s.results.Get(ctx, key, &cached)
		metrics.Get().RecordCacheLookup("graph_metrics", hit)
		if err == nil && hit {
			return &cached, nil
		}
	}

	result := &GraphMetricsResult{
		Fingerprint:        fp,
		Statistics:         graph.Statistics(),
		Components:         graph.ConnectedComponents(),
		ConnectedBuildings: connected,
	}
	span.SetAttributes(telemetry.GraphAttributes(
		graph.NodeCount(), graph.EdgeCount(), result.Statistics.ComponentCount)...)

	if len(req.Metrics) > 0 {
		result.Centrality = make(map[string]map[topology.NodeID]float64, len(req.Metrics))
		for _, metric := range req.Metrics {
			scores, err := graph.Centrality(metric)
			if err != nil {
				metrics.Get().RecordPlanOperation("graph_metrics", false, time.Since(start))
				return nil, err
			}
			result.Centrality[string(metric)] = scores
		}
	}

	if req.TopCritical > 0 {
		critical, err := graph.TopCritical(topology.MetricBetweenness, req.TopCritical)
		if err != nil {
			metrics.Get().RecordPlanOperation("graph_metrics", false, time.Since(start))
			return nil, err
		}
		result.CriticalNodes = critical
	}

	if req.PathFrom != "" && req.PathTo != "" {
		path, weight, err := graph.ShortestPath(req.PathFrom, req.PathTo)
		if err != nil {
			metrics.Get().RecordPlanOperation("graph_metrics", false, time.Since(start))
			return nil, err
		}
		length, err := graph.PathCost(path)
		if err != nil {
			metrics.Get().RecordPlanOperation("graph_metrics", false, time.Since(start))
			return nil, err
		}
		result.Path = path
		result.PathWeight = weight
		result.PathLength = length
	}

	metrics.Get().RecordPlanOperation("graph_metrics", true, time.Since(start))

	if s.results != nil {
		_ = s.results.Set(ctx, key, result, 0)
	}

	return result, nil
}

// metricsKeySuffix disambiguates cached results computed with different
// query options over the same graph.
func (s *PlannerService) metricsKeySuffix(req *GraphMetricsRequest) string {
	var b strings.Builder
	// ConnectNearest changes node state without touching the edge set,
	// so the fingerprint alone cannot distinguish the two results.
	if req.Connect {
		b.WriteString("connect,")
	}
	for _, m := range req.Metrics {
		b.WriteString(string(m))
		b.WriteByte(',')
	}
	if req.TopCritical > 0 {
		b.WriteString("top:")
		b.WriteString(strconv.Itoa(req.TopCritical))
	}
	if req.PathFrom != "" || req.PathTo != "" {
		b.WriteString("path:")
		b.WriteString(string(req.PathFrom))
		b.WriteByte('>')
		b.WriteString(string(req.PathTo))
	}
	if b.Len() == 0 {
		return "summary"
	}
	return cache.ShortHash([]byte(b.String()))
}
