package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys.
const (
	// Topology
	AttrGraphNodes      = "graph.nodes"
	AttrGraphEdges      = "graph.edges"
	AttrGraphComponents = "graph.components"
	AttrFingerprint     = "graph.fingerprint"

	// Planning
	AttrPlanID          = "plan.id"
	AttrPlanPhases      = "plan.phases"
	AttrPlanTotalCost   = "plan.total_cost"
	AttrPlanUnplanned   = "plan.unplanned"
	AttrPlanBuildings   = "plan.buildings"
	AttrRankedBuildings = "ranking.buildings"

	// Centrality
	AttrCentralityMetric = "centrality.metric"
)

// GraphAttributes returns span attributes describing a topology.
func GraphAttributes(nodes, edges, components int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int(AttrGraphComponents, components),
	}
}

// PlanAttributes returns span attributes describing a computed plan.
func PlanAttributes(planID string, phases int, totalCost float64, unplanned int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrPlanID, planID),
		attribute.Int(AttrPlanPhases, phases),
		attribute.Float64(AttrPlanTotalCost, totalCost),
		attribute.Int(AttrPlanUnplanned, unplanned),
	}
}

// CentralityAttributes returns span attributes for a centrality run.
func CentralityAttributes(metric string, nodes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCentralityMetric, metric),
		attribute.Int(AttrGraphNodes, nodes),
	}
}
