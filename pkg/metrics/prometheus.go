package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the global metrics container for the planner service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Planning metrics
	PlanOperationsTotal *prometheus.CounterVec
	PlanDuration        *prometheus.HistogramVec
	PlanTotalCost       prometheus.Gauge
	PhaseCost           *prometheus.GaugeVec
	UnplannedBuildings  prometheus.Gauge
	GraphNodesTotal     *prometheus.HistogramVec
	GraphEdgesTotal     *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec

	// Service information
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics initializes the metrics.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"path", "method"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		PlanOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_operations_total",
				Help:      "Total number of planning operations",
			},
			[]string{"operation", "status"},
		),

		PlanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_duration_seconds",
				Help:      "Duration of planning operations",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),

		PlanTotalCost: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_total_cost",
				Help:      "Total cost of the last computed plan",
			},
		),

		PhaseCost: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_phase_cost",
				Help:      "Cost of each phase in the last computed plan",
			},
			[]string{"phase"},
		),

		UnplannedBuildings: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_unplanned_buildings",
				Help:      "Number of buildings left unplanned by the last plan",
			},
		),

		GraphNodesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_nodes_total",
				Help:      "Number of nodes in processed graphs",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"operation"},
		),

		GraphEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges_total",
				Help:      "Number of edges in processed graphs",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"operation"},
		),

		CacheLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by outcome",
			},
			[]string{"artifact", "outcome"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics container.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("reconnect", "")
	}
	return defaultMetrics
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(path, method, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(path, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordPlanOperation records metrics of a planning operation.
func (m *Metrics) RecordPlanOperation(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	m.PlanOperationsTotal.WithLabelValues(operation, status).Inc()
	m.PlanDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPlanOutcome records the cost profile of a computed plan.
func (m *Metrics) RecordPlanOutcome(totalCost float64, phaseCosts []float64, unplanned int) {
	m.PlanTotalCost.Set(totalCost)
	for i, cost := range phaseCosts {
		m.PhaseCost.WithLabelValues(phaseLabel(i)).Set(cost)
	}
	m.UnplannedBuildings.Set(float64(unplanned))
}

// RecordGraphSize records the size of a processed graph.
func (m *Metrics) RecordGraphSize(operation string, nodes, edges int) {
	m.GraphNodesTotal.WithLabelValues(operation).Observe(float64(nodes))
	m.GraphEdgesTotal.WithLabelValues(operation).Observe(float64(edges))
}

// RecordCacheLookup records a result cache lookup.
func (m *Metrics) RecordCacheLookup(artifact string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(artifact, outcome).Inc()
}

// SetServiceInfo publishes service version information.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

func phaseLabel(i int) string {
	// Phase 0 is the critical phase, budget phases follow.
	if i == 0 {
		return "critical"
	}
	return "phase_" + strconv.Itoa(i)
}

// Handler returns the HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
