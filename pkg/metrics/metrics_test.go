package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Metrics register against the default prometheus registry, so they are
// initialized once for the whole package.
var testMetrics = InitMetrics("reconnect_test", "")

func TestGet_ReturnsInitialized(t *testing.T) {
	if Get() != testMetrics {
		t.Error("expected Get to return the initialized container")
	}
}

func TestRecordPlanOperation(t *testing.T) {
	testMetrics.RecordPlanOperation("build_plan", true, 50*time.Millisecond)
	testMetrics.RecordPlanOperation("build_plan", false, 10*time.Millisecond)

	success := testutil.ToFloat64(testMetrics.PlanOperationsTotal.WithLabelValues("build_plan", "success"))
	if success != 1 {
		t.Errorf("expected 1 success, got %v", success)
	}
	failed := testutil.ToFloat64(testMetrics.PlanOperationsTotal.WithLabelValues("build_plan", "error"))
	if failed != 1 {
		t.Errorf("expected 1 error, got %v", failed)
	}
}

func TestRecordPlanOutcome(t *testing.T) {
	testMetrics.RecordPlanOutcome(125000, []float64{40000, 50000, 35000}, 3)

	if got := testutil.ToFloat64(testMetrics.PlanTotalCost); got != 125000 {
		t.Errorf("expected total cost 125000, got %v", got)
	}
	if got := testutil.ToFloat64(testMetrics.PhaseCost.WithLabelValues("critical")); got != 40000 {
		t.Errorf("expected critical phase cost 40000, got %v", got)
	}
	if got := testutil.ToFloat64(testMetrics.PhaseCost.WithLabelValues("phase_2")); got != 35000 {
		t.Errorf("expected phase_2 cost 35000, got %v", got)
	}
	if got := testutil.ToFloat64(testMetrics.UnplannedBuildings); got != 3 {
		t.Errorf("expected 3 unplanned, got %v", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	testMetrics.RecordCacheLookup("plan", true)
	testMetrics.RecordCacheLookup("plan", false)
	testMetrics.RecordCacheLookup("plan", false)

	hits := testutil.ToFloat64(testMetrics.CacheLookupsTotal.WithLabelValues("plan", "hit"))
	misses := testutil.ToFloat64(testMetrics.CacheLookupsTotal.WithLabelValues("plan", "miss"))
	if hits != 1 || misses != 2 {
		t.Errorf("expected 1 hit / 2 misses, got %v / %v", hits, misses)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	handler := HTTPMiddleware(testMetrics, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/plan", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rec.Code)
	}

	count := testutil.ToFloat64(testMetrics.HTTPRequestsTotal.WithLabelValues("/v1/plan", "GET", "418"))
	if count != 1 {
		t.Errorf("expected 1 recorded request, got %v", count)
	}
}

func TestPhaseLabel(t *testing.T) {
	if got := phaseLabel(0); got != "critical" {
		t.Errorf("expected 'critical', got %s", got)
	}
	if got := phaseLabel(3); got != "phase_3" {
		t.Errorf("expected 'phase_3', got %s", got)
	}
	if got := phaseLabel(12); got != "phase_12" {
		t.Errorf("expected 'phase_12', got %s", got)
	}
}
