package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/api/v1/products", 200, 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/products")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.Observe("GET", "/health/live", 200, time.Second)

	unregistered := NewHTTPMetrics(nil)
	unregistered.Observe("GET", "/health/live", 200, time.Second)
}
