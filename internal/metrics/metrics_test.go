package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if httpRequestsTotal == nil || httpRequestDurationSeconds == nil ||
		extractionsTotal == nil || fetchDurationSeconds == nil || proxiedBytesTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveExtraction(t *testing.T) {
	ObserveExtraction(ResultOK)
	ObserveExtraction(ResultOK)
	ObserveExtraction(ResultNetworkError)

	if val := testutil.ToFloat64(extractionsTotal.WithLabelValues(ResultOK)); val != 2 {
		t.Errorf("expected 2 ok extractions, got %f", val)
	}
	if val := testutil.ToFloat64(extractionsTotal.WithLabelValues(ResultNetworkError)); val != 1 {
		t.Errorf("expected 1 network error extraction, got %f", val)
	}
	// One series per result, independent of how many hosts were scraped.
	if val := testutil.CollectAndCount(extractionsTotal); val > 3 {
		t.Errorf("expected at most 3 extraction series, got %d", val)
	}
}

func TestObserveProxiedBytes(t *testing.T) {
	ObserveProxiedBytes("test-resource", 128)
	ObserveProxiedBytes("test-resource", 0)

	if val := testutil.ToFloat64(proxiedBytesTotal.WithLabelValues("test-resource")); val != 128 {
		t.Errorf("expected 128 proxied bytes, got %f", val)
	}
}

func TestObserveFetch(t *testing.T) {
	ObserveFetch(FetchKindResource, 20*time.Millisecond)

	if val := testutil.CollectAndCount(fetchDurationSeconds); val <= 0 {
		t.Errorf("expected fetch duration to be observed, got %d", val)
	}
}
