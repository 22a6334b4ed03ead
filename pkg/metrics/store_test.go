package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStoreMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStoreMetrics(reg)

	metrics.IncCartMutation("add", OutcomeAccepted)
	metrics.IncCartMutation("add", OutcomeAccepted)
	metrics.IncCartMutation("add", OutcomeRejected)
	metrics.IncStorageFailure("save")
	metrics.SetCartItems(5)
	metrics.ObserveCatalogLoad("loaded", 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_cart_mutations_total", "outcome", OutcomeAccepted); err != nil {
		t.Fatalf("fetch accepted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected accepted=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_storage_failures_total", "op", "save"); err != nil {
		t.Fatalf("fetch storage failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected storage failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_catalog_loads_total", "outcome", "loaded"); err != nil {
		t.Fatalf("fetch catalog loads: %v", err)
	} else if got != 1 {
		t.Fatalf("expected catalog loads=1, got %f", got)
	}

	gauge := findMetricFamily(mfs, "storefront_cart_items")
	if gauge == nil || len(gauge.GetMetric()) != 1 {
		t.Fatalf("cart items gauge missing")
	}
	if got := gauge.GetMetric()[0].GetGauge().GetValue(); got != 5 {
		t.Fatalf("expected cart items=5, got %f", got)
	}

	histogram := findMetricFamily(mfs, "storefront_catalog_load_duration_seconds")
	if histogram == nil || histogram.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected catalog duration to be observed")
	}
}

func TestStoreMetricsNilSafe(t *testing.T) {
	var metrics *StoreMetrics
	metrics.IncCartMutation("add", OutcomeAccepted)
	metrics.IncStorageFailure("save")
	metrics.SetCartItems(1)
	metrics.ObserveCatalogLoad("errored", time.Second)

	unregistered := NewStoreMetrics(nil)
	unregistered.IncCartMutation("clear", OutcomeAccepted)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
