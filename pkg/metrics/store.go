package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for cart mutations.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeNoop     = "noop"
)

// StoreMetrics records cart, storage and catalog activity for the storefront process.
type StoreMetrics struct {
	cartMutations   *prometheus.CounterVec
	cartItems       prometheus.Gauge
	storageFailures *prometheus.CounterVec
	catalogLoads    *prometheus.CounterVec
	catalogDuration prometheus.Histogram
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_items",
		Help: "Sum of quantities currently in the cart.",
	})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_failures_total",
		Help: "Swallowed persistence failures by operation.",
	}, []string{"op"})
	catalogLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_loads_total",
		Help: "Catalog load attempts by outcome.",
	}, []string{"outcome"})
	catalogDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_catalog_load_duration_seconds",
		Help:    "Duration of catalog loads in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(cartMutations, cartItems, storageFailures, catalogLoads, catalogDuration)
	return &StoreMetrics{
		cartMutations:   cartMutations,
		cartItems:       cartItems,
		storageFailures: storageFailures,
		catalogLoads:    catalogLoads,
		catalogDuration: catalogDuration,
	}
}

// IncCartMutation counts one cart operation with its outcome.
func (m *StoreMetrics) IncCartMutation(op, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// SetCartItems records the current cart badge count.
func (m *StoreMetrics) SetCartItems(count int) {
	if m == nil || m.cartItems == nil {
		return
	}
	m.cartItems.Set(float64(count))
}

// IncStorageFailure counts a swallowed storage failure.
func (m *StoreMetrics) IncStorageFailure(op string) {
	if m == nil || m.storageFailures == nil {
		return
	}
	m.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCatalogLoad records the outcome and duration of a catalog load.
func (m *StoreMetrics) ObserveCatalogLoad(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if m.catalogLoads != nil {
		m.catalogLoads.WithLabelValues(normalizeLabel(outcome)).Inc()
	}
	if m.catalogDuration != nil {
		m.catalogDuration.Observe(duration.Seconds())
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
