package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderingMetrics counts customization, cart and checkout activity.
type OrderingMetrics struct {
	customizations   *prometheus.CounterVec
	activeSelections prometheus.Gauge
	cartMutations    *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	sweepDuration    prometheus.Histogram
}

// NewOrderingMetrics registers the ordering metrics on the provided registerer.
// A nil registerer yields a no-op collector.
func NewOrderingMetrics(reg prometheus.Registerer) *OrderingMetrics {
	if reg == nil {
		return &OrderingMetrics{}
	}
	m := &OrderingMetrics{
		customizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "customization_sessions_total",
			Help: "Customization sessions by outcome.",
		}, []string{"outcome"}),
		activeSelections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "customization_sessions_active",
			Help: "Customization sessions currently open.",
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart operations by kind.",
		}, []string{"operation"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout attempts by result.",
		}, []string{"result"}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Time spent submitting orders.",
			Buckets: prometheus.DefBuckets,
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "customization_sweep_duration_seconds",
			Help:    "Duration of the idle customization sweep.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.customizations,
		m.activeSelections,
		m.cartMutations,
		m.checkouts,
		m.checkoutDuration,
		m.sweepDuration,
	)
	return m
}

// CustomizationOpened tracks a new session.
func (m *OrderingMetrics) CustomizationOpened() {
	if m == nil || m.customizations == nil {
		return
	}
	m.customizations.WithLabelValues("opened").Inc()
	m.activeSelections.Inc()
}

// CustomizationClosed tracks a session ending as confirmed, abandoned or expired.
func (m *OrderingMetrics) CustomizationClosed(outcome string) {
	if m == nil || m.customizations == nil {
		return
	}
	m.customizations.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.activeSelections.Dec()
}

func (m *OrderingMetrics) CartMutation(operation string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// Checkout records one checkout attempt and how long it took.
func (m *OrderingMetrics) Checkout(result string, duration time.Duration) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
	m.checkoutDuration.Observe(duration.Seconds())
}

func (m *OrderingMetrics) ObserveSweep(duration time.Duration) {
	if m == nil || m.sweepDuration == nil {
		return
	}
	m.sweepDuration.Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
