package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveRequest records a completed request.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// CheckoutMetrics tracks checkout outcomes.
type CheckoutMetrics struct {
	orders    prometheus.Counter
	conflicts prometheus.Counter
}

// NewCheckoutMetrics registers checkout counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Orders created through checkout.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_conflicts_total",
		Help: "Checkout attempts aborted by a concurrent transaction.",
	})
	reg.MustRegister(orders, conflicts)
	return &CheckoutMetrics{orders: orders, conflicts: conflicts}
}

// IncOrder increments the created-orders counter.
func (m *CheckoutMetrics) IncOrder() {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Inc()
}

// IncConflict increments the aborted-checkout counter.
func (m *CheckoutMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
