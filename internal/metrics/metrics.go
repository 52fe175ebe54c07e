package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shop"

// Metrics groups the collectors the shop exports. A nil *Metrics is valid and
// records nothing, which keeps services usable without a registry.
type Metrics struct {
	ordersPlaced   *prometheus.CounterVec
	invoiceRender  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	stockDecrement prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Order placement attempts by result.",
		}, []string{"result"}),
		invoiceRender: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_render_duration_seconds",
			Help:      "Time spent rendering invoice documents.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status range.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		stockDecrement: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_reserved_total",
			Help:      "Product units removed from stock by committed orders.",
		}),
	}
	reg.MustRegister(m.ordersPlaced, m.invoiceRender, m.httpRequests, m.httpLatency, m.stockDecrement)
	return m
}

func (m *Metrics) OrderPlaced(result string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(result).Inc()
}

func (m *Metrics) UnitsReserved(units int) {
	if m == nil || units <= 0 {
		return
	}
	m.stockDecrement.Add(float64(units))
}

func (m *Metrics) InvoiceRendered(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invoiceRender.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusRange(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// statusRange converts status code to a range string (2xx, 3xx, 4xx, 5xx)
func statusRange(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
