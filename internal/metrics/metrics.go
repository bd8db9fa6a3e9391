package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/catalog-admin-public/internal/catalog"
)

// Metrics holds the Prometheus collectors for the catalog, the realtime hub
// and the HTTP layer.
type Metrics struct {
	catalogOps      *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec

	connections      prometheus.Gauge
	messagesReceived prometheus.Counter
	messagesQueued   prometheus.Counter
	messagesDropped  *prometheus.CounterVec
}

// New registers the collectors with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Metrics{
		catalogOps: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Catalog operations by operation and result",
		}, []string{"operation", "result"})),
		catalogDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Duration of catalog operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"})),
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"})),
		connections: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Number of open realtime connections",
		})),
		messagesReceived: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_messages_received_total",
			Help: "Messages received from realtime clients",
		})),
		messagesQueued: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_messages_queued_total",
			Help: "Messages queued for delivery to realtime clients",
		})),
		messagesDropped: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_messages_dropped_total",
			Help: "Messages dropped instead of delivered, by reason",
		}, []string{"reason"})),
	}
}

// register reuses an already registered collector of the same shape, so
// several Metrics can share one registerer (tests, restarts in-process).
// Any other registration failure is a programming error and panics.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		panic(fmt.Sprintf("register collector: %v", err))
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		panic(fmt.Sprintf("collector already registered with unexpected type %T", are.ExistingCollector))
	}
	return existing
}

// ObserveCatalogOp implements catalog.Recorder.
func (m *Metrics) ObserveCatalogOp(op string, took time.Duration, err error) {
	m.catalogOps.WithLabelValues(op, catalogResult(err)).Inc()
	m.catalogDuration.WithLabelValues(op).Observe(took.Seconds())
}

func catalogResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case catalog.IsValidation(err):
		return "invalid"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ConnectionOpened() { m.connections.Inc() }
func (m *Metrics) ConnectionClosed() { m.connections.Dec() }
func (m *Metrics) MessageReceived()  { m.messagesReceived.Inc() }
func (m *Metrics) MessageQueued()    { m.messagesQueued.Inc() }

func (m *Metrics) MessageDropped(reason string) {
	m.messagesDropped.WithLabelValues(reason).Inc()
}
