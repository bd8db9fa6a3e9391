package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/catalog-admin-public/internal/catalog"
)

func TestObserveCatalogOpResults(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveCatalogOp("create", time.Millisecond, nil)
	m.ObserveCatalogOp("create", time.Millisecond, &catalog.ValidationError{Fields: []string{"price"}})
	m.ObserveCatalogOp("get", time.Millisecond, catalog.ErrNotFound)
	m.ObserveCatalogOp("list", time.Millisecond, fmt.Errorf("%w: %w", catalog.ErrStorageRead, errors.New("boom")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOps.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOps.WithLabelValues("create", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOps.WithLabelValues("get", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOps.WithLabelValues("list", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.catalogDuration))
}

func TestHubCounters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.MessageReceived()
	m.MessageQueued()
	m.MessageQueued()
	m.MessageDropped("queue_full")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesReceived))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesQueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesDropped.WithLabelValues("queue_full")))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveHTTPRequest("GET", "/products/:id", 404)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/products/:id", "404")))
}

func TestSharedRegistererReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewWithRegisterer(reg)
	second := NewWithRegisterer(reg)

	first.MessageReceived()
	second.MessageReceived()

	assert.Equal(t, 2.0, testutil.ToFloat64(first.messagesReceived))
}

func TestConflictingCollectorPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests",
	}, []string{"path"}))

	assert.Panics(t, func() { NewWithRegisterer(reg) })
}

func TestAlreadyRegisteredWithOtherTypePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_connections",
		Help: "Number of open realtime connections",
	}))

	assert.Panics(t, func() { NewWithRegisterer(reg) })
}
