package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RouteSaved("create", nil)
	m.RouteSaved("create", errors.New("nope"))
	m.RouteSaved("update", nil)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.ObserveRequest("/api/sites/{siteID}", "GET", 200, 5*time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.routeSaves.WithLabelValues("create", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.routeSaves.WithLabelValues("create", "error")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/sites/{siteID}", "GET", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RouteSaved("create", nil)
	m.CacheLookup(true)
	m.ObserveRequest("/", "GET", 200, time.Second)
}
