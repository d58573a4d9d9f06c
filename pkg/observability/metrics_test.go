package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_NilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.RecordDependencyCheck("redis", time.Millisecond, nil)
		m.RecordHealthCheck("healthy")
	})
}

func TestMetrics_RecordDependencyCheck(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordDependencyCheck("postgres", 10*time.Millisecond, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DependencyUp.WithLabelValues("postgres")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DependencyErrorsTotal.WithLabelValues("postgres")))

	m.RecordDependencyCheck("postgres", 10*time.Millisecond, errors.New("down"))
	m.RecordDependencyCheck("postgres", 10*time.Millisecond, errors.New("down"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DependencyUp.WithLabelValues("postgres")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DependencyErrorsTotal.WithLabelValues("postgres")))
}

func TestMetrics_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordHealthCheck("degraded")

	rr := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ragstack_health_checks_total{status="degraded"} 1`)
}
