package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/ragstack/pkg/observability"
)

func TestLiveness(t *testing.T) {
	c := NewChecker(probes(&fakeProbe{name: "postgres", err: errors.New("down")}))

	rr := httptest.NewRecorder()
	c.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Liveness returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, StatusHealthy, response["status"])
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		probes     []*fakeProbe
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy",
			probes:     []*fakeProbe{{name: "postgres"}, {name: "redis"}},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name:       "degraded is ready",
			probes:     []*fakeProbe{{name: "postgres"}, {name: "redis", err: errors.New("down")}},
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
		},
		{
			name:       "unhealthy",
			probes:     []*fakeProbe{{name: "postgres", err: errors.New("down")}, {name: "redis"}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(probes(tt.probes...))

			rr := httptest.NewRecorder()
			c.Readiness(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rr.Code)

			var status Status
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Dependencies, len(tt.probes))
		})
	}
}

func TestNewHandler_Routes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	c := NewChecker(probes(&fakeProbe{name: "postgres"}), WithMetrics(metrics))

	srv := httptest.NewServer(NewHandler(c, registry, observability.NopLogger()))
	defer srv.Close()

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader), path)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ragstack_dependency_up{dependency="postgres"} 1`)

	resp, err = http.Post(srv.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestNewHandler_KeepsRequestID(t *testing.T) {
	c := NewChecker(nil)
	h := NewHandler(c, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(RequestIDHeader))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_RunAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewServer(addr, NewHandler(NewChecker(nil), nil, nil), nil)

	var closed atomic.Int32
	for i := 0; i < 3; i++ {
		s.OnShutdown(func(context.Context) error {
			closed.Add(1)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.EqualValues(t, 3, closed.Load())
}

func TestServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := NewServer(ln.Addr().String(), http.NotFoundHandler(), nil)

	cleaned := false
	closeErr := errors.New("close failed")
	s.OnShutdown(func(context.Context) error {
		cleaned = true
		return closeErr
	})

	err = s.Run(context.Background(), time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.Contains(t, err.Error(), "address already in use")
	assert.True(t, cleaned)
}
