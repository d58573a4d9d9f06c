package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServe_StartsAndStops(t *testing.T) {
	te := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	te.Context = ctx
	te.Stderr = io.Discard

	path := writeEnvFile(t, baseEnvFile)
	addr := freeAddr(t)

	done := make(chan error, 1)
	go func() { done <- te.run("serve", "-env-file", path, "-addr", addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 25*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServe_InvalidSettings(t *testing.T) {
	te := newTestEnv(t)

	err := te.run("serve", "-env-file", "", "-addr", freeAddr(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
}
