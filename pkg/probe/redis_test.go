package probe

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/ragstack/pkg/config"
)

func setupRedisProbe(t *testing.T) (*RedisProbe, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	p, err := NewRedisProbe(config.RedisSettings{Host: mr.Host(), Port: port})
	require.NoError(t, err)

	t.Cleanup(func() {
		p.Close()
		mr.Close()
	})
	return p, mr
}

func TestRedisProbe_Healthy(t *testing.T) {
	p, _ := setupRedisProbe(t)

	assert.Equal(t, "redis", p.Name())
	assert.Equal(t, 0, p.DB())
	assert.NoError(t, p.Check(context.Background()))
}

func TestRedisProbe_ServerDown(t *testing.T) {
	p, mr := setupRedisProbe(t)
	mr.Close()

	err := p.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
}
