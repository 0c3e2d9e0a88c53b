package db

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPoolConfigDefaults(t *testing.T) {
	cfg, err := LoadPoolConfig(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, PoolConfig{
		MaxOpen:     25,
		MaxIdle:     5,
		MaxLifetime: 30 * time.Minute,
		PingTimeout: 5 * time.Second,
	}, cfg)
}

func TestLoadPoolConfigOverrides(t *testing.T) {
	cfg, err := LoadPoolConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_MAX_OPEN_CONNS":    "4",
		"DB_MAX_IDLE_CONNS":    "10",
		"DB_CONN_MAX_LIFETIME": "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxOpen)
	assert.Equal(t, 4, cfg.MaxIdle, "idle is capped at open")
	assert.Equal(t, time.Minute, cfg.MaxLifetime)
}

func TestLoadPoolConfigInvalid(t *testing.T) {
	_, err := LoadPoolConfig(context.Background(), envconfig.MapLookuper(map[string]string{"DB_MAX_OPEN_CONNS": "lots"}))
	assert.Error(t, err)

	_, err = LoadPoolConfig(context.Background(), envconfig.MapLookuper(map[string]string{"DB_MAX_IDLE_CONNS": "-1"}))
	assert.Error(t, err)
}

func TestLoadPoolConfigRejectsNonPositivePingTimeout(t *testing.T) {
	for _, v := range []string{"0", "0s", "-1s"} {
		_, err := LoadPoolConfig(context.Background(), envconfig.MapLookuper(map[string]string{"DB_PING_TIMEOUT": v}))
		assert.Error(t, err, v)
	}
}
