package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// PoolConfig holds connection pool settings handed to database/sql
type PoolConfig struct {
	MaxOpen     int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	MaxIdle     int           `env:"DB_MAX_IDLE_CONNS, default=5"`
	MaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
	PingTimeout time.Duration `env:"DB_PING_TIMEOUT, default=5s"`
}

// LoadPoolConfig reads pool settings from lookup, or the process environment when nil
func LoadPoolConfig(ctx context.Context, lookup envconfig.Lookuper) (PoolConfig, error) {
	if lookup == nil {
		lookup = envconfig.OsLookuper()
	}

	var cfg PoolConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup,
	}); err != nil {
		return PoolConfig{}, fmt.Errorf("load pool config: %w", err)
	}
	if cfg.MaxOpen < 0 || cfg.MaxIdle < 0 {
		return PoolConfig{}, fmt.Errorf("load pool config: connection limits must not be negative")
	}
	if cfg.PingTimeout <= 0 {
		return PoolConfig{}, fmt.Errorf("load pool config: DB_PING_TIMEOUT must be positive, got %s", cfg.PingTimeout)
	}
	if cfg.MaxOpen > 0 && cfg.MaxIdle > cfg.MaxOpen {
		cfg.MaxIdle = cfg.MaxOpen
	}
	return cfg, nil
}
