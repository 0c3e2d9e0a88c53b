package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads; viper ignores empty values
func clearEnv(t *testing.T) {
	t.Helper()
	for key, env := range envBindings {
		t.Setenv(env, "")
		t.Setenv("SHIPPING_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), "")
	}
	for _, env := range []string{
		"SHIPPING_SERVER_READ_TIMEOUT",
		"SHIPPING_SERVER_WRITE_TIMEOUT",
		"SHIPPING_SERVER_IDLE_TIMEOUT",
		"SHIPPING_SERVER_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "", cfg.Logging.File)
	assert.Equal(t, "auto", cfg.Datasource.Strategy)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATASOURCE_STRATEGY", "Fields")
	t.Setenv("SHIPPING_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "fields", cfg.Datasource.Strategy)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shipping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8081\"\ndatasource:\n  strategy: url\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "url", cfg.Datasource.Strategy)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("strategy", func(t *testing.T) {
		t.Setenv("DATASOURCE_STRATEGY", "jndi")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Strategy")
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Level")
	})

	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "http")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHIPPING_DOTENV_MARKER=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SHIPPING_DOTENV_MARKER") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SHIPPING_DOTENV_MARKER"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
