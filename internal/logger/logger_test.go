package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsUnknownFormat(t *testing.T) {
	_, err := Build(&Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestBuildRejectsUnknownLevel(t *testing.T) {
	_, err := Build(&Config{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shipping.log")

	require.NoError(t, Init(WithLevel("debug"), WithFormat("json"), WithFile(path), WithService("shipping")))
	t.Cleanup(func() { _ = Init(WithLevel("info")) })

	Named("test").Info("hello")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"shipping"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
