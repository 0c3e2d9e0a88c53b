package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger settings
type Config struct {
	Level      string
	Format     string
	FilePath   string
	Service    string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// Option mutates a logger Config
type Option func(*Config)

func WithLevel(lvl string) Option    { return func(c *Config) { c.Level = lvl } }
func WithFormat(f string) Option     { return func(c *Config) { c.Format = f } }
func WithFile(path string) Option    { return func(c *Config) { c.FilePath = path } }
func WithService(name string) Option { return func(c *Config) { c.Service = name } }

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init builds the process-wide logger. Calling Init again replaces it.
func Init(opts ...Option) error {
	cfg := &Config{
		Level:      "info",
		Format:     "console",
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
	}
	for _, apply := range opts {
		apply(cfg)
	}

	l, err := Build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = l
	return nil
}

// Build creates a standalone logger from cfg without touching the global one
func Build(cfg *Config) (*zap.Logger, error) {
	enc, err := buildEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	ws, err := buildWriter(cfg)
	if err != nil {
		return nil, err
	}
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := zap.New(zapcore.NewCore(enc, ws, lvl), zap.AddStacktrace(zapcore.ErrorLevel))
	if cfg.Service != "" {
		l = l.With(zap.String("service", cfg.Service))
	}
	return l, nil
}

// L returns the process-wide logger. It is a no-op logger until Init succeeds.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a component-scoped child logger
func Named(component string) *zap.Logger {
	return L().With(zap.String("component", component))
}

// Sync flushes buffered entries
func Sync() {
	_ = L().Sync()
}

func buildEncoder(format string) (zapcore.Encoder, error) {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func buildWriter(cfg *Config) (zapcore.WriteSyncer, error) {
	if cfg.FilePath == "" {
		return zapcore.AddSync(os.Stdout), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}), nil
}
