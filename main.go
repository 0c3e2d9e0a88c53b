package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robotshop/shipping/internal/api"
	"github.com/robotshop/shipping/internal/config"
	"github.com/robotshop/shipping/internal/datasource"
	"github.com/robotshop/shipping/internal/db"
	"github.com/robotshop/shipping/internal/logger"
	"github.com/robotshop/shipping/internal/metrics"
	"github.com/robotshop/shipping/internal/service"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		// logger is not up yet
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(
		logger.WithLevel(cfg.Logging.Level),
		logger.WithFormat(cfg.Logging.Format),
		logger.WithFile(cfg.Logging.File),
		logger.WithService("shipping"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Resolve connection settings
	strategy, err := datasource.ParseStrategy(cfg.Datasource.Strategy)
	if err != nil {
		log.Fatal("invalid datasource strategy", zap.Error(err))
	}
	desc, err := datasource.Resolve(strategy, logger.Named("datasource"))
	if err != nil {
		log.Fatal("cannot resolve datasource", zap.Error(err))
	}

	// Initialize database
	pool, err := db.LoadPoolConfig(ctx, nil)
	if err != nil {
		log.Fatal("invalid pool configuration", zap.Error(err))
	}
	dbConn, err := db.Open(ctx, desc, pool, logger.Named("db"))
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(dbConn); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	sqlDB, err := dbConn.DB()
	if err != nil {
		log.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}

	m := metrics.New()
	dbName := desc.Database
	if mc, err := desc.MySQLConfig(); err == nil {
		dbName = mc.DBName
	}
	if err := m.RegisterDB(sqlDB, dbName); err != nil {
		log.Warn("failed to register db stats collector", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	handlers := api.NewHandlers(service.NewGormStore(dbConn), sqlDB, logger.Named("api"))
	router := api.NewRouter(handlers, m, logger.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
