package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/robotshop/shipping/internal/config"
	"github.com/robotshop/shipping/internal/datasource"
	"github.com/robotshop/shipping/internal/db"
	"github.com/robotshop/shipping/internal/logger"
	"github.com/robotshop/shipping/internal/service"
)

// SeedConfig holds seed configuration
type SeedConfig struct {
	CodesFile  string
	CitiesFile string
	Strategy   string
	Force      bool
}

func newRootCmd() *cobra.Command {
	cfg := &SeedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load shipping reference data into the database",
		Example: `
  seed --codes codes.csv --cities cities.csv
  seed --strategy fields --cities cities.csv --force`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.CodesFile == "" && cfg.CitiesFile == "" {
				return fmt.Errorf("at least one of --codes or --cities is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.CodesFile, "codes", "", "CSV file with code,name rows")
	cmd.Flags().StringVar(&cfg.CitiesFile, "cities", "", "CSV file with uuid,country_code,city,name,region,latitude,longitude rows")
	cmd.Flags().StringVar(&cfg.Strategy, "strategy", "auto", "Datasource strategy (auto, url, fields); overrides DATASOURCE_STRATEGY")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "Remove existing reference data first")
	return cmd
}

// seedStrategy takes DATASOURCE_STRATEGY unless --strategy was given explicitly
func seedStrategy(cmd *cobra.Command, cfg *SeedConfig, loaded *config.Config) (datasource.Strategy, error) {
	name := loaded.Datasource.Strategy
	if cmd.Flags().Changed("strategy") {
		name = cfg.Strategy
	}
	return datasource.ParseStrategy(name)
}

func closeDB(log *zap.Logger, conn *gorm.DB) {
	if err := db.Close(conn); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}

func run(cmd *cobra.Command, cfg *SeedConfig) error {
	ctx := cmd.Context()
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	loaded, err := config.Load("")
	if err != nil {
		return err
	}
	if err := logger.Init(
		logger.WithLevel(loaded.Logging.Level),
		logger.WithFormat(loaded.Logging.Format),
		logger.WithFile(loaded.Logging.File),
		logger.WithService("shipping-seed"),
	); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.L()

	codes, err := readCodesFile(cfg.CodesFile)
	if err != nil {
		return err
	}
	cities, err := readCitiesFile(cfg.CitiesFile)
	if err != nil {
		return err
	}

	strategy, err := seedStrategy(cmd, cfg, loaded)
	if err != nil {
		return err
	}
	desc, err := datasource.Resolve(strategy, logger.Named("datasource"))
	if err != nil {
		return err
	}
	pool, err := db.LoadPoolConfig(ctx, nil)
	if err != nil {
		return err
	}
	dbConn, err := db.Open(ctx, desc, pool, logger.Named("db"))
	if err != nil {
		return err
	}
	defer closeDB(log, dbConn)

	store := service.NewGormStore(dbConn)
	if cfg.Force {
		log.Info("removing existing reference data")
		if err := store.Truncate(ctx); err != nil {
			return err
		}
	}
	if err := store.UpsertCodes(ctx, codes); err != nil {
		return fmt.Errorf("seed codes: %w", err)
	}
	if err := store.UpsertCities(ctx, cities); err != nil {
		return fmt.Errorf("seed cities: %w", err)
	}

	log.Info("database seeding completed",
		zap.Int("codes", len(codes)),
		zap.Int("cities", len(cities)))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
