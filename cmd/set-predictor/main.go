// Package main provides the command line set predictor.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/set-predictor/internal/cache"
	"github.com/yourusername/set-predictor/internal/config"
	"github.com/yourusername/set-predictor/internal/database"
	"github.com/yourusername/set-predictor/internal/datasource"
	"github.com/yourusername/set-predictor/internal/logger"
	"github.com/yourusername/set-predictor/internal/metrics"
	"github.com/yourusername/set-predictor/internal/repository"
	"github.com/yourusername/set-predictor/internal/service"
	"github.com/yourusername/set-predictor/internal/simulator"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	simsFlag   int
	seedFlag   int64
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	svc        *service.PredictorService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().IntVar(&simsFlag, "sims", 0, "Override the configured number of simulated sets")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Override the configured random seed (0 = time based)")

	rootCmd.AddCommand(predictCmd, liveCmd, playersCmd, refreshCmd, statusCmd, overridesCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "set-predictor",
	Short: "Predict tennis set scores by Monte Carlo simulation",
	Long: `Builds per-surface serve and return stats from ATP and WTA match logs,
turns them into hold probabilities and simulates sets to estimate the
probability of every final score. Quotes can be checked against the model
for value.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context(), cmd.Flags().Changed("seed")); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "set-predictor %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context, seedChanged bool) error {
	appLog = logger.NewLoggerWithOutput(os.Stderr, cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	if cfg.Database.Enabled {
		var err error
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		appLog.Debug("Database connection established")
	}
	repos := repository.NewRepositories(db)

	source, err := datasource.NewFactory(appLog).NewMatchSource(cfg.DataSource, nil)
	if err != nil {
		return fmt.Errorf("failed to create match source: %w", err)
	}

	svc = service.NewPredictorService(
		source,
		repos.Overrides,
		cache.NewStatCache(cfg.CacheTTL(), cfg.CacheCleanupInterval()),
		serviceOptions(cfg, seedChanged),
		appLog,
	)
	return nil
}

func serviceOptions(cfg *config.Config, seedChanged bool) service.Options {
	// Validated already
	edge, _ := simulator.ParseTiebreakEdge(cfg.Simulation.TiebreakEdge)

	opts := service.DefaultOptions()
	opts.Simulation = simulator.Config{
		Sims:            cfg.Simulation.Sims,
		Seed:            cfg.Simulation.Seed,
		Workers:         cfg.Simulation.Workers,
		TiebreakWinProb: cfg.Simulation.TiebreakWinProb,
		TiebreakEdge:    edge,
	}
	if simsFlag > 0 {
		opts.Simulation.Sims = simsFlag
	}
	if seedChanged {
		opts.Simulation.Seed = seedFlag
	}
	opts.TopOutcomes = cfg.Model.TopOutcomes
	opts.LiveMinHold = cfg.Model.LiveMinHold
	opts.LiveMaxHold = cfg.Model.LiveMaxHold
	opts.KellyScale = cfg.Model.KellyFraction
	opts.MinEdge = cfg.Model.MinEdge
	return opts
}
