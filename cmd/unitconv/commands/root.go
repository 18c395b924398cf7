package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zlatanpham/exploro-sub001/internal/config"
	"github.com/zlatanpham/exploro-sub001/internal/infra"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	redisURL   string
	logLevel   string
	jsonOutput bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "unitconv",
	Short: "Cooking unit conversion toolkit",
	Long: `unitconv converts ingredient quantities between units and manages the data
that drives those conversions.

Features:
  - Mass, volume and count conversions with exact decimal arithmetic
  - Density bridging between mass and volume
  - Per-ingredient count unit mappings (1 quả = 60 g)
  - Bulk mapping import from xlsx
  - Normalisation of legacy free-text ingredient units`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbURL != "" {
			cfg.DatabaseURL = dbURL
		}
		if redisURL != "" {
			cfg.RedisURL = redisURL
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		infra.SetupLogger(cfg.Env, cfg.LogLevel)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis URL (overrides REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
